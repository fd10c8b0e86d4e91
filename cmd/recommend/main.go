package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/agrismart/platform/backend/internal/adapters/providers/geocoding"
	"github.com/agrismart/platform/backend/internal/application/services"
	"github.com/agrismart/platform/backend/internal/domain/providers"
	"github.com/agrismart/platform/backend/internal/recommender"
	"github.com/agrismart/platform/backend/pkg/config"
)

// recommend is a command-line front to the district matcher: point it at the
// IFS dataset and ask by district or free-text location.
func main() {
	var (
		csvPath  = flag.String("csv", "data/ifs_models.csv", "path to the IFS reference dataset")
		district = flag.String("district", "", "district to look up")
		location = flag.String("location", "", "free-text location to geocode and look up")
		format   = flag.String("format", "text", "output format: text or json")
	)
	flag.Parse()

	if *district == "" && *location == "" {
		fmt.Fprintln(os.Stderr, "either -district or -location is required")
		flag.Usage()
		os.Exit(2)
	}

	records, err := recommender.LoadCSV(*csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load dataset: %v\n", err)
		os.Exit(1)
	}

	var geocoder providers.GeocodingProvider
	if *location != "" {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		geocoder = geocoding.NewNominatimProvider(cfg.Geocoding.BaseURL, cfg.Geocoding.UserAgent, nil, nil)
	}

	svc := services.NewRecommendationService(records, geocoder)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	response, err := svc.Recommend(ctx, *location, *district)
	if err != nil {
		var noMatch *recommender.NoMatchError
		if errors.As(err, &noMatch) && noMatch.BestGuess != "" {
			fmt.Fprintf(os.Stderr, "no match for %q, did you mean %q? (score %d)\n",
				noMatch.Input, noMatch.BestGuess, noMatch.BestScore)
		} else {
			fmt.Fprintf(os.Stderr, "lookup failed: %v\n", err)
		}
		os.Exit(1)
	}

	switch *format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode response: %v\n", err)
			os.Exit(1)
		}
	default:
		if response.InputLocation != "" {
			fmt.Printf("Location:  %s (geocoded to %s)\n", response.InputLocation, response.GeocodedDistrict)
		}
		fmt.Printf("District:  %s (score %d)\n", response.MatchedDistrict, response.MatchScore)
		fmt.Printf("Models:    %d\n\n", len(response.Recommendations))
		for i, item := range response.Recommendations {
			fmt.Printf("%d. %s [%s]\n   %s\n", i+1, item.Model, item.Zone, item.Description)
		}
	}
}

package recommender_test

import (
	"strings"
	"testing"

	"github.com/agrismart/platform/backend/internal/recommender"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_ValidDataset(t *testing.T) {
	csvData := strings.Join([]string{
		"District,Agro_Climatic_Zone,IFS_Model,Description",
		"Chengalpattu,North Eastern Zone,Crop + Dairy,\"Paddy based system, 2 milch animals\"",
		"Kanchipuram,North Eastern Zone,Crop + Poultry, Backyard poultry with paddy ",
	}, "\n")

	records, err := recommender.ParseCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Chengalpattu", records[0].District)
	assert.Equal(t, "North Eastern Zone", records[0].AgroClimaticZone)
	assert.Equal(t, "Crop + Dairy", records[0].ModelName)
	assert.Equal(t, "Paddy based system, 2 milch animals", records[0].Description)
	assert.Equal(t, "Backyard poultry with paddy", records[1].Description, "values are trimmed")
}

func TestParseCSV_ByteOrderMark(t *testing.T) {
	csvData := "\uFEFFDistrict,Agro_Climatic_Zone,IFS_Model,Description\nMadurai,Southern Zone,Crop + Goat,Goat rearing\n"

	records, err := recommender.ParseCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Madurai", records[0].District)
}

func TestParseCSV_MissingColumns(t *testing.T) {
	csvData := "District,Description\nChengalpattu,some text\n"

	_, err := recommender.ParseCSV(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Contains(t, err.Error(), "Agro_Climatic_Zone")
	assert.Contains(t, err.Error(), "IFS_Model")
	assert.NotContains(t, err.Error(), "missing required columns: District")
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := recommender.LoadCSV("testdata/does-not-exist.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open IFS dataset")
}

func TestBuildIndex(t *testing.T) {
	records := []recommender.Record{
		{District: "Chengalpattu", AgroClimaticZone: "NE Zone", ModelName: "Crop + Dairy", Description: "d1"},
		{District: "CHENGALPATTU DISTRICT", AgroClimaticZone: "NE Zone", ModelName: "Crop + Poultry", Description: "d2"},
		{District: "Kanchipuram", AgroClimaticZone: "NE Zone", ModelName: "Crop + Fish", Description: "d3"},
		{District: "###", AgroClimaticZone: "garbage", ModelName: "dropped", Description: "no usable district"},
	}

	idx := recommender.BuildIndex(records)

	assert.Equal(t, 2, idx.Len(), "garbage rows are dropped")

	display, ok := idx.DisplayName("chengalpattu")
	require.True(t, ok)
	assert.Equal(t, "Chengalpattu", display, "first-seen raw district wins")

	recs := idx.Records("chengalpattu")
	require.Len(t, recs, 2)
	assert.Equal(t, "Crop + Dairy", recs[0].ModelName, "insertion order preserved")
	assert.Equal(t, "Crop + Poultry", recs[1].ModelName)
}

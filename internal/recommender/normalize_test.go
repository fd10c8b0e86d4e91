package recommender_test

import (
	"testing"

	"github.com/agrismart/platform/backend/internal/recommender"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeDistrict(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Chengalpattu", "chengalpattu"},
		{"drops district word", "Chengalpattu District", "chengalpattu"},
		{"district word only in full", "Districtville", "districtville"},
		{"strips punctuation and digits", "Kanchipuram-604 (TN)", "kanchipuram tn"},
		{"collapses whitespace", "  The   Nilgiris  ", "the nilgiris"},
		{"empty", "", ""},
		{"only punctuation", "##123!!", ""},
		{"only the word district", "District", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, recommender.NormalizeDistrict(tc.input))
		})
	}
}

func TestNormalizeDistrict_Idempotent(t *testing.T) {
	inputs := []string{
		"Chengalpattu District",
		"  KANCHIPURAM!!  ",
		"Tiruchirappalli",
		"",
		"a  b   c",
	}
	for _, in := range inputs {
		once := recommender.NormalizeDistrict(in)
		assert.Equal(t, once, recommender.NormalizeDistrict(once), "input %q", in)
	}
}

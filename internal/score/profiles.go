package score

import "fmt"

// Profile carries one scoring variant's keyword list and sub-score weights.
// The weights of each profile sum to 1 so the overall stays in 0..100.
type Profile struct {
	Name     string
	Keywords []string
	Weights  map[string]float64
}

var baseKeywords = []string{
	"experience", "certified", "verified", "education", "reference",
	"project", "skill", "award", "publication", "license",
}

var profiles = map[string]Profile{
	"default": {
		Name:     "default",
		Keywords: baseKeywords,
		Weights: map[string]float64{
			"metadata_plausibility": 0.25,
			"keyword_density":       0.20,
			"structure":             0.15,
			"identity":              0.15,
			"profile_match":         0.15,
			"skill_signals":         0.10,
		},
	},
	// strict leans on what the document itself can prove and discounts the
	// simulated checks.
	"strict": {
		Name:     "strict",
		Keywords: baseKeywords,
		Weights: map[string]float64{
			"metadata_plausibility": 0.35,
			"keyword_density":       0.25,
			"structure":             0.20,
			"identity":              0.08,
			"profile_match":         0.07,
			"skill_signals":         0.05,
		},
	},
	"lenient": {
		Name:     "lenient",
		Keywords: baseKeywords,
		Weights: map[string]float64{
			"metadata_plausibility": 0.15,
			"keyword_density":       0.15,
			"structure":             0.10,
			"identity":              0.20,
			"profile_match":         0.20,
			"skill_signals":         0.20,
		},
	},
}

// ProfileByName resolves a scoring profile; empty means default.
func ProfileByName(name string) (Profile, error) {
	if name == "" {
		name = "default"
	}
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown scoring profile %q", name)
	}
	return p, nil
}

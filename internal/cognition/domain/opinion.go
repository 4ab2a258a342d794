package domain

// SuggestedWindow is the focus-window duration range an opinion proposes.
type SuggestedWindow struct {
	MinMinutes int `json:"min_minutes"`
	MaxMinutes int `json:"max_minutes"`
}

// Opinion is the tiered guidance bundle derived from the pressure index.
// Presentation logic over the model: tier boundaries and confidences are
// fixed.
type Opinion struct {
	PrimaryFocus    string          `json:"primary_focus"`
	Reason          string          `json:"reason"`
	ExplicitDoNot   []string        `json:"explicit_do_not"`
	SuggestedWindow SuggestedWindow `json:"suggested_window"`
	Confidence      int             `json:"confidence"`
}

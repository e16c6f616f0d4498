package profile

import "strings"

type GlucoseUnits string

const (
	MgdL  GlucoseUnits = "mg/dL"
	MmolL GlucoseUnits = "mmol/L"
)

// ParseUnits returns mmol/L for the mmol/L token in any case and mg/dL for
// everything else, including "".
func ParseUnits(token string) GlucoseUnits {
	if strings.EqualFold(strings.TrimSpace(token), string(MmolL)) {
		return MmolL
	}
	return MgdL
}

type CarbRatios struct {
	Units    GlucoseUnits     `json:"units"`
	Schedule []CarbRatioEntry `json:"schedule"`
}

type CarbRatioEntry struct {
	Start  string  `json:"start"`
	Offset int     `json:"offset"`
	Ratio  float64 `json:"ratio"`
}

type BasalProfile struct {
	Units   GlucoseUnits `json:"units"`
	Entries []BasalEntry `json:"entries"`
}

type BasalEntry struct {
	Start  string  `json:"start"`
	Offset int     `json:"offset"`
	Rate   float64 `json:"rate"`
}

type InsulinSensitivities struct {
	Units         GlucoseUnits       `json:"units"`
	UserPrefUnits GlucoseUnits       `json:"user_preferred_units"`
	Sensitivities []SensitivityEntry `json:"sensitivities"`
}

type SensitivityEntry struct {
	Start       string  `json:"start"`
	Offset      int     `json:"offset"`
	Sensitivity float64 `json:"sensitivity"`
}

// BGTargets holds point targets: every entry has Low == High.
type BGTargets struct {
	Units         GlucoseUnits  `json:"units"`
	UserPrefUnits GlucoseUnits  `json:"user_preferred_units"`
	Targets       []TargetEntry `json:"targets"`
}

type TargetEntry struct {
	Start  string  `json:"start"`
	Offset int     `json:"offset"`
	Low    float64 `json:"low"`
	High   float64 `json:"high"`
}

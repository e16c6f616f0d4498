package profile

import (
	"context"
	"errors"
	"fmt"
)

// Storage keys of the persisted entities.
const (
	KeyCarbRatios           = "settings/carb_ratios.json"
	KeyBasalProfile         = "settings/basal_profile.json"
	KeyInsulinSensitivities = "settings/insulin_sensitivities.json"
	KeyBGTargets            = "settings/bg_targets.json"
)

// Storage persists an entity under key, replacing whatever was there.
type Storage interface {
	Save(ctx context.Context, key string, entity any) error
}

// Set is the internal form of one remote profile.
type Set struct {
	Units         GlucoseUnits
	CarbRatios    CarbRatios
	Basal         BasalProfile
	Sensitivities InsulinSensitivities
	Targets       BGTargets
}

// Convert maps p slot by slot. Times and offsets are copied verbatim.
// Targets come from the low schedule alone: the loop works with a single
// target value, so each entry gets Low = High = target_low.
func Convert(p Profile) Set {
	units := ParseUnits(p.Units)

	set := Set{
		Units:         units,
		CarbRatios:    CarbRatios{Units: units, Schedule: make([]CarbRatioEntry, 0, len(p.CarbRatio))},
		Basal:         BasalProfile{Units: units, Entries: make([]BasalEntry, 0, len(p.Basal))},
		Sensitivities: InsulinSensitivities{Units: units, UserPrefUnits: units, Sensitivities: make([]SensitivityEntry, 0, len(p.Sens))},
		Targets:       BGTargets{Units: units, UserPrefUnits: units, Targets: make([]TargetEntry, 0, len(p.TargetLow))},
	}
	for _, v := range p.CarbRatio {
		set.CarbRatios.Schedule = append(set.CarbRatios.Schedule, CarbRatioEntry{Start: v.Time, Offset: v.TimeAsSeconds, Ratio: v.Value})
	}
	for _, v := range p.Basal {
		set.Basal.Entries = append(set.Basal.Entries, BasalEntry{Start: v.Time, Offset: v.TimeAsSeconds, Rate: v.Value})
	}
	for _, v := range p.Sens {
		set.Sensitivities.Sensitivities = append(set.Sensitivities.Sensitivities, SensitivityEntry{Start: v.Time, Offset: v.TimeAsSeconds, Sensitivity: v.Value})
	}
	for _, v := range p.TargetLow {
		set.Targets.Targets = append(set.Targets.Targets, TargetEntry{Start: v.Time, Offset: v.TimeAsSeconds, Low: v.Value, High: v.Value})
	}
	return set
}

// Save writes all four entities. Every save is attempted; the failures
// are joined in the returned error.
func (s Set) Save(ctx context.Context, storage Storage) error {
	entities := []struct {
		key    string
		entity any
	}{
		{KeyCarbRatios, s.CarbRatios},
		{KeyBasalProfile, s.Basal},
		{KeyInsulinSensitivities, s.Sensitivities},
		{KeyBGTargets, s.Targets},
	}

	var errs []error
	for _, e := range entities {
		if err := storage.Save(ctx, e.key, e.entity); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", e.key, err))
		}
	}
	return errors.Join(errs...)
}

// ImportResult reports a completed import.
type ImportResult struct {
	Set
	// SaveErr joins the failed saves, nil when all four were stored.
	SaveErr error
}

// Loader reads the entity saved under key into out.
type Loader interface {
	Load(ctx context.Context, key string, out any) error
}

// LoadSet reads back the four entities of the last import. Units are
// those of the carb ratios.
func LoadSet(ctx context.Context, l Loader) (Set, error) {
	var s Set
	for _, e := range []struct {
		key string
		out any
	}{
		{KeyCarbRatios, &s.CarbRatios},
		{KeyBasalProfile, &s.Basal},
		{KeyInsulinSensitivities, &s.Sensitivities},
		{KeyBGTargets, &s.Targets},
	} {
		if err := l.Load(ctx, e.key, e.out); err != nil {
			return Set{}, fmt.Errorf("load %s: %w", e.key, err)
		}
	}
	s.Units = s.CarbRatios.Units
	return s, nil
}

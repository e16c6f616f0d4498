// Package profile maps therapy profiles published on the remote store into
// the four schedule entities the loop persists locally.
package profile

import "time"

// DefaultName is the store entry that gets imported.
const DefaultName = "default"

// Store is a profile document as kept by the remote store. Store maps
// profile names to schedules.
type Store struct {
	ID             string             `json:"_id,omitempty"`
	DefaultProfile string             `json:"defaultProfile"`
	StartDate      time.Time          `json:"startDate"`
	Mills          int64              `json:"mills"`
	Units          string             `json:"units"`
	EnteredBy      string             `json:"enteredBy"`
	Store          map[string]Profile `json:"store"`
}

type Profile struct {
	DIA        float64     `json:"dia"`
	CarbsHr    float64     `json:"carbs_hr"`
	Delay      float64     `json:"delay"`
	Timezone   string      `json:"timezone"`
	Units      string      `json:"units"`
	CarbRatio  []TimeValue `json:"carbratio"`
	Basal      []TimeValue `json:"basal"`
	Sens       []TimeValue `json:"sens"`
	TargetLow  []TimeValue `json:"target_low"`
	TargetHigh []TimeValue `json:"target_high"`
}

// TimeValue is one schedule slot: time of day ("HH:MM"), seconds since
// midnight and the slot value.
type TimeValue struct {
	Time          string  `json:"time"`
	Value         float64 `json:"value"`
	TimeAsSeconds int     `json:"timeAsSeconds"`
}

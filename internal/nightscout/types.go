package nightscout

import "time"

const (
	EventTemporaryTarget = "Temporary Target"
	EventAnnouncement    = "Announcement"
	EventNote            = "Note"
	EventTempBasal       = "Temp Basal"
	EventBolus           = "Bolus"
	EventCarbCorrection  = "Carb Correction"
)

// BloodGlucose is an entry of the sgv collection. On fetch Glucose is
// populated from SGV.
type BloodGlucose struct {
	ID         string     `json:"_id,omitempty"`
	SGV        *int       `json:"sgv,omitempty"`
	Direction  string     `json:"direction,omitempty"`
	Date       int64      `json:"date"`
	DateString Timestamp  `json:"dateString"`
	Filtered   *float64   `json:"filtered,omitempty"`
	Unfiltered *float64   `json:"unfiltered,omitempty"`
	Noise      *int       `json:"noise,omitempty"`
	Glucose    *int       `json:"glucose,omitempty"`
	Type       string     `json:"type,omitempty"`
	Device     string     `json:"device,omitempty"`
	SysTime    *Timestamp `json:"sysTime,omitempty"`
}

type CarbsEntry struct {
	ID        string    `json:"_id,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
	Carbs     float64   `json:"carbs"`
	Fat       *float64  `json:"fat,omitempty"`
	Protein   *float64  `json:"protein,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	EnteredBy string    `json:"enteredBy,omitempty"`
	IsFPU     *bool     `json:"isFPU,omitempty"`
	FPUID     string    `json:"fpuID,omitempty"`
}

type TempTarget struct {
	ID           string    `json:"_id,omitempty"`
	Name         string    `json:"name,omitempty"`
	CreatedAt    Timestamp `json:"created_at"`
	TargetTop    *float64  `json:"targetTop,omitempty"`
	TargetBottom *float64  `json:"targetBottom,omitempty"`
	Duration     float64   `json:"duration"`
	EnteredBy    string    `json:"enteredBy,omitempty"`
	Reason       string    `json:"reason,omitempty"`
}

type Announcement struct {
	CreatedAt Timestamp `json:"created_at"`
	EnteredBy string    `json:"enteredBy"`
	Notes     string    `json:"notes"`
}

// Treatment is the upload shape for everything the loop records:
// boluses, temp basals, carbs, temp targets and notes.
type Treatment struct {
	ID           string     `json:"_id,omitempty"`
	EventType    string     `json:"eventType"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	EnteredBy    string     `json:"enteredBy,omitempty"`
	Duration     *int       `json:"duration,omitempty"`
	RawDuration  *float64   `json:"rawDuration,omitempty"`
	Absolute     *float64   `json:"absolute,omitempty"`
	Rate         *float64   `json:"rate,omitempty"`
	Bolus        *float64   `json:"bolus,omitempty"`
	Insulin      *float64   `json:"insulin,omitempty"`
	IsSMB        bool       `json:"isSMB,omitempty"`
	Carbs        *float64   `json:"carbs,omitempty"`
	Fat          *float64   `json:"fat,omitempty"`
	Protein      *float64   `json:"protein,omitempty"`
	TargetTop    *float64   `json:"targetTop,omitempty"`
	TargetBottom *float64   `json:"targetBottom,omitempty"`
	Glucose      *float64   `json:"glucose,omitempty"`
	GlucoseType  string     `json:"glucoseType,omitempty"`
	Units        string     `json:"units,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	FPUID        string     `json:"fpuID,omitempty"`
}

// DeviceStatus is the loop state document posted to the devicestatus
// collection after every loop cycle.
type DeviceStatus struct {
	Device   string    `json:"device"`
	OpenAps  OpenAps   `json:"openaps"`
	Pump     *Pump     `json:"pump,omitempty"`
	Uploader *Uploader `json:"uploader,omitempty"`
}

type OpenAps struct {
	IOB       *IOB       `json:"iob,omitempty"`
	Suggested *Suggested `json:"suggested,omitempty"`
	Enacted   *Suggested `json:"enacted,omitempty"`
	Version   string     `json:"version,omitempty"`
}

type IOB struct {
	IOB      float64   `json:"iob"`
	BasalIOB float64   `json:"basaliob"`
	Activity float64   `json:"activity"`
	Time     time.Time `json:"time"`
}

type PredBGs struct {
	IOB []int `json:"IOB,omitempty"`
	ZT  []int `json:"ZT,omitempty"`
	COB []int `json:"COB,omitempty"`
	UAM []int `json:"UAM,omitempty"`
}

type Suggested struct {
	Temp             string     `json:"temp,omitempty"`
	BG               float64    `json:"bg,omitempty"`
	Tick             string     `json:"tick,omitempty"`
	EventualBG       float64    `json:"eventualBG,omitempty"`
	TargetBG         float64    `json:"targetBG,omitempty"`
	InsulinReq       float64    `json:"insulinReq,omitempty"`
	DeliverAt        *time.Time `json:"deliverAt,omitempty"`
	SensitivityRatio float64    `json:"sensitivityRatio,omitempty"`
	PredBGs          *PredBGs   `json:"predBGs,omitempty"`
	COB              float64    `json:"COB"`
	IOB              float64    `json:"IOB"`
	Reason           string     `json:"reason"`
	Units            float64    `json:"units,omitempty"`
	Rate             float64    `json:"rate,omitempty"`
	Duration         int        `json:"duration,omitempty"`
	Timestamp        time.Time  `json:"timestamp"`
	Received         *bool      `json:"received,omitempty"`
}

type Pump struct {
	Clock     time.Time     `json:"clock"`
	Reservoir *float64      `json:"reservoir,omitempty"`
	Status    PumpStatus    `json:"status"`
	Extended  *PumpExtended `json:"extended,omitempty"`
	Battery   *Battery      `json:"battery,omitempty"`
}

type PumpStatus struct {
	Status    string    `json:"status"`
	Bolusing  bool      `json:"bolusing"`
	Suspended bool      `json:"suspended"`
	Timestamp time.Time `json:"timestamp"`
}

type PumpExtended struct {
	Version               string  `json:"Version,omitempty"`
	ActiveProfile         string  `json:"ActiveProfile,omitempty"`
	TempBasalAbsoluteRate float64 `json:"TempBasalAbsoluteRate,omitempty"`
	TempBasalPercent      int     `json:"TempBasalPercent,omitempty"`
	TempBasalRemaining    int     `json:"TempBasalRemaining,omitempty"`
}

type Battery struct {
	Percent int     `json:"percent,omitempty"`
	Voltage float64 `json:"voltage,omitempty"`
	Status  string  `json:"status,omitempty"`
}

type Uploader struct {
	Battery int `json:"battery"`
}

// Statistics carries daily loop statistics in a devicestatus document.
type Statistics struct {
	Device string     `json:"device"`
	Stats  DailyStats `json:"dailystats"`
}

type DailyStats struct {
	CreatedAt      time.Time `json:"createdAt"`
	IAPSVersion    string    `json:"iAPS_Version,omitempty"`
	Pump           string    `json:"pump,omitempty"`
	CGM            string    `json:"CGM,omitempty"`
	TIR            float64   `json:"TIR"`
	BGAverage      float64   `json:"BG_Average"`
	HbA1c          float64   `json:"HbA1c"`
	LoopCycles     int       `json:"loopCycles"`
	TotalDailyDose float64   `json:"TDD"`
	Carbs24h       float64   `json:"Carbs_24h"`
	Units          string    `json:"units,omitempty"`
	Hypoglycemias  float64   `json:"hypos,omitempty"`
	Hyperglycemias float64   `json:"hypers,omitempty"`
}

// PreferencesStatus publishes the algorithm preferences in a devicestatus
// document.
type PreferencesStatus struct {
	Device      string      `json:"device"`
	Preferences Preferences `json:"preferences"`
}

type Preferences struct {
	MaxIOB                       float64 `json:"max_iob"`
	MaxDailySafetyMultiplier     float64 `json:"max_daily_safety_multiplier"`
	CurrentBasalSafetyMultiplier float64 `json:"current_basal_safety_multiplier"`
	AutosensMax                  float64 `json:"autosens_max"`
	AutosensMin                  float64 `json:"autosens_min"`
	Min5mCarbimpact              float64 `json:"min_5m_carbimpact"`
	MaxCOB                       float64 `json:"maxCOB"`
	EnableSMBAlways              bool    `json:"enableSMB_always"`
	EnableUAM                    bool    `json:"enableUAM"`
	MaxSMBBasalMinutes           float64 `json:"maxSMBBasalMinutes"`
	MaxUAMSMBBasalMinutes        float64 `json:"maxUAMSMBBasalMinutes"`
	InsulinCurve                 string  `json:"curve,omitempty"`
}

// connectionCheck is the marker note posted by CheckConnection.
type connectionCheck struct {
	EventType string `json:"eventType"`
	EnteredBy string `json:"enteredBy"`
	Notes     string `json:"notes"`
}

package nightscout

import (
	"strconv"
	"strings"
)

type ActionKind string

const (
	ActionBolus     ActionKind = "bolus"
	ActionPump      ActionKind = "pump"
	ActionLooping   ActionKind = "looping"
	ActionTempBasal ActionKind = "tempbasal"
	ActionMeal      ActionKind = "meal"
	ActionOverride  ActionKind = "override"
)

// AnnouncementAction is a remote command carried in announcement notes as
// "<command>:<arguments>". Only the fields of Kind are set.
type AnnouncementAction struct {
	Kind ActionKind

	Amount float64 // bolus units

	Suspend bool // pump: true for suspend, false for resume

	Looping bool

	Rate            float64 // tempbasal U/h
	DurationMinutes int

	Carbs   float64
	Fat     float64
	Protein float64

	Override string
}

// Action parses the notes. It reports false for free text, unknown
// commands and malformed arguments.
func (a Announcement) Action() (AnnouncementAction, bool) {
	command, args, ok := strings.Cut(a.Notes, ":")
	if !ok || strings.Contains(args, ":") {
		return AnnouncementAction{}, false
	}
	args = strings.TrimSpace(args)
	kind := ActionKind(strings.ToLower(strings.TrimSpace(command)))
	act := AnnouncementAction{Kind: kind}

	switch kind {
	case ActionBolus:
		v, err := strconv.ParseFloat(args, 64)
		if err != nil || v <= 0 {
			return AnnouncementAction{}, false
		}
		act.Amount = v
	case ActionPump:
		switch strings.ToLower(args) {
		case "suspend":
			act.Suspend = true
		case "resume":
		default:
			return AnnouncementAction{}, false
		}
	case ActionLooping:
		v, err := strconv.ParseBool(strings.ToLower(args))
		if err != nil {
			return AnnouncementAction{}, false
		}
		act.Looping = v
	case ActionTempBasal:
		parts := splitArgs(args)
		if len(parts) != 2 {
			return AnnouncementAction{}, false
		}
		rate, err := strconv.ParseFloat(parts[0], 64)
		if err != nil || rate < 0 {
			return AnnouncementAction{}, false
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil || minutes < 0 {
			return AnnouncementAction{}, false
		}
		act.Rate, act.DurationMinutes = rate, minutes
	case ActionMeal:
		parts := splitArgs(args)
		if len(parts) != 3 {
			return AnnouncementAction{}, false
		}
		vals := make([]float64, 3)
		for i, p := range parts {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil || v < 0 {
				return AnnouncementAction{}, false
			}
			vals[i] = v
		}
		act.Carbs, act.Fat, act.Protein = vals[0], vals[1], vals[2]
	case ActionOverride:
		if args == "" {
			return AnnouncementAction{}, false
		}
		act.Override = args
	default:
		return AnnouncementAction{}, false
	}
	return act, true
}

func splitArgs(args string) []string {
	parts := strings.Split(args, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

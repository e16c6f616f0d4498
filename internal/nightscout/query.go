package nightscout

import (
	"strconv"
	"strings"
	"time"
)

const (
	glucoseFetchCount = 1600
	timestampLayout   = "2006-01-02T15:04:05.000Z"
)

// Markers are the enteredBy values used to tell records apart by origin.
// ManualEntry and LocalTreatment identify this application's own uploads
// and are excluded on fetch; Remote is the only origin accepted for
// announcements.
type Markers struct {
	ManualEntry    string
	LocalTreatment string
	Remote         string
}

func DefaultMarkers() Markers {
	return Markers{
		ManualEntry:    "iAPS",
		LocalTreatment: "iAPS-local",
		Remote:         "remote",
	}
}

// Param is a single query parameter. Names may repeat.
type Param struct {
	Name  string
	Value string
}

// Query is an ordered parameter list.
type Query []Param

func (q Query) Add(name, value string) Query {
	return append(q, Param{Name: name, Value: value})
}

// Encode renders the query in order. Mongo-style filter names keep their
// brackets and dollar signs literal; values are percent-encoded except for
// the characters that occur in timestamps.
func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(p.Name))
		b.WriteByte('=')
		b.WriteString(escape(p.Value))
	}
	return b.String()
}

func escape(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case strings.IndexByte("-._~:[]$", c) >= 0:
			b.WriteByte(c)
		case c == ' ':
			b.WriteByte('+')
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&15])
		}
	}
	return b.String()
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func glucoseQuery(since *time.Time) Query {
	q := Query{}.Add("count", strconv.Itoa(glucoseFetchCount))
	if since != nil {
		q = q.Add("find[dateString][$gte]", FormatTimestamp(*since))
	}
	return q
}

func carbsQuery(m Markers, since *time.Time) Query {
	q := Query{}.
		Add("find[carbs][$exists]", "true").
		Add("find[enteredBy][$ne]", m.ManualEntry).
		Add("find[enteredBy][$ne]", m.LocalTreatment)
	if since != nil {
		q = q.Add("find[created_at][$gt]", FormatTimestamp(*since))
	}
	return q
}

func tempTargetsQuery(m Markers, since *time.Time) Query {
	q := Query{}.
		Add("find[eventType]", EventTemporaryTarget).
		Add("find[enteredBy][$ne]", m.ManualEntry).
		Add("find[enteredBy][$ne]", m.LocalTreatment).
		Add("find[duration][$exists]", "true")
	if since != nil {
		q = q.Add("find[created_at][$gt]", FormatTimestamp(*since))
	}
	return q
}

func announcementsQuery(m Markers, since *time.Time) Query {
	q := Query{}.
		Add("find[eventType]", EventAnnouncement).
		Add("find[enteredBy]", m.Remote)
	if since != nil {
		q = q.Add("find[created_at][$gte]", FormatTimestamp(*since))
	}
	return q
}

// deleteQuery matches the records carrying field that were created at
// exactly at.
func deleteQuery(field string, at time.Time) Query {
	return Query{}.
		Add("find["+field+"][$exists]", "true").
		Add("find[created_at][$eq]", FormatTimestamp(at))
}

func profileQuery() Query {
	return Query{}.Add("count", "1")
}

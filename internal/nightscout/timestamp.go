package nightscout

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Uploaders disagree on how they write offsets; these are tried in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// Timestamp is a time read from a remote document. It accepts the layouts
// above and epoch milliseconds. Text that matches none of them leaves Time
// zero and is written back verbatim, so one odd record never fails a batch.
type Timestamp struct {
	time.Time
	raw string
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses s with the accepted layouts. Layouts without an
// offset are read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Raw is the unparseable text this timestamp was decoded from, if any.
func (ts Timestamp) Raw() string {
	return ts.raw
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	*ts = Timestamp{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] != '"' {
		if ms, err := strconv.ParseFloat(string(data), 64); err == nil {
			ts.Time = time.UnixMilli(int64(ms)).UTC()
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	if t, ok := ParseTimestamp(s); ok {
		ts.Time = t
		return nil
	}
	ts.raw = s
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Time.IsZero() && ts.raw != "" {
		return json.Marshal(ts.raw)
	}
	return ts.Time.MarshalJSON()
}

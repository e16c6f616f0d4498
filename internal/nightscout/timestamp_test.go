package nightscout

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalLayouts(t *testing.T) {
	want := time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)
	tests := []struct {
		name string
		json string
	}{
		{"rfc3339 millis", `"2024-01-01T00:05:00.000Z"`},
		{"rfc3339 colon offset", `"2024-01-01T01:05:00.000+01:00"`},
		{"offset without colon", `"2024-01-01T01:05:00.000+0100"`},
		{"offset without colon or millis", `"2024-01-01T01:05:00+0100"`},
		{"hour-only offset", `"2024-01-01T01:05:00+01"`},
		{"no zone", `"2024-01-01T00:05:00"`},
		{"space separator", `"2024-01-01 00:05:00Z"`},
		{"epoch millis", `1704067500000`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tc.json), &ts))
			assert.True(t, ts.Equal(want), "got %s", ts.Time)
			assert.Empty(t, ts.Raw())
		})
	}
}

func TestTimestamp_EmptyAndNull(t *testing.T) {
	for _, in := range []string{`null`, `""`} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(in), &ts))
		assert.True(t, ts.IsZero(), in)
	}
}

func TestTimestamp_UnparseableKeptVerbatim(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"yesterday-ish"`), &ts))
	assert.True(t, ts.IsZero())
	assert.Equal(t, "yesterday-ish", ts.Raw())

	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.JSONEq(t, `"yesterday-ish"`, string(out))
}

func TestTimestamp_Marshal(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC))
	out, err := json.Marshal(struct {
		At Timestamp `json:"at"`
	}{ts})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2024-01-01T00:05:00Z"}`, string(out))
}

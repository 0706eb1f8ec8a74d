package timeslot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:20", want: 9*60 + 20},
		{in: "23:59", want: 23*60 + 59},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "9:20", wantErr: true},
		{in: "09-20", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestClockOrderingMatchesStringOrdering(t *testing.T) {
	values := []string{"00:00", "00:59", "01:00", "09:05", "09:50", "10:00", "12:30", "23:59"}
	for _, a := range values {
		for _, b := range values {
			ca, cb := MustClock(a), MustClock(b)
			assert.Equal(t, a < b, ca < cb, "%s < %s", a, b)
		}
	}
}

func TestIntervalOverlaps(t *testing.T) {
	base := Interval{Start: MustClock("09:00"), End: MustClock("09:20")}

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"back to back after", Interval{MustClock("09:20"), MustClock("09:40")}, false},
		{"back to back before", Interval{MustClock("08:40"), MustClock("09:00")}, false},
		{"partial overlap", Interval{MustClock("09:10"), MustClock("09:30")}, true},
		{"one minute overlap", Interval{MustClock("09:19"), MustClock("09:30")}, true},
		{"contained", Interval{MustClock("09:05"), MustClock("09:10")}, true},
		{"containing", Interval{MustClock("08:00"), MustClock("10:00")}, true},
		{"identical", base, true},
		{"disjoint", Interval{MustClock("11:00"), MustClock("11:30")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestNewInterval(t *testing.T) {
	iv, err := NewInterval("09:00", "09:20")
	require.NoError(t, err)
	assert.Equal(t, 20, iv.Minutes())
	assert.Equal(t, "09:00-09:20", iv.String())

	_, err = NewInterval("09:20", "09:20")
	assert.Error(t, err)

	_, err = NewInterval("10:00", "09:00")
	assert.Error(t, err)

	_, err = NewInterval("9:00", "09:30")
	assert.Error(t, err)
}

func TestClockJSONAndSQL(t *testing.T) {
	type payload struct {
		At Clock `json:"at"`
	}
	data, err := json.Marshal(payload{At: MustClock("07:05")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"07:05"}`, string(data))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"at":"18:45"}`), &p))
	assert.Equal(t, MustClock("18:45"), p.At)
	assert.Error(t, json.Unmarshal([]byte(`{"at":"7:5"}`), &p))

	v, err := MustClock("08:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "08:00", v)

	var c Clock
	require.NoError(t, c.Scan([]byte("13:15")))
	assert.Equal(t, MustClock("13:15"), c)
	assert.Error(t, c.Scan(42))
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("2026-02-22")
	assert.NoError(t, err)
	_, err = ParseDate("2026-2-22")
	assert.Error(t, err)
	_, err = ParseDate("2026-02-30")
	assert.Error(t, err)
	_, err = ParseDate("22/02/2026")
	assert.Error(t, err)

	ts := time.Date(2026, 2, 22, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-02-22", FormatDate(ts, nil))
	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "2026-02-23", FormatDate(ts, tokyo))
}

package events

import (
	"encoding/json"
	"math"
	"time"
)

// Elapsed-time error markers.
const (
	ElapsedNoTimestamp = "No timestamp available"
	ElapsedUnparsable  = "Could not parse timestamp"
)

const (
	secondsPerDay    = 24 * 60 * 60
	secondsPerHour   = 60 * 60
	secondsPerMinute = 60
)

// Elapsed is the time since a run was last updated, split into calendar
// parts. Days is floored, so a timestamp in the future yields negative
// Days with non-negative Hours and Minutes.
//
// When Error is set the other fields are meaningless and only the error
// marker is encoded.
type Elapsed struct {
	Days         int
	Hours        int
	Minutes      int
	TotalSeconds float64
	Error        string
}

// MarshalJSON encodes either {"error": ...} or the breakdown.
func (e Elapsed) MarshalJSON() ([]byte, error) {
	if e.Error != "" {
		return json.Marshal(map[string]string{"error": e.Error})
	}
	return json.Marshal(struct {
		Days         int     `json:"days"`
		Hours        int     `json:"hours"`
		Minutes      int     `json:"minutes"`
		TotalSeconds float64 `json:"total_seconds"`
	}{e.Days, e.Hours, e.Minutes, e.TotalSeconds})
}

// elapsedSince computes the breakdown between the ISO-8601 timestamp ts
// and now.
func elapsedSince(now time.Time, ts string) Elapsed {
	if ts == "" {
		return Elapsed{Error: ElapsedNoTimestamp}
	}
	t, err := ParseTimestamp(ts)
	if err != nil {
		return Elapsed{Error: ElapsedUnparsable}
	}

	total := now.Sub(t).Seconds()
	whole := int64(math.Floor(total))

	days := whole / secondsPerDay
	rem := whole % secondsPerDay
	if rem < 0 {
		days--
		rem += secondsPerDay
	}

	return Elapsed{
		Days:         int(days),
		Hours:        int(rem / secondsPerHour),
		Minutes:      int((rem % secondsPerHour) / secondsPerMinute),
		TotalSeconds: total,
	}
}

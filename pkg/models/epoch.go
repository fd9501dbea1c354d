package models

import (
	"encoding/json"
	"math"
	"time"
)

// EpochTime marshals as float seconds since the Unix epoch, rounded to
// milliseconds, matching the timestamps in log lines and trace rows.
type EpochTime time.Time

func (t EpochTime) MarshalJSON() ([]byte, error) {
	secs := float64(time.Time(t).UnixMilli()) / 1e3
	return json.Marshal(secs)
}

func (t *EpochTime) UnmarshalJSON(data []byte) error {
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return err
	}
	whole, frac := math.Modf(secs)
	*t = EpochTime(time.Unix(int64(whole), int64(math.Round(frac*1e3))*int64(time.Millisecond)).UTC())
	return nil
}

package utils

import (
	"math"
	"time"
)

// NowEpochSeconds is the current time as Unix seconds rounded to milliseconds.
func NowEpochSeconds() float64 {
	seconds := float64(time.Now().UTC().UnixNano()) / 1e9
	return math.Round(seconds*1000) / 1000
}

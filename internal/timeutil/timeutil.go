// Package timeutil formats the second counts of the breathing timer.
package timeutil

import (
	"fmt"
	"math"
	"time"
)

const secondsInAMinute = 60

// Round rounds a time value in seconds, minutes, or hours to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// SecsToMinsAndSecs expresses a seconds value in minutes and seconds.
func SecsToMinsAndSecs(val int) (mins, secs int) {
	if val < 0 {
		val = 0
	}

	mins = val / secondsInAMinute
	secs = val % secondsInAMinute

	return
}

// Clock formats a seconds value as "MM:SS".
func Clock(val int) string {
	m, s := SecsToMinsAndSecs(val)

	return fmt.Sprintf("%02d:%02d", m, s)
}

// Short formats d without zero units, e.g. "16s" or "1m30s".
func Short(d time.Duration) string {
	secs := Round(d.Seconds())
	m, s := SecsToMinsAndSecs(secs)

	switch {
	case m == 0:
		return fmt.Sprintf("%ds", s)
	case s == 0:
		return fmt.Sprintf("%dm", m)
	}

	return fmt.Sprintf("%dm%ds", m, s)
}

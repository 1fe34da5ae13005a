// Package biztime centralizes time handling. All storage and transport use UTC.
package biztime

import "time"

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FromUnix converts a provider-side unix timestamp to UTC. Zero stays zero.
func FromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// FromUnixPtr converts a provider-side unix timestamp to a *time.Time,
// returning nil for zero.
func FromUnixPtr(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

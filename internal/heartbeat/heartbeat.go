package heartbeat

import "time"

// Due reports whether a periodic full-state report should fire: always
// on a cold start (no recorded heartbeat) and whenever the period has
// elapsed since the last one. A non-positive period disables heartbeats
// entirely. The caller stamps the stored timestamp with now when it
// fires; drift through invocation cadence is acceptable because
// invocation itself is periodic.
func Due(lastMillis int64, periodHours float64, now time.Time) bool {
	if periodHours <= 0 {
		return false
	}
	if lastMillis <= 0 {
		return true
	}
	period := int64(periodHours * float64(time.Hour/time.Millisecond))
	return now.UnixMilli()-lastMillis >= period
}

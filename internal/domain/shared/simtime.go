package shared

import "time"

// TimestampLayout is the wire format for every simulation timestamp
// exposed on the control API.
const TimestampLayout = "2006-01-02 15:04:05"

// SpeedKmPerHour is the constant travel speed of every truck.
const SpeedKmPerHour = 50.0

// EdgeTravelTime is the time to traverse one 1 km street segment at the
// constant fleet speed (72 seconds).
const EdgeTravelTime = time.Duration(float64(time.Hour) / SpeedKmPerHour)

// DriveDuration converts a leg length into the scheduled drive duration,
// rounded up to whole minutes.
func DriveDuration(distanceKm int) time.Duration {
	minutes := (distanceKm*60 + int(SpeedKmPerHour) - 1) / int(SpeedKmPerHour)
	return time.Duration(minutes) * time.Minute
}

// TravelTime is the exact (unrounded) time needed to cover distanceKm.
func TravelTime(distanceKm int) time.Duration {
	return time.Duration(float64(distanceKm) * float64(time.Hour) / SpeedKmPerHour)
}

// MonthOffset resolves a day/hour/minute offset relative to the
// simulation month base, as used by the order and blockage files where
// day 1 is the first day of the month.
func MonthOffset(base time.Time, day, hour, minute int) time.Time {
	return base.AddDate(0, 0, day-1).Add(
		time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// Midnight truncates t to 00:00 of its day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsMidnight reports whether t lies exactly on a day boundary.
func IsMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// FormatTimestamp renders t in the control API timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses a control API timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}

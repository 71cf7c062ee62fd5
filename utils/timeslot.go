package utils

import (
	"time"
)

const (
	// TimeSlotLayout adalah format kanonik "YYYY-MM-DD HH:MM" (24 jam, tanpa zona)
	TimeSlotLayout = "2006-01-02 15:04"
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"

	ReservationDuration = 90 * time.Minute
	SoonThreshold       = 30 * time.Minute
)

// SlotLocation -> zona tanpa DST untuk semua waktu naive (slot, tanggal, jam
// sekarang). Selisih dua slot selalu sama dengan selisih jam dindingnya.
var SlotLocation = time.UTC

// Naive re-expresses the wall clock of t in SlotLocation, dropping its zone.
func Naive(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), SlotLocation)
}

// Clock -> sumber waktu "sekarang", diganti clock tetap di test
type Clock interface {
	Now() time.Time
}

// SystemClock returns the local wall-clock time as a naive value.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return Naive(time.Now()) }

// FixedClock always returns the wall clock of T.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return Naive(c.T) }

// ParseTimeSlot parses a canonical time slot. All slots are naive wall-clock
// times, so they are parsed in SlotLocation and compared without conversion.
// The second return value is false for malformed input, including
// non-padded values such as "2025-06-01 9:30" that would not round-trip.
func ParseTimeSlot(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(TimeSlotLayout, s, SlotLocation)
	if err != nil || t.Format(TimeSlotLayout) != s {
		return time.Time{}, false
	}
	return t, true
}

// FormatTimeSlot -> kebalikan dari ParseTimeSlot
func FormatTimeSlot(t time.Time) string {
	return t.Format(TimeSlotLayout)
}

// ParseDate parses "YYYY-MM-DD" into naive midnight.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, s, SlotLocation)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CombineDateAndClock joins a date with an "HH:MM" clock value.
func CombineDateAndClock(date time.Time, clock string) (time.Time, bool) {
	c, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, SlotLocation), true
}

// ReservationEnd -> start + 90 menit, sama untuk semua reservasi
func ReservationEnd(start time.Time) time.Time {
	return start.Add(ReservationDuration)
}

// IsOngoing reports start <= at < end.
func IsOngoing(start, end, at time.Time) bool {
	return !at.Before(start) && at.Before(end)
}

// IsStartingSoon reports at < start <= at+threshold.
func IsStartingSoon(start, at time.Time, threshold time.Duration) bool {
	return start.After(at) && !start.After(at.Add(threshold))
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Adjacent intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// SameDate compares calendar dates only.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

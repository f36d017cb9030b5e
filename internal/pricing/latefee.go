package pricing

import "time"

// LateFee returns the overdue fee in cents for a single unit returned after
// its scheduled end. The charge is punitive, not prorated: every started day
// past the scheduled end bills the full daily rate, minimum one day.
// Returning on or before the scheduled end is free.
func LateFee(scheduledEnd, actualReturn time.Time, dailyRateCents int64) int64 {
	if !actualReturn.After(scheduledEnd) {
		return 0
	}
	late := actualReturn.Sub(scheduledEnd)
	daysLate := int64(late / (24 * time.Hour))
	if late%(24*time.Hour) > 0 {
		daysLate++
	}
	if daysLate < 1 {
		daysLate = 1
	}
	return daysLate * dailyRateCents
}

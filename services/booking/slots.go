package booking

import (
	"fmt"
	"time"

	"bookpos-backend/utils"
)

const (
	slotOpenMinute  = 7 * 60
	slotCloseMinute = 19 * 60
	slotStep        = 15
)

// TimeSlots lists the bookable start times, 07:00 through 18:45 every 15 minutes.
func TimeSlots() []string {
	slots := make([]string, 0, (slotCloseMinute-slotOpenMinute)/slotStep)
	for m := slotOpenMinute; m < slotCloseMinute; m += slotStep {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

// IsValidSlot reports whether hhmm is one of TimeSlots.
func IsValidSlot(hhmm string) bool {
	t, err := time.Parse("15:04", hhmm)
	if err != nil || t.Format("15:04") != hhmm {
		return false
	}
	m := t.Hour()*60 + t.Minute()
	return m >= slotOpenMinute && m < slotCloseMinute && m%slotStep == 0
}

// IsPastDate reports whether the calendar date lies before today in now's location.
func IsPastDate(date time.Time, now time.Time) bool {
	dy, dm, dd := date.Date()
	day := time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location())
	return utils.DaysBetween(now, day) < 0
}

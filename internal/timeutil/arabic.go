package timeutil

import (
	"fmt"
	"time"
)

var arabicWeekdays = [...]string{
	time.Sunday:    "الأحد",
	time.Monday:    "الاثنين",
	time.Tuesday:   "الثلاثاء",
	time.Wednesday: "الأربعاء",
	time.Thursday:  "الخميس",
	time.Friday:    "الجمعة",
	time.Saturday:  "السبت",
}

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// ArabicWeekday returns the long Arabic weekday name.
func ArabicWeekday(d time.Weekday) string {
	return arabicWeekdays[d]
}

// ArabicLongDate renders "<weekday> <day> <month> <year>", e.g.
// "الخميس 5 فبراير 2026".
func ArabicLongDate(t time.Time) string {
	return fmt.Sprintf("%s %d %s %d", ArabicWeekday(t.Weekday()), t.Day(), arabicMonths[t.Month()-1], t.Year())
}

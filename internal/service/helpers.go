package service

import "time"

// focusQuotes rotate by weekday on the stats view.
var focusQuotes = []string{
	"Deep focus beats long hours.",
	"Focus turns effort into results.",
	"One focused session can change a day.",
	"Clarity comes from single-tasking.",
	"Discipline creates freedom.",
}

func dailyQuote(now time.Time) string {
	return focusQuotes[int(now.Weekday())%len(focusQuotes)]
}

// intensity maps a day's minutes onto [0,1] against the daily target.
func intensity(minutes, target int) float64 {
	if target <= 0 {
		target = 60
	}
	v := float64(minutes) / float64(target)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

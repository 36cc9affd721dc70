package util

import "time"

// ThirdFriday returns the monthly option expiration date for the given year
// and month: the third Friday, at midnight UTC.
func ThirdFriday(year int, month time.Month) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Friday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+14)
}

// MonthlyExpirations returns the next n monthly option expirations strictly
// after the given time, in chronological order.
func MonthlyExpirations(after time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, 0, n)
	year, month := after.Year(), after.Month()
	for len(out) < n {
		exp := ThirdFriday(year, month)
		if exp.After(after) {
			out = append(out, exp)
		}
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return out
}

package ibkr

import "time"

// dateLayout is the broker's compact date format for expirations and last
// trade dates.
const dateLayout = "20060102"

// ParseDate parses a compact broker date such as "20260918".
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// FormatDate renders t in the broker's compact date format.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

package timeutil

import (
	"time"
)

// Local is the business timezone used for display and date arithmetic.
// It defaults to UTC until SetLocation is called from main.
var Local = time.UTC

// SetLocation loads the named IANA zone. Unknown names leave Local unchanged
// and return the error.
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	Local = loc
	return nil
}

// Now returns the current time in the business timezone
func Now() time.Time {
	return time.Now().In(Local)
}

// ReturnDate is the due date of a case delivered at t.
func ReturnDate(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// Format formats t in the business timezone using the given layout
func Format(t time.Time, layout string) string {
	return t.In(Local).Format(layout)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02/01/2006"
)

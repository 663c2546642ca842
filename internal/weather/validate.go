package weather

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format for range bounds.
const DateLayout = "2006-01-02"

// displayLayout is how dates are echoed back to the operator.
const displayLayout = "02-01-2006"

var (
	ErrBadDateFormat  = errors.New("Invalid date format. Dates should be in YYYY-MM-DD format.")
	ErrFutureDate     = errors.New("Future dates are not allowed. Please select dates up to today only.")
	ErrEndBeforeStart = errors.New("End date must be after start date.")
)

// Range is a pair of calendar dates as exact strings. The strings double as
// the fetch cache key, so they are never normalized.
type Range struct {
	Start string
	End   string
}

// RangeCheck is the outcome of pre-fetch validation.
type RangeCheck struct {
	Range Range

	// Defaulted is set when missing dates were substituted with the default
	// range. That tick shows the notice only; no fetch happens until the
	// populated dates come back around.
	Defaulted bool
	Notice    string
}

// ValidateRange runs the four pre-fetch checks in order. No network call may
// happen before this returns a non-defaulted, error-free result.
func ValidateRange(r Range, today time.Time) (RangeCheck, error) {
	if r.Start == "" || r.End == "" {
		def := DefaultRange(today)
		start, _ := time.Parse(DateLayout, def.Start)
		end, _ := time.Parse(DateLayout, def.End)
		return RangeCheck{
			Range:     def,
			Defaulted: true,
			Notice: fmt.Sprintf("Using default range: %s to %s.",
				start.Format(displayLayout), end.Format(displayLayout)),
		}, nil
	}

	start, err := time.Parse(DateLayout, r.Start)
	if err != nil {
		return RangeCheck{}, ErrBadDateFormat
	}
	end, err := time.Parse(DateLayout, r.End)
	if err != nil {
		return RangeCheck{}, ErrBadDateFormat
	}

	// Compare calendar dates in today's own location. Zero-padded YYYY-MM-DD
	// strings order lexicographically, and truncating the instant to a UTC day
	// boundary would shift the date either side of UTC.
	if day := today.Format(DateLayout); r.Start > day || r.End > day {
		return RangeCheck{}, ErrFutureDate
	}
	if end.Before(start) {
		return RangeCheck{}, ErrEndBeforeStart
	}

	return RangeCheck{Range: r}, nil
}

// DisplaySpan echoes a validated range in DD-MM-YYYY for alerts.
func DisplaySpan(r Range) string {
	start, err1 := time.Parse(DateLayout, r.Start)
	end, err2 := time.Parse(DateLayout, r.End)
	if err1 != nil || err2 != nil {
		return fmt.Sprintf("%s to %s", r.Start, r.End)
	}
	return fmt.Sprintf("%s to %s", start.Format(displayLayout), end.Format(displayLayout))
}

// DefaultRange is the last seven days through today.
func DefaultRange(today time.Time) Range {
	return daysBack(today, 7)
}

// PresetRange resolves a named preset relative to today. Unknown presets fall
// back to the last seven days, matching the dropdown default.
func PresetRange(preset string, today time.Time) Range {
	switch preset {
	case "7days":
		return daysBack(today, 7)
	case "30days":
		return daysBack(today, 30)
	case "1year":
		return daysBack(today, 365)
	}
	return daysBack(today, 7)
}

func daysBack(today time.Time, days int) Range {
	return Range{
		Start: today.AddDate(0, 0, -days).Format(DateLayout),
		End:   today.Format(DateLayout),
	}
}

// Package hours implements the site attendance hours formula. A day's
// work is recorded as the pair (X, Y) where X counts full 8-hour shifts
// and Y counts leftover hours, so total hours = X*8 + Y with Y in [0,7].
package hours

// HoursPerShift is the length of one full shift.
const HoursPerShift = 8

// Encode splits total worked hours into the (X, Y) formula pair.
// Negative input is treated as zero.
func Encode(total int) (x, y int) {
	if total < 0 {
		total = 0
	}
	return total / HoursPerShift, total % HoursPerShift
}

// Decode computes total hours from a formula pair. Out-of-range values
// are normalised: negative X becomes 0 and Y is clamped into [0,7].
func Decode(x, y int) int {
	if x < 0 {
		x = 0
	}
	return x*HoursPerShift + ClampY(y)
}

// ClampY forces the leftover-hours component into [0,7].
func ClampY(y int) int {
	if y < 0 {
		return 0
	}
	if y > HoursPerShift-1 {
		return HoursPerShift - 1
	}
	return y
}

// Package calendar implements Gregorian calendar predicates.
package calendar

// IsLeapYear reports whether year is a leap year under the Gregorian rule:
// divisible by 4, and either not divisible by 100 or divisible by 400.
// Negative years follow the same arithmetic (proleptic calendar).
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// Package calendar converts between civil dates and day serials.
//
// A day serial is an integer count of days since the proleptic Gregorian
// epoch 1970-01-01 (negative before). All windowing and streak arithmetic in
// the aggregator is plain integer subtraction on these serials, which keeps
// day-boundary handling exact and timezone questions confined to Today.
package calendar

import (
	"fmt"
	"strconv"
	"time"
)

const (
	isoDateLen  = 10
	daysPerEra  = 146097
	yearsPerEra = 400
	epochShift  = 719468
)

// Serial returns the day serial for a civil (year, month, day) triple.
func Serial(year, month, day int) int {
	if month <= 2 {
		year--
	}

	era := year
	if era < 0 {
		era -= yearsPerEra - 1
	}

	era /= yearsPerEra

	yoe := year - era*yearsPerEra

	mp := month + 9
	if month > 2 {
		mp = month - 3
	}

	doy := (153*mp+2)/5 + day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy

	return era*daysPerEra + doe - epochShift
}

// FromSerial is the inverse of Serial.
func FromSerial(serial int) (year, month, day int) {
	z := serial + epochShift

	era := z
	if era < 0 {
		era -= daysPerEra - 1
	}

	era /= daysPerEra

	doe := z - era*daysPerEra
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	year = yoe + era*yearsPerEra
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day = doy - (153*mp+2)/5 + 1

	if mp < 10 {
		month = mp + 3
	} else {
		month = mp - 9
	}

	if month <= 2 {
		year++
	}

	return year, month, day
}

// ParseSerial reads the leading YYYY-MM-DD of a date or timestamp string and
// returns its day serial. The second result is false when the string is
// shorter than ten characters or a component fails basic range checks.
// Anything after the tenth character is ignored.
func ParseSerial(value string) (int, bool) {
	if len(value) < isoDateLen {
		return 0, false
	}

	year := atoiOr(value[0:4], -1)
	month := atoiOr(value[5:7], -1)
	day := atoiOr(value[8:10], -1)

	if year <= 0 || month <= 0 || month > 12 || day <= 0 || day > 31 {
		return 0, false
	}

	return Serial(year, month, day), true
}

// Today returns the day serial of the current local calendar day.
func Today() int {
	now := time.Now()
	return Serial(now.Year(), int(now.Month()), now.Day())
}

// ISO formats a day serial as YYYY-MM-DD.
func ISO(serial int) string {
	year, month, day := FromSerial(serial)
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}

	return n
}

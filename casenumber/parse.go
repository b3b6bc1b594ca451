package casenumber

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CaseNumber is a case number split into its parts
type CaseNumber struct {
	Prefix   string    `json:"prefix"`
	Year     int       `json:"year"`
	Month    int       `json:"month"`
	Day      int       `json:"day"`
	Date     time.Time `json:"date"`
	Sequence int       `json:"sequence"`
}

// Parse splits s into its parts. It reports false for anything other than
// "HSE" followed by exactly ten digits.
func Parse(s string) (CaseNumber, bool) {
	if len(s) != length || !strings.HasPrefix(s, Prefix) {
		return CaseNumber{}, false
	}
	digits := s[len(Prefix):]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return CaseNumber{}, false
		}
	}
	yy, _ := strconv.Atoi(digits[0:2])
	mm, _ := strconv.Atoi(digits[2:4])
	dd, _ := strconv.Atoi(digits[4:6])
	seq, _ := strconv.Atoi(digits[6:])

	year := 2000 + yy
	return CaseNumber{
		Prefix:   Prefix,
		Year:     year,
		Month:    mm,
		Day:      dd,
		Date:     time.Date(year, time.Month(mm), dd, 0, 0, 0, 0, time.UTC),
		Sequence: seq,
	}, true
}

// String reassembles the case number
func (c CaseNumber) String() string {
	return fmt.Sprintf("%s%02d%02d%02d%0*d", c.Prefix, c.Year%100, c.Month, c.Day, seqDigits, c.Sequence)
}

package service

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

/* ===================== Academic year ===================== */

var academicYearRe = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

type AcademicYear struct {
	From int
	To   int
}

// ParseAcademicYear accepts the "YYYY-YYYY" form and requires the two years
// to be consecutive.
func ParseAcademicYear(s string) (AcademicYear, error) {
	m := academicYearRe.FindStringSubmatch(s)
	if m == nil {
		return AcademicYear{}, fmt.Errorf("invalid academic year %q (want \"YYYY-YYYY\")", s)
	}
	from, _ := strconv.Atoi(m[1])
	to, _ := strconv.Atoi(m[2])
	if to != from+1 {
		return AcademicYear{}, fmt.Errorf("invalid academic year %q: years must be consecutive", s)
	}
	return AcademicYear{From: from, To: to}, nil
}

func (y AcademicYear) String() string {
	return fmt.Sprintf("%d-%d", y.From, y.To)
}

func (y AcademicYear) Next() AcademicYear {
	return AcademicYear{From: y.From + 1, To: y.To + 1}
}

// Window is the payment attribution window: Aug 1 of the first year
// (inclusive) to Aug 1 of the second year (exclusive). Fixed, independent of
// the term calendar.
func (y AcademicYear) Window() (start, end time.Time) {
	start = time.Date(y.From, time.August, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(y.To, time.August, 1, 0, 0, 0, 0, time.UTC)
	return start, end
}

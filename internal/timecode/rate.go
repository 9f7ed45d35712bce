package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Rate is a frame rate expressed as Num/Den frames per second.
type Rate struct {
	Num int64
	Den int64
}

var (
	Rate23976 = Rate{Num: 24000, Den: 1001}
	Rate24    = Rate{Num: 24, Den: 1}
	Rate25    = Rate{Num: 25, Den: 1}
	Rate2997  = Rate{Num: 30000, Den: 1001}
	Rate30    = Rate{Num: 30, Den: 1}
	Rate50    = Rate{Num: 50, Den: 1}
	Rate5994  = Rate{Num: 60000, Den: 1001}
	Rate60    = Rate{Num: 60, Den: 1}
)

// NTSC-style decimal shorthands map to their exact 1001-denominator rates.
var decimalRates = map[string]Rate{
	"23.976": Rate23976,
	"23.98":  Rate23976,
	"29.97":  Rate2997,
	"59.94":  Rate5994,
}

// ParseRate accepts integer rates ("25"), NTSC decimals ("29.97") and
// explicit fractions ("30000/1001").
func ParseRate(value string) (Rate, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Rate{}, fmt.Errorf("frame rate: empty value")
	}
	if r, ok := decimalRates[value]; ok {
		return r, nil
	}
	if num, den, ok := strings.Cut(value, "/"); ok {
		n, errN := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
		d, errD := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
		if errN != nil || errD != nil {
			return Rate{}, fmt.Errorf("frame rate: invalid fraction %q", value)
		}
		r := Rate{Num: n, Den: d}
		if !r.Valid() {
			return Rate{}, fmt.Errorf("frame rate: %q must be positive", value)
		}
		return r, nil
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		r := Rate{Num: n, Den: 1}
		if !r.Valid() {
			return Rate{}, fmt.Errorf("frame rate: %q must be positive", value)
		}
		return r, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		return Rate{}, fmt.Errorf("frame rate: unsupported value %q", value)
	}
	// Arbitrary decimals are kept to millihertz precision.
	return Rate{Num: int64(f*1000 + 0.5), Den: 1000}.reduce(), nil
}

// Valid reports whether both terms are positive.
func (r Rate) Valid() bool {
	return r.Num > 0 && r.Den > 0
}

// Nominal returns the integer frame count used to label one second of
// timecode (30 for 29.97, 25 for 25).
func (r Rate) Nominal() int64 {
	if !r.Valid() {
		return 0
	}
	return (r.Num + r.Den - 1) / r.Den
}

// Float returns the rate as frames per second.
func (r Rate) Float() float64 {
	if !r.Valid() {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Equal compares rates by value, so 50/2 equals 25/1.
func (r Rate) Equal(other Rate) bool {
	return r.Num*other.Den == other.Num*r.Den
}

func (r Rate) String() string {
	if r.Den == 1 {
		return strconv.FormatInt(r.Num, 10)
	}
	switch r {
	case Rate23976:
		return "23.976"
	case Rate2997:
		return "29.97"
	case Rate5994:
		return "59.94"
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

func (r Rate) reduce() Rate {
	g := gcd(r.Num, r.Den)
	if g <= 1 {
		return r
	}
	return Rate{Num: r.Num / g, Den: r.Den / g}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

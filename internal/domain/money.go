package domain

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// Cents is a monetary amount in US cents. All contract arithmetic is done
// on Cents so that documents sum exactly.
type Cents int64

// Dollars returns the amount as a float for display only.
func (c Cents) Dollars() float64 {
	return float64(c) / 100
}

// Plain formats the amount as a bare decimal ("1234.56", "-0.05").
func (c Cents) Plain() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// String formats the amount with a dollar sign and thousands separators.
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := strconv.FormatInt(v/100, 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), v%100)
}

// ParseCents parses "$1,234.56", "1234.5" or "1234" into Cents. At most two
// fractional digits are accepted.
func ParseCents(s string) (Cents, error) {
	raw := strings.TrimSpace(s)
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	if strings.HasPrefix(clean, "-") {
		neg = true
		clean = clean[1:]
	}
	whole, frac, hasFrac := strings.Cut(clean, ".")
	if whole == "" {
		whole = "0"
	}
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return 0, fmt.Errorf("amount %q must have one or two decimal places", raw)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	if w > math.MaxInt64/100-1 {
		return 0, fmt.Errorf("amount %q out of range", raw)
	}
	v := w*100 + f
	if neg {
		v = -v
	}
	return Cents(v), nil
}

// CentsFromFloat converts a dollar float to Cents, rounding half away from zero.
func CentsFromFloat(dollars float64) Cents {
	return Cents(math.Round(dollars * 100))
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.Plain()), nil
}

// UnmarshalJSON accepts a JSON number or a string such as "$1,234.56".
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", s)
		}
		*c = CentsFromFloat(f)
		return nil
	}
	v, err := ParseCents(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalYAML keeps catalog rates human readable.
func (c Cents) MarshalYAML() (any, error) {
	return c.Plain(), nil
}

// UnmarshalYAML accepts "95.00" or 95 for a rate.
func (c *Cents) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseCents(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// BasisPoints expresses a percentage with 1% = 100.
type BasisPoints int64

// Of returns the floor of c * bp / 10000.
func (bp BasisPoints) Of(c Cents) Cents {
	if c < 0 {
		return -bp.Of(-c)
	}
	return Cents(mulDiv(uint64(c), uint64(bp), 10000))
}

// String renders "11.40%".
func (bp BasisPoints) String() string {
	return fmt.Sprintf("%d.%02d%%", int64(bp)/100, int64(bp)%100)
}

// ShareOf returns part/whole in basis points, rounded half up.
func ShareOf(part, whole Cents) BasisPoints {
	if whole == 0 {
		return 0
	}
	return BasisPoints(math.Round(float64(part) * 10000 / float64(whole)))
}

// AllocateCents splits total across weights proportionally. Each share is
// floored and the remainder goes to the largest share (first on ties), so
// the result always sums to total. Negative weights count as zero and an
// all-zero weight vector splits evenly.
func AllocateCents(total Cents, weights []int64) []Cents {
	if len(weights) == 0 {
		return nil
	}
	if total < 0 {
		out := AllocateCents(-total, weights)
		for i := range out {
			out[i] = -out[i]
		}
		return out
	}

	w := make([]uint64, len(weights))
	var sum uint64
	for i, v := range weights {
		if v > 0 {
			w[i] = uint64(v)
			sum += w[i]
		}
	}
	if sum == 0 {
		for i := range w {
			w[i] = 1
		}
		sum = uint64(len(w))
	}

	out := make([]Cents, len(w))
	var allocated Cents
	for i, v := range w {
		out[i] = Cents(mulDiv(uint64(total), v, sum))
		allocated += out[i]
	}
	if rem := total - allocated; rem != 0 {
		out[LargestIndex(out)] += rem
	}
	return out
}

// LargestIndex returns the index of the largest amount, first on ties.
func LargestIndex(amounts []Cents) int {
	best := 0
	for i := 1; i < len(amounts); i++ {
		if amounts[i] > amounts[best] {
			best = i
		}
	}
	return best
}

// SumCents adds the amounts.
func SumCents(amounts ...Cents) Cents {
	var s Cents
	for _, a := range amounts {
		s += a
	}
	return s
}

// mulDiv computes floor(a*b/c) without overflow for b <= c.
func mulDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return math.MaxInt64
	}
	q, _ := bits.Div64(hi, lo, c)
	return q
}

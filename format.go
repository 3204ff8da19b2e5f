package cdl

import (
	"math"
	"strconv"
	"strings"
)

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
)

func quote(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}

// specialFloat spells NaN and the infinities; ok is false for finite values.
func specialFloat(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return "nan", true
	case math.IsInf(f, 1):
		return "inf", true
	case math.IsInf(f, -1):
		return "-inf", true
	}
	return "", false
}

// floatLiteral renders f in shortest round-trip form. Integral values keep a
// ".0" suffix, and exponent form is used below 1e-4 and from 1e16 up.
func floatLiteral(f float64, bitSize int) string {
	if s, ok := specialFloat(f); ok {
		return s
	}
	s := strconv.FormatFloat(f, 'e', -1, bitSize)
	exp, err := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return s
	}
	s = strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func expFloat(f float64, prec, bitSize int) string {
	if s, ok := specialFloat(f); ok {
		return s
	}
	return strconv.FormatFloat(f, 'e', prec, bitSize)
}

// literal renders an attribute value. Sequences are joined with ", ".
func literal(v Value) (string, error) {
	if err := v.check(); err != nil {
		return "", err
	}
	parts := make([]string, v.Len())
	switch d := v.data.(type) {
	case []float32:
		for i, x := range d {
			parts[i] = floatLiteral(float64(x), 32)
		}
	case []float64:
		for i, x := range d {
			parts[i] = floatLiteral(x, 64)
		}
	case []int16:
		for i, x := range d {
			parts[i] = strconv.FormatInt(int64(x), 10)
		}
	case []int32:
		for i, x := range d {
			parts[i] = strconv.FormatInt(int64(x), 10)
		}
	case []int64:
		for i, x := range d {
			parts[i] = strconv.FormatInt(x, 10)
		}
	case []bool:
		for i, x := range d {
			parts[i] = strconv.FormatBool(x)
		}
	case []string:
		for i, x := range d {
			parts[i] = quote(x)
		}
	}
	return strings.Join(parts, ", "), nil
}

// elementFormatter returns the function that renders element i of v in the
// data section.
func elementFormatter(v Value, floatPrec, doublePrec int) (func(int) string, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	switch d := v.data.(type) {
	case []float32:
		return func(i int) string { return expFloat(float64(d[i]), floatPrec, 32) }, nil
	case []float64:
		return func(i int) string { return expFloat(d[i], doublePrec, 64) }, nil
	case []int16:
		return func(i int) string { return strconv.FormatInt(int64(d[i]), 10) }, nil
	case []int32:
		return func(i int) string { return strconv.FormatInt(int64(d[i]), 10) }, nil
	case []int64:
		return func(i int) string { return strconv.FormatInt(d[i], 10) }, nil
	case []bool:
		return func(i int) string { return strconv.FormatBool(d[i]) }, nil
	default: // []string, guaranteed by check
		s := d.([]string)
		return func(i int) string { return quote(s[i]) }, nil
	}
}

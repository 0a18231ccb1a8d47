package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe lengths. Layout works in pixels; the canvas
// backend works in millimetres for geometry and points for font sizes.

// Unit is the unit a length value was written in.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, read as pixels
	UnitPX               // CSS pixels (1/96 in)
	UnitPT               // points (1/72 in)
	UnitMM               // millimetres
	UnitCM               // centimetres
	UnitIN               // inches
)

// Conversion constants between px, pt and mm.
const (
	PxPerInch = 96.0
	PtPerInch = 72.0
	MmPerInch = 25.4

	PxToPt = PtPerInch / PxPerInch
	PtToPx = PxPerInch / PtPerInch
	PxToMm = MmPerInch / PxPerInch
	MmToPx = PxPerInch / MmPerInch
)

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

// inches converts l to inches; unit-less values count as pixels.
func (l Length) inches() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value / PtPerInch
	case UnitMM:
		return l.Value / MmPerInch
	case UnitCM:
		return l.Value * 10 / MmPerInch
	case UnitIN:
		return l.Value
	default:
		return l.Value / PxPerInch
	}
}

// To converts this length to the target unit.
func (l Length) To(target Unit) float64 {
	if l.Unit == target {
		return l.Value
	}
	in := l.inches()
	switch target {
	case UnitPT:
		return in * PtPerInch
	case UnitMM:
		return in * MmPerInch
	case UnitCM:
		return in * MmPerInch / 10
	case UnitIN:
		return in
	default:
		return in * PxPerInch
	}
}

func (l Length) ToPX() float64 { return l.To(UnitPX) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }
func (l Length) ToMM() float64 { return l.To(UnitMM) }

// ParseLength parses strings like "30", "30px", "12pt" or "4.5mm".
// The second result is false when the number cannot be parsed.
func ParseLength(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}

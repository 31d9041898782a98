// Package units picks a display magnitude for byte counts and rates.
//
// The convention is binary (1 KB = 1024 B) everywhere. With auto-scaling the
// smallest unit shown is KB, so 500 B/s reads as 0.49 KB/s; without it values
// stay in raw bytes.
package units

import (
	"fmt"
	"math"

	"github.com/nozo-moto/netchart/pkg/types"
)

const (
	KiB = 1024.0
	MiB = KiB * 1024
	GiB = MiB * 1024
)

type Unit struct {
	Label  string
	Factor float64
}

var (
	autoLadder = []Unit{{"KB", KiB}, {"MB", MiB}, {"GB", GiB}}
	baseUnit   = Unit{"B", 1}
)

// Scaler maps values onto a single shared unit.
type Scaler struct {
	Auto bool
}

func NewScaler(auto bool) Scaler {
	return Scaler{Auto: auto}
}

// Unit returns the unit chosen for a set of values of the given kind.
func (s Scaler) Unit(values []float64, kind types.Kind) Unit {
	u := baseUnit
	if s.Auto {
		u = pick(maxAbs(values))
	}
	if kind == types.KindRate {
		u.Label += "/s"
	}
	return u
}

// Scale divides every value by one common factor.
func (s Scaler) Scale(values []float64, kind types.Kind) types.ScaledSeries {
	u := s.Unit(values, kind)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / u.Factor
	}
	return types.ScaledSeries{Unit: u.Label, Factor: u.Factor, Values: out}
}

// Format renders a single value with two decimals, e.g. "0.49 KB/s".
func (s Scaler) Format(v float64, kind types.Kind) string {
	return s.FormatGroup([]float64{v}, kind)[0]
}

// FormatGroup renders values that are displayed side by side on one unit.
func (s Scaler) FormatGroup(values []float64, kind types.Kind) []string {
	scaled := s.Scale(values, kind)
	out := make([]string, len(values))
	for i, v := range scaled.Values {
		out[i] = fmt.Sprintf("%.2f %s", v, scaled.Unit)
	}
	return out
}

// pick returns the largest unit in which m is at least 1.
func pick(m float64) Unit {
	for i := len(autoLadder) - 1; i > 0; i-- {
		if m/autoLadder[i].Factor >= 1 {
			return autoLadder[i]
		}
	}
	return autoLadder[0]
}

func maxAbs(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		m = math.Max(m, math.Abs(v))
	}
	return m
}

package world

import (
	"fmt"
	"sort"
)

// CurveKey is one control point of an elevation response curve.
type CurveKey struct {
	In  float64
	Out float64
}

// Curve is a piecewise-linear response over sorted keys. Inputs outside the
// key range clamp to the first or last output.
type Curve struct {
	keys []CurveKey
}

// NewCurve sorts keys by In and rejects curves that would reorder heights.
func NewCurve(keys []CurveKey) (*Curve, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	sorted := append([]CurveKey(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].In < sorted[j].In })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].In == sorted[i-1].In {
			return nil, fmt.Errorf("%w: duplicate curve key at %v", ErrInvalidParameter, sorted[i].In)
		}
		if sorted[i].Out < sorted[i-1].Out {
			return nil, fmt.Errorf("%w: elevation curve decreases at %v", ErrInvalidParameter, sorted[i].In)
		}
	}
	return &Curve{keys: sorted}, nil
}

// Eval returns the curve value at v. A nil curve is the identity.
func (c *Curve) Eval(v float64) float64 {
	if c == nil || len(c.keys) == 0 {
		return v
	}
	first, last := c.keys[0], c.keys[len(c.keys)-1]
	if v <= first.In {
		return first.Out
	}
	if v >= last.In {
		return last.Out
	}
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].In >= v })
	a, b := c.keys[i-1], c.keys[i]
	return lerp(a.Out, b.Out, inverseLerp(a.In, b.In, v))
}

// HeightSampler turns a normalized noise value into a world Z offset.
type HeightSampler struct {
	Curve      *Curve
	Multiplier float64
}

// Elevation applies the curve (identity when absent) and the multiplier.
func (h HeightSampler) Elevation(normalized float64) float64 {
	return h.Curve.Eval(normalized) * h.Multiplier
}

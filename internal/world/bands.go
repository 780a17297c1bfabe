package world

import (
	"errors"
	"fmt"
	"image/color"
)

// Band colors every normalized height up to MaxHeight.
type Band struct {
	MaxHeight float64
	Color     color.RGBA
	Name      string
}

// Bands is scanned in ascending order; the first band whose MaxHeight is at
// least the height wins.
type Bands []Band

// Unclassified is painted where no band covers a height.
var Unclassified = color.RGBA{}

// Validate reports every way the table can leave heights in [0,1] without a
// color. A non-nil result is a configuration warning: Classify still works.
func (b Bands) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty terrain band table", ErrInvalidParameter)
	}
	var errs []error
	for i := 1; i < len(b); i++ {
		if b[i].MaxHeight < b[i-1].MaxHeight {
			errs = append(errs, fmt.Errorf("%w: band %d max height %v below band %d (%v)",
				ErrInvalidParameter, i, b[i].MaxHeight, i-1, b[i-1].MaxHeight))
		}
	}
	if last := b[len(b)-1].MaxHeight; last < 1 {
		errs = append(errs, fmt.Errorf("%w: last band max height %v leaves (%v,1] unclassified",
			ErrInvalidParameter, last, last))
	}
	return errors.Join(errs...)
}

// Classify returns the band for h, or false when no band covers it.
func (b Bands) Classify(h float64) (Band, bool) {
	for _, band := range b {
		if h <= band.MaxHeight {
			return band, true
		}
	}
	return Band{}, false
}

// Paint writes one RGBA8 texel per value and returns how many were left
// unclassified.
func (b Bands) Paint(values []float64, pix []byte) int {
	unclassified := 0
	for i, v := range values {
		c := Unclassified
		if band, ok := b.Classify(v); ok {
			c = band.Color
		} else {
			unclassified++
		}
		o := i * 4
		pix[o] = c.R
		pix[o+1] = c.G
		pix[o+2] = c.B
		pix[o+3] = c.A
	}
	return unclassified
}

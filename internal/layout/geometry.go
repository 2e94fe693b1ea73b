package layout

import "math"

// Box is an axis-aligned bounding box in image coordinates, with the origin
// at the top-left corner (Y0 is the top edge, Y1 the bottom edge).
type Box struct {
	X0, Y0, X1, Y1 float64
}

func (b Box) Width() float64  { return b.X1 - b.X0 }
func (b Box) Height() float64 { return b.Y1 - b.Y0 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return (b.Y0 + b.Y1) / 2 }

// Union returns the smallest box covering both boxes.
func (b Box) Union(other Box) Box {
	return Box{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// VerticalOverlapRatio returns the vertical overlap of the two boxes as a
// fraction of the smaller box height, in [0, 1].
func (b Box) VerticalOverlapRatio(other Box) float64 {
	overlap := math.Min(b.Y1, other.Y1) - math.Max(b.Y0, other.Y0)
	if overlap <= 0 {
		return 0
	}
	minHeight := math.Min(b.Height(), other.Height())
	if minHeight <= 0 {
		return 0
	}
	if overlap > minHeight {
		return 1
	}
	return overlap / minHeight
}

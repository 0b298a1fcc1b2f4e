package domain

// Position is the 3D placement of a domain in the scene.
// It serializes as a three-element array.
type Position [3]float64

// NewPosition creates a position from coordinates
func NewPosition(x, y, z float64) Position {
	return Position{x, y, z}
}

// X returns the first coordinate
func (p Position) X() float64 { return p[0] }

// Y returns the second coordinate
func (p Position) Y() float64 { return p[1] }

// Z returns the third coordinate
func (p Position) Z() float64 { return p[2] }

// Centroid returns the mean position of the given domains.
// The zero position is returned for an empty slice.
func Centroid(domains []Domain) Position {
	var c Position
	if len(domains) == 0 {
		return c
	}
	for _, d := range domains {
		c[0] += d.Position[0]
		c[1] += d.Position[1]
		c[2] += d.Position[2]
	}
	n := float64(len(domains))
	return Position{c[0] / n, c[1] / n, c[2] / n}
}

package meshing

import "fmt"

// Lod is the stride used when sampling the dense vertex grid into triangles.
// Higher step means fewer triangles.
type Lod int

const (
	LodOne    Lod = 1
	LodTwo    Lod = 2
	LodFour   Lod = 4
	LodSix    Lod = 6
	LodEight  Lod = 8
	LodTen    Lod = 10
	LodTwelve Lod = 12
)

// Lods lists every supported level from finest to coarsest.
var Lods = []Lod{LodOne, LodTwo, LodFour, LodSix, LodEight, LodTen, LodTwelve}

const (
	Finest   = LodOne
	Coarsest = LodTwelve
)

// Step returns the grid stride of the level.
func (l Lod) Step() int {
	return int(l)
}

// Valid reports whether l is one of the enumerated levels.
func (l Lod) Valid() bool {
	for _, v := range Lods {
		if v == l {
			return true
		}
	}
	return false
}

func (l Lod) String() string {
	return fmt.Sprintf("lod%d", int(l))
}

// VerticesPerRow is the number of strided vertices along an axis of width
// dense vertices.
func VerticesPerRow(width int, l Lod) int {
	return (width-1)/l.Step() + 1
}

// IndexCount is the number of indices a width x height grid produces at l.
func IndexCount(width, height int, l Lod) int {
	return 6 * (VerticesPerRow(width, l) - 1) * (VerticesPerRow(height, l) - 1)
}

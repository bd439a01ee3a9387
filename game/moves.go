package game

// Step is a relative offset from a piece's square.
type Step struct {
	DRow, DCol int
}

// Ray is one direction of attack, nearest step first.
type Ray []Step

// MoveTable maps every kind to its rays. It is built once per board extent
// and never changed afterwards.
type MoveTable struct {
	extent int
	rays   map[PieceKind][]Ray
}

var (
	kingSteps = []Step{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
	knightSteps = []Step{
		{-2, -1}, {-2, 1},
		{-1, -2}, {-1, 2},
		{1, -2}, {1, 2},
		{2, -1}, {2, 1},
	}
	diagonals  = []Step{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	orthogonal = []Step{{-1, 0}, {0, -1}, {0, 1}, {1, 0}}
)

func singleSteps(steps []Step) []Ray {
	rays := make([]Ray, len(steps))
	for i, s := range steps {
		rays[i] = Ray{s}
	}
	return rays
}

func slides(directions []Step, extent int) []Ray {
	rays := make([]Ray, len(directions))
	for i, d := range directions {
		ray := make(Ray, 0, max(extent-1, 0))
		for n := 1; n < extent; n++ {
			ray = append(ray, Step{d.DRow * n, d.DCol * n})
		}
		rays[i] = ray
	}
	return rays
}

func NewMoveTable(extent int) MoveTable {
	bishop := slides(diagonals, extent)
	rook := slides(orthogonal, extent)
	queen := make([]Ray, 0, len(bishop)+len(rook))
	queen = append(queen, bishop...)
	queen = append(queen, rook...)

	return MoveTable{
		extent: extent,
		rays: map[PieceKind][]Ray{
			King:   singleSteps(kingSteps),
			Knight: singleSteps(knightSteps),
			Bishop: bishop,
			Rook:   rook,
			Queen:  queen,
		},
	}
}

func (t MoveTable) Extent() int { return t.extent }

// Rays returns the attack rays of kind. Empty and Occupied have none.
// The returned slices are shared and must not be modified.
func (t MoveTable) Rays(kind PieceKind) []Ray {
	return t.rays[kind]
}

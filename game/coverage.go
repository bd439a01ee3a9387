package game

// Grid holds an attack count per image cell.
type Grid [][]int

func newGrid(img Image) Grid {
	g := make(Grid, len(img))
	for i, row := range img {
		g[i] = make([]int, len(row))
	}
	return g
}

// Coverage counts for every cell how many pieces of c attack it. Rays stop
// at the first movable piece in their way, which is not counted.
func (p *Puzzle) Coverage(c Candidate) Grid {
	counts := newGrid(p.Image)
	board := p.Board(c)

	for i, row := range board {
		for j, kind := range row {
			if !kind.Movable() {
				continue
			}
			for _, ray := range p.Moves.Rays(kind) {
				for _, step := range ray {
					r, col := i+step.DRow, j+step.DCol
					if !p.Image.In(r, col) {
						continue
					}
					if board[r][col].Movable() {
						break
					}
					counts[r][col]++
				}
			}
		}
	}
	return counts
}

// Unbeaten counts on-cells attacked fewer than Threshold times.
func (p *Puzzle) Unbeaten(c Candidate) int {
	return p.unbeaten(p.Coverage(c))
}

func (p *Puzzle) unbeaten(counts Grid) int {
	n := 0
	for i, row := range p.Image {
		for j, on := range row {
			if on && counts[i][j] < p.Threshold {
				n++
			}
		}
	}
	return n
}

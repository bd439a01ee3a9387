package game

// reaches walks every ray of kind from (row, col) without blocking and
// reports whether any step lands on a cell accepted by hit.
func (p *Puzzle) reaches(row, col int, kind PieceKind, hit func(r, c int) bool) bool {
	for _, ray := range p.Moves.Rays(kind) {
		for _, step := range ray {
			r, c := row+step.DRow, col+step.DCol
			if !p.Image.In(r, c) {
				continue
			}
			if hit(r, c) {
				return true
			}
		}
	}
	return false
}

// RemoveUnused empties every piece that could not reach any on-cell of the
// image even on an empty board.
func (p *Puzzle) RemoveUnused(c Candidate) Candidate {
	out := c.Clone()
	for idx, kind := range c {
		if !kind.Movable() {
			continue
		}
		row, col, _ := p.Layout.Coord(idx)
		if !p.reaches(row, col, kind, p.Image.On) {
			out[idx] = Empty
		}
	}
	return out
}

// RemoveHarmful empties pieces whose rays pass over an over-attacked off-cell.
// Coverage is recomputed after every removal and the scan starts over.
func (p *Puzzle) RemoveHarmful(c Candidate) Candidate {
	out := c.Clone()
	counts := p.Coverage(out)
	over := func(r, col int) bool {
		return !p.Image[r][col] && counts[r][col] > p.StrayLimit
	}

	for changed := true; changed; {
		changed = false
		for idx, kind := range out {
			if !kind.Movable() {
				continue
			}
			row, col, _ := p.Layout.Coord(idx)
			if p.reaches(row, col, kind, over) {
				out[idx] = Empty
				counts = p.Coverage(out)
				changed = true
				break
			}
		}
	}
	return out
}

// Repair applies RemoveUnused then RemoveHarmful.
func (p *Puzzle) Repair(c Candidate) Candidate {
	return p.RemoveHarmful(p.RemoveUnused(c))
}

package screens

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/SvenDH/chess-nonogram/ai"
	"github.com/SvenDH/chess-nonogram/game"
	"github.com/SvenDH/chess-nonogram/ui"
)

const headerHeight = 20

// BoardView is an ebiten game showing the best board of a running search.
// Progress may be called from the search goroutine.
type BoardView struct {
	puzzle   *game.Puzzle
	CellSize int

	mu     sync.Mutex
	best   game.Candidate
	counts game.Grid
	stats  ai.Stats
	done   bool
}

func NewBoardView(p *game.Puzzle, cellSize int) *BoardView {
	empty := p.EmptyOnly()
	return &BoardView{
		puzzle:   p,
		CellSize: cellSize,
		best:     empty,
		counts:   p.Coverage(empty),
	}
}

// Progress records the latest generation. It matches ai.EvolutionarySearch.OnGeneration.
func (v *BoardView) Progress(stats ai.Stats, best ai.Individual) {
	counts := v.puzzle.Coverage(best.Genes)
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stats = stats
	v.best = best.Genes
	v.counts = counts
}

// Finish shows the final repaired board.
func (v *BoardView) Finish(best *ai.Individual) {
	counts := v.puzzle.Coverage(best.Genes)
	v.mu.Lock()
	defer v.mu.Unlock()
	v.best = best.Genes
	v.counts = counts
	v.stats.Best = best.Fitness
	v.done = true
}

func (v *BoardView) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

func (v *BoardView) Draw(screen *ebiten.Image) {
	v.mu.Lock()
	defer v.mu.Unlock()

	screen.Fill(ui.GridColor)
	p := v.puzzle
	size := float32(v.CellSize)
	board := p.Board(v.best)
	for i, row := range board {
		for j, kind := range row {
			var bg color.Color = ui.CellColor(p, p.Image[i][j], v.counts[i][j])
			x := float32(j) * size
			y := float32(i)*size + headerHeight
			vector.DrawFilledRect(screen, x+1, y+1, size-1, size-1, bg, false)
			if kind.Movable() {
				ebitenutil.DebugPrintAt(screen, string(kind.Symbol()), int(x+size/2)-3, int(y+size/2)-8)
			}
		}
	}

	status := "searching"
	if v.done {
		status = "done"
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("gen %d  best %d  avg %.1f  %s",
		v.stats.Generation, v.stats.Best, v.stats.Average, status), 4, 2)
}

func (v *BoardView) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.Size()
}

// Size is the logical screen size in pixels.
func (v *BoardView) Size() (int, int) {
	return max(v.puzzle.Image.Width()*v.CellSize, 240), v.puzzle.Image.Rows()*v.CellSize + headerHeight
}

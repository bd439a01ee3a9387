package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/SvenDH/chess-nonogram/game"
)

var (
	styleOff   = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
	styleOn    = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	styleUnder = tcell.StyleDefault.Background(tcell.ColorDarkOrange).Foreground(tcell.ColorWhite)
	styleOver  = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleStray = tcell.StyleDefault.Background(tcell.ColorLightPink).Foreground(tcell.ColorBlack)
	styleText  = tcell.StyleDefault
)

func cellStyle(p *game.Puzzle, on bool, n int) tcell.Style {
	switch {
	case on && n < p.Threshold:
		return styleUnder
	case on && n > p.Threshold:
		return styleOver
	case on:
		return styleOn
	case n > p.StrayLimit:
		return styleStray
	}
	return styleOff
}

// TerminalView draws a board with its coverage in the terminal.
type TerminalView struct {
	screen tcell.Screen
	puzzle *game.Puzzle
	board  game.Candidate
	report game.Report
	counts bool
}

func NewTerminalView(screen tcell.Screen, p *game.Puzzle, c game.Candidate, r game.Report) *TerminalView {
	return &TerminalView{screen: screen, puzzle: p, board: c, report: r}
}

func (v *TerminalView) putString(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (v *TerminalView) Draw() {
	v.screen.Clear()
	p := v.puzzle
	counts := p.Coverage(v.board)
	board := p.Board(v.board)

	r := v.report
	v.putString(0, 0, fmt.Sprintf("score %d  pieces %d  exact %d  over %d  under %d  stray %d",
		r.Score, r.Pieces, r.Best, r.Good, r.Under, r.Stray), styleText)

	for i, row := range board {
		for j, kind := range row {
			style := cellStyle(p, p.Image[i][j], counts[i][j])
			left, right := ' ', ' '
			if kind.Movable() {
				left = kind.Symbol()
			}
			if v.counts && counts[i][j] > 0 {
				right = rune('0' + min(counts[i][j], 9))
			}
			v.screen.SetContent(2*j, i+2, left, nil, style)
			v.screen.SetContent(2*j+1, i+2, right, nil, style)
		}
	}
	v.putString(0, len(board)+3, "c: toggle counts  q/esc: quit", styleText)
	v.screen.Show()
}

// HandleEvent applies one event and reports whether the view should close.
func (v *TerminalView) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return true
		case ev.Rune() == 'q':
			return true
		case ev.Rune() == 'c':
			v.counts = !v.counts
		}
	}
	return false
}

// ShowBoard opens the terminal, shows the board and blocks until the user quits.
func ShowBoard(p *game.Puzzle, c game.Candidate, r game.Report) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	v := NewTerminalView(screen, p, c, r)
	for {
		v.Draw()
		if v.HandleEvent(screen.PollEvent()) {
			return nil
		}
	}
}

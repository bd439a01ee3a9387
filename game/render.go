package game

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const DefaultFill = '.'

type FormatOptions struct {
	// Debug prints every cell as [symbol count] with the attack count shown
	// when it exceeds one.
	Debug bool
	// Fill is printed for empty and occupied cells in plain mode.
	Fill rune
}

func FormatBoard(w io.Writer, p *Puzzle, c Candidate, opts FormatOptions) error {
	fill := opts.Fill
	if fill == 0 {
		fill = DefaultFill
	}
	var counts Grid
	if opts.Debug {
		counts = p.Coverage(c)
	}

	bw := bufio.NewWriter(w)
	board := p.Board(c)
	for i, row := range board {
		for j, kind := range row {
			if opts.Debug {
				n := "  "
				if counts[i][j] > 1 {
					n = fmt.Sprintf("%2d", counts[i][j])
				}
				fmt.Fprintf(bw, "[%c%s]", kind.Symbol(), n)
				continue
			}
			if kind.Movable() {
				bw.WriteRune(kind.Symbol())
			} else {
				bw.WriteRune(fill)
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func BoardString(p *Puzzle, c Candidate, opts FormatOptions) string {
	var sb strings.Builder
	FormatBoard(&sb, p, c, opts)
	return sb.String()
}

func SaveBoard(path string, p *Puzzle, c Candidate, fill rune) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := FormatBoard(file, p, c, FormatOptions{Fill: fill}); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadBoard parses a plain board written by FormatBoard back into a candidate
// for p. The fill rune and spaces read as empty; on-cells of the image are
// always Occupied regardless of what the file holds there.
func ReadBoard(r io.Reader, p *Puzzle, fill rune) (Candidate, error) {
	if fill == 0 {
		fill = DefaultFill
	}
	c := p.EmptyOnly()
	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		text := strings.TrimRight(scanner.Text(), "\r")
		if row >= p.Image.Rows() {
			if strings.TrimSpace(text) == "" {
				continue
			}
			return nil, fmt.Errorf("%w: board has more rows than the image (%d)", ErrMalformed, p.Image.Rows())
		}
		for col, ch := range []rune(text) {
			idx, ok := p.Layout.Index(row, col)
			if !ok {
				return nil, fmt.Errorf("%w: board row %d is longer than the image row", ErrMalformed, row+1)
			}
			if ch == fill || ch == ' ' || ch == '*' {
				continue
			}
			kind, ok := PieceFromSymbol(ch)
			if !ok {
				return nil, fmt.Errorf("%w: board row %d column %d: unknown piece %q", ErrMalformed, row+1, col+1, ch)
			}
			if c[idx] != Occupied {
				c[idx] = kind
			}
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading board: %w", err)
	}
	return c, nil
}

func LoadBoard(path string, p *Puzzle, fill rune) (Candidate, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	c, err := ReadBoard(file, p, fill)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

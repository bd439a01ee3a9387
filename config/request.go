package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/SvenDH/chess-nonogram/game"
)

var ErrBadRequest = errors.New("bad request")

// Request is a remote solve request:
//
//	{"image": ["0110", "1111"], "generations": 200, "population": 40, "seed": 7, "seeding": "search"}
//
// Only image is required.
type Request struct {
	Image       game.Image
	Generations int
	Population  int
	Seed        int64
	HasSeed     bool
	Seeding     string
}

func ParseRequest(data gjson.Result) (Request, error) {
	var req Request
	if !data.IsObject() {
		return req, fmt.Errorf("%w: expected an object", ErrBadRequest)
	}
	rows := data.Get("image")
	if !rows.IsArray() {
		return req, fmt.Errorf("%w: image must be an array of rows", ErrBadRequest)
	}
	lines := []string{}
	for _, row := range rows.Array() {
		if row.Type != gjson.String {
			return req, fmt.Errorf("%w: image rows must be strings", ErrBadRequest)
		}
		lines = append(lines, row.String())
	}
	img, err := game.ReadImage(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		return req, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	req.Image = img

	for _, field := range []struct {
		name string
		dst  *int
	}{{"generations", &req.Generations}, {"population", &req.Population}} {
		v := data.Get(field.name)
		if !v.Exists() {
			continue
		}
		if v.Type != gjson.Number || v.Int() < 0 {
			return req, fmt.Errorf("%w: %s must be a non-negative number", ErrBadRequest, field.name)
		}
		*field.dst = int(v.Int())
	}
	if seed := data.Get("seed"); seed.Exists() {
		if seed.Type != gjson.Number {
			return req, fmt.Errorf("%w: seed must be a number", ErrBadRequest)
		}
		req.Seed, req.HasSeed = seed.Int(), true
	}
	if seeding := data.Get("seeding"); seeding.Exists() {
		if _, err := game.ParseStrategy(seeding.String()); err != nil {
			return req, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		req.Seeding = seeding.String()
	}
	return req, nil
}

// Limits caps what a remote caller may ask for. Zero fields are uncapped.
type Limits struct {
	Generations int
	Population  int
	Cells       int
	SearchLimit int
}

// Apply returns s with the request's search parameters laid over it.
func (r Request) Apply(s Settings, limits Limits) (Settings, error) {
	if limits.Cells > 0 && r.Image.Cells() > limits.Cells {
		return s, fmt.Errorf("%w: image has %d cells, limit is %d", ErrBadRequest, r.Image.Cells(), limits.Cells)
	}
	if r.Generations > 0 {
		s.Search.Generations = r.Generations
	}
	if r.Population > 0 {
		s.Search.PopulationSize = r.Population
	}
	if limits.Generations > 0 {
		s.Search.Generations = min(s.Search.Generations, limits.Generations)
	}
	if limits.Population > 0 {
		s.Search.PopulationSize = min(s.Search.PopulationSize, limits.Population)
	}
	if limits.SearchLimit > 0 {
		s.Search.SearchLimit = min(s.Search.SearchLimit, limits.SearchLimit)
	}
	if r.Seeding != "" {
		s.Search.Seeding = game.Strategy(r.Seeding)
	}
	return s, nil
}

// Package config loads solver settings from profile files.
//
// A profile is a list of "key = value" lines. Weights live in a nested block:
//
//	# tight covers
//	threshold = 2
//	weights {
//	  best = 100
//	  stray = -150
//	}
//	generations = 20000
//	seeding = search
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/SvenDH/chess-nonogram/ai"
	"github.com/SvenDH/chess-nonogram/game"
)

var ErrUnknownKey = errors.New("unknown profile key")

type Profile struct {
	Entries []*Entry `@@*`
}

type Entry struct {
	Pos lexer.Position

	Key   string   `@Ident`
	Block []*Entry `( "{" @@* "}"`
	Value *Value   `| "=" @@ )`
}

type Value struct {
	Number *float64 `  @Number`
	Word   *string  `| @( Ident | String | Char )`
}

func (v *Value) String() string {
	if v.Number != nil {
		return fmt.Sprint(*v.Number)
	}
	return *v.Word
}

var profileParser = participle.MustBuild[Profile](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{"comment", `#[^\n]*`},
		{"whitespace", `[\s]+`},
		{"Number", `[-+]?\d+(\.\d+)?`},
		{"Ident", `[a-zA-Z][\w-]*`},
		{"String", `"(\\.|[^"\\])*"`},
		{"Punct", `[={}]`},
		{"Char", `[^\s\w"#={}]`},
	})),
	participle.Unquote("String"),
)

// Settings is everything a solver run can be tuned with.
type Settings struct {
	Threshold  int
	StrayLimit int
	Weights    game.Weights
	Search     ai.Config
	CacheSize  int
	Fill       rune
}

func Default() Settings {
	return Settings{
		Threshold:  game.DefaultThreshold,
		StrayLimit: game.DefaultStrayLimit,
		Weights:    game.DefaultWeights,
		Search:     ai.DefaultConfig(),
		CacheSize:  4096,
		Fill:       game.DefaultFill,
	}
}

// Puzzle builds a puzzle for img with the rule settings applied.
func (s Settings) Puzzle(img game.Image) (*game.Puzzle, error) {
	p, err := game.NewPuzzle(img)
	if err != nil {
		return nil, err
	}
	p.Threshold = s.Threshold
	p.StrayLimit = s.StrayLimit
	return p, nil
}

func (s Settings) Evaluator(p *game.Puzzle) *game.Evaluator {
	return game.NewEvaluator(p, s.Weights, s.CacheSize)
}

func Parse(name, text string) (*Profile, error) {
	return profileParser.ParseString(name, text)
}

// Load reads the profile at path over the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := s.ApplyText(path, string(data)); err != nil {
		return s, err
	}
	return s, nil
}

func (s *Settings) ApplyText(name, text string) error {
	profile, err := Parse(name, text)
	if err != nil {
		return fmt.Errorf("parsing profile: %w", err)
	}
	return s.Apply(profile)
}

func (s *Settings) Apply(profile *Profile) error {
	for _, e := range profile.Entries {
		if e.Block != nil {
			if e.Key != "weights" {
				return fmt.Errorf("%s: %w: block %q", e.Pos, ErrUnknownKey, e.Key)
			}
			for _, w := range e.Block {
				if err := s.setWeight(w); err != nil {
					return err
				}
			}
			continue
		}
		if err := s.set(e); err != nil {
			return err
		}
	}
	return nil
}

func (s *Settings) setWeight(e *Entry) error {
	n, err := e.int()
	if err != nil {
		return err
	}
	switch e.Key {
	case "best":
		s.Weights.Best = n
	case "good":
		s.Weights.Good = n
	case "under":
		s.Weights.Under = n
	case "stray":
		s.Weights.Stray = n
	default:
		return fmt.Errorf("%s: %w: weights.%s", e.Pos, ErrUnknownKey, e.Key)
	}
	return nil
}

func (s *Settings) set(e *Entry) error {
	var err error
	cfg := &s.Search
	switch e.Key {
	case "threshold":
		s.Threshold, err = e.int()
	case "stray-limit":
		s.StrayLimit, err = e.int()
	case "cache":
		s.CacheSize, err = e.int()
	case "fill":
		var w string
		if w, err = e.word(); err == nil {
			if len([]rune(w)) != 1 {
				err = fmt.Errorf("expected a single character, got %q", w)
			} else {
				s.Fill = []rune(w)[0]
			}
		}
	case "population":
		cfg.PopulationSize, err = e.int()
	case "generations":
		cfg.Generations, err = e.int()
	case "tournament":
		cfg.TournamentSize, err = e.int()
	case "crossover":
		cfg.CrossoverRate, err = e.rate()
	case "uniform":
		cfg.UniformRatio, err = e.rate()
	case "mutation":
		cfg.MutationRate, err = e.rate()
	case "mutation-piece":
		cfg.MutationPieceRate, err = e.rate()
	case "elitism":
		cfg.ElitismRate, err = e.rate()
	case "diversify":
		cfg.DiversifyRate, err = e.rate()
	case "density":
		cfg.Density, err = e.rate()
	case "search-limit":
		cfg.SearchLimit, err = e.int()
	case "workers":
		cfg.Workers, err = e.int()
	case "log-every":
		cfg.LogEvery, err = e.int()
	case "time-budget":
		var secs float64
		if secs, err = e.number(); err == nil {
			cfg.TimeBudget = time.Duration(secs * float64(time.Second))
		}
	case "seeding":
		var w string
		if w, err = e.word(); err == nil {
			cfg.Seeding, err = game.ParseStrategy(w)
		}
	default:
		return fmt.Errorf("%s: %w: %s", e.Pos, ErrUnknownKey, e.Key)
	}
	if err != nil {
		return fmt.Errorf("%s: %s: %w", e.Pos, e.Key, err)
	}
	return nil
}

func (e *Entry) number() (float64, error) {
	if e.Value == nil || e.Value.Number == nil {
		return 0, fmt.Errorf("expected a number")
	}
	return *e.Value.Number, nil
}

func (e *Entry) int() (int, error) {
	f, err := e.number()
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("expected an integer, got %v", f)
	}
	return int(f), nil
}

func (e *Entry) rate() (float64, error) {
	f, err := e.number()
	if err != nil {
		return 0, err
	}
	if f < 0 || f > 1 {
		return 0, fmt.Errorf("expected a value between 0 and 1, got %v", f)
	}
	return f, nil
}

func (e *Entry) word() (string, error) {
	if e.Value == nil || e.Value.Word == nil {
		return "", fmt.Errorf("expected a word")
	}
	return *e.Value.Word, nil
}

package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// ErrBadCell marks a cell that is neither a float literal nor a recognized
// missing-value sentinel. Load errors wrap it with the offending position.
var ErrBadCell = errors.New("unparseable cell")

// DefaultSentinels are the missing-value markers recognized out of the box.
var DefaultSentinels = []string{"", "NA", ".", "?"}

type loadConfig struct {
	comma     rune
	sentinels map[string]struct{}
}

// Option configures the loader.
type Option func(*loadConfig)

// WithComma sets the field delimiter.
func WithComma(c rune) Option {
	return func(cfg *loadConfig) {
		cfg.comma = c
	}
}

// WithSentinels replaces the set of recognized missing-value markers.
func WithSentinels(sentinels ...string) Option {
	return func(cfg *loadConfig) {
		cfg.sentinels = make(map[string]struct{}, len(sentinels))
		for _, s := range sentinels {
			cfg.sentinels[s] = struct{}{}
		}
	}
}

// Load reads a delimited table with a header row into a Frame.
// Every cell must be a float literal or one of the configured sentinels;
// sentinel cells become NaN, anything else is a fatal load error naming
// the row and column.
func Load(path string, opts ...Option) (*Frame, error) {
	cfg := &loadConfig{comma: ','}
	WithSentinels(DefaultSentinels...)(cfg)
	for _, opt := range opts {
		opt(cfg)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = cfg.comma
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	names := records[0]
	data := make([][]float64, 0, len(records)-1)
	missing := 0
	for r, record := range records[1:] {
		row := make([]float64, len(names))
		for c, cell := range record {
			if _, ok := cfg.sentinels[cell]; ok {
				row[c] = math.NaN()
				missing++
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q value %q: %w", r+1, names[c], cell, ErrBadCell)
			}
			row[c] = v
		}
		data = append(data, row)
	}

	f, err := New(names, data)
	if err != nil {
		return nil, fmt.Errorf("could not build frame from %s: %w", path, err)
	}

	log.Info().
		Str("path", path).
		Int("rows", f.Rows()).
		Int("columns", f.Cols()).
		Int("missing", missing).
		Msg("loaded table")

	return f, nil
}

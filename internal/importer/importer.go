// Package importer loads PO, open-PO and landing-rate sheets into the store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Kind is the collection a file feeds.
type Kind string

const (
	KindPO          Kind = "po"
	KindOpenPO      Kind = "open_po"
	KindLandingRate Kind = "landing_rate"
)

var (
	ErrUnknownKind       = errors.New("unknown import kind")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMissingHeader     = errors.New("file has no header row")
	ErrMissingColumn     = errors.New("required column missing")
)

// ParseKind accepts po, open_po and landing_rate, ignoring case and
// treating dashes like underscores.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch k {
	case KindPO, KindOpenPO, KindLandingRate:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// File is one sheet on disk waiting to be imported.
type File struct {
	Kind Kind
	Name string
	Path string
}

// Sink receives the parsed collections.
type Sink interface {
	ReplacePOs(pos []domain.PurchaseOrder)
	ReplaceOpenPOs(pos []domain.PurchaseOrder)
	ReplaceLandingRates(rates []domain.LandingRate)
}

// Invalidator runs after the sink has been updated.
type Invalidator func(ctx context.Context) error

type FileResult struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Rows    int    `json:"rows"`
	Skipped int    `json:"skipped"`
}

// Result summarises one ImportFiles call.
type Result struct {
	BatchID      string       `json:"batchId"`
	Files        []FileResult `json:"files"`
	POs          int          `json:"pos"`
	OpenPOs      int          `json:"openPos"`
	LandingRates int          `json:"landingRates"`
	Took         string       `json:"took"`
}

type Importer struct {
	sink       Sink
	invalidate Invalidator
	validate   *validator.Validate
	logger     zerolog.Logger
}

type Option func(*Importer)

func WithInvalidator(fn Invalidator) Option {
	return func(i *Importer) {
		i.invalidate = fn
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

func New(sink Sink, opts ...Option) *Importer {
	i := &Importer{
		sink:     sink,
		validate: validator.New(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

type parsed struct {
	pos   []domain.PurchaseOrder
	rates []domain.LandingRate
	stats FileResult
}

// ImportFiles parses every file concurrently, then replaces each collection
// that at least one file targeted. Files of the same kind are concatenated
// in argument order. Nothing is written when any file fails to parse.
func (i *Importer) ImportFiles(ctx context.Context, files []File) (*Result, error) {
	start := time.Now()
	batchID := uuid.New().String()
	logger := i.logger.With().Str("batch_id", batchID).Logger()

	results := make([]parsed, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for idx, f := range files {
		idx, f := idx, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := i.parseFile(f, logger)
			if err != nil {
				return fmt.Errorf("import %s: %w", f.Name, err)
			}
			results[idx] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("import failed")
		return nil, err
	}

	var pos, openPOs []domain.PurchaseOrder
	var rates []domain.LandingRate
	seen := make(map[Kind]bool)
	out := &Result{BatchID: batchID}
	for _, res := range results {
		seen[res.stats.Kind] = true
		out.Files = append(out.Files, res.stats)
		switch res.stats.Kind {
		case KindPO:
			pos = append(pos, res.pos...)
		case KindOpenPO:
			openPOs = append(openPOs, res.pos...)
		case KindLandingRate:
			rates = append(rates, res.rates...)
		}
	}

	if seen[KindPO] {
		i.sink.ReplacePOs(pos)
		out.POs = len(pos)
	}
	if seen[KindOpenPO] {
		i.sink.ReplaceOpenPOs(openPOs)
		out.OpenPOs = len(openPOs)
	}
	if seen[KindLandingRate] {
		i.sink.ReplaceLandingRates(rates)
		out.LandingRates = len(rates)
	}

	if i.invalidate != nil && len(seen) > 0 {
		if err := i.invalidate(ctx); err != nil {
			logger.Warn().Err(err).Msg("cache invalidation after import failed")
		}
	}

	out.Took = time.Since(start).String()
	logger.Info().
		Int("files", len(files)).
		Int("pos", out.POs).
		Int("open_pos", out.OpenPOs).
		Int("landing_rates", out.LandingRates).
		Str("took", out.Took).
		Msg("import completed")

	return out, nil
}

func (i *Importer) parseFile(f File, logger zerolog.Logger) (parsed, error) {
	if _, err := ParseKind(string(f.Kind)); err != nil {
		return parsed{}, err
	}

	records, err := readRecords(f.Path)
	if err != nil {
		return parsed{}, err
	}

	res := parsed{stats: FileResult{Name: f.Name, Kind: f.Kind}}
	switch f.Kind {
	case KindLandingRate:
		res.rates, res.stats.Skipped, err = i.parseLandingRates(records, f.Name, logger)
		res.stats.Rows = len(res.rates)
	default:
		res.pos, res.stats.Skipped, err = i.parsePOs(records, f.Kind == KindOpenPO, f.Name, logger)
		res.stats.Rows = len(res.pos)
	}
	return res, err
}

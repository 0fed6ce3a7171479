// Package service implements the extraction runner: one streaming pass over
// the source archive fanning each accepted record out to the metadata and
// feature tables
package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"penprint/internal/core/features"
	"penprint/internal/core/normalize"
	"penprint/internal/core/tokenize"
	perr "penprint/internal/platform/errors"
	"penprint/internal/platform/logger"
	"penprint/internal/services/extract/domain"
)

// Config for the extract service
type Config struct {
	Forums []string // allowlist, empty = every forum
	Strict bool     // abort on the first malformed line instead of skipping
}

// Service implements domain.RunnerPort
type Service struct {
	Source   domain.Opener
	Meta     domain.MetaSink
	Features domain.FeatureSink
	Norm     *normalize.Normalizer
	Comp     *features.Computer
	Schema   []string
	Cfg      Config

	allow map[string]struct{}
}

// New constructs the extract service over a frozen function-word list
func New(src domain.Opener, meta domain.MetaSink, feats domain.FeatureSink, words []string, cfg Config) *Service {
	return &Service{
		Source:   src,
		Meta:     meta,
		Features: feats,
		Norm:     normalize.New(),
		Comp:     features.NewComputer(words),
		Schema:   features.Schema(words),
		Cfg:      cfg,
		allow:    allowSet(cfg.Forums),
	}
}

// Run streams the archive once. Malformed lines are skipped with a warning
// unless Strict is set; cancellation is honored at record boundaries. On any
// abort both outputs are closed as partial so they cannot pass for complete
// tables
func (s *Service) Run(ctx context.Context) (domain.Stats, error) {
	log := logger.C(ctx)
	var st domain.Stats

	if err := s.Meta.Begin(ctx); err != nil {
		return st, err
	}
	if err := s.Features.Begin(ctx, s.Schema); err != nil {
		s.abort(ctx, log)
		return st, err
	}

	it, err := s.Source.Open(ctx)
	if err != nil {
		s.abort(ctx, log)
		return st, err
	}
	defer func() {
		if cerr := it.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("extract: close source")
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			s.abort(ctx, log)
			return st, perr.Wrap(err, perr.ErrorCodeUnavailable, "extract: canceled")
		}

		rec, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			switch perr.CodeOf(err) {
			case perr.ErrorCodeParse, perr.ErrorCodeMissingField:
				st.Lines++
				st.Malformed++
				if s.Cfg.Strict {
					s.abort(ctx, log)
					return st, err
				}
				log.Warn().Err(err).Int64("line", st.Lines).Msg("extract: skipping malformed line")
				continue
			default:
				// container-level failure, the pass cannot continue
				s.abort(ctx, log)
				return st, err
			}
		}

		st.Lines++
		if !s.accept(rec) {
			st.Filtered++
			continue
		}

		// length_char and the character tabulation read the raw body; only
		// the word tokenizer sees the normalized form
		body := strings.ToValidUTF8(rec.Body, "")
		orig, lower := tokenize.Words(s.Norm.Normalize(body))
		vals := s.Comp.Compute(body, orig, lower).Values()

		if err := s.Meta.Append(ctx, ProjectMeta(rec)); err != nil {
			s.abort(ctx, log)
			return st, err
		}
		if err := s.Features.Append(ctx, domain.FeatureRow(vals)); err != nil {
			s.abort(ctx, log)
			return st, err
		}
		st.Accepted++
	}

	if err := s.Meta.Close(ctx, true); err != nil {
		return st, err
	}
	if err := s.Features.Close(ctx, true); err != nil {
		return st, err
	}

	log.Info().
		Int64("lines", st.Lines).
		Int64("malformed", st.Malformed).
		Int64("filtered", st.Filtered).
		Int64("accepted", st.Accepted).
		Msg("extract: run complete")
	return st, nil
}

// abort closes both sinks as partial; close errors are logged, not returned,
// so they never mask the error that triggered the abort
func (s *Service) abort(ctx context.Context, log *logger.Logger) {
	// finalize even when the abort came from cancellation
	ctx = context.WithoutCancel(ctx)
	if err := s.Meta.Close(ctx, false); err != nil {
		log.Warn().Err(err).Msg("extract: close meta sink after abort")
	}
	if err := s.Features.Close(ctx, false); err != nil {
		log.Warn().Err(err).Msg("extract: close feature sink after abort")
	}
}

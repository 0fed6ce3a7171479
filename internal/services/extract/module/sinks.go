package module

import (
	"context"

	"penprint/internal/services/extract/domain"
)

// teeMeta fans metadata rows out to every destination; the primary CSV sink
// is always first. Errors surface on first failure so the runner aborts
type teeMeta struct {
	sinks []domain.MetaSink
}

func (t teeMeta) Begin(ctx context.Context) error {
	for _, s := range t.sinks {
		if err := s.Begin(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (t teeMeta) Append(ctx context.Context, row domain.MetaRow) error {
	for _, s := range t.sinks {
		if err := s.Append(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every destination even when one fails, returning the first error
func (t teeMeta) Close(ctx context.Context, complete bool) error {
	var first error
	for _, s := range t.sinks {
		if err := s.Close(ctx, complete); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// teeFeatures mirrors teeMeta for the feature table
type teeFeatures struct {
	sinks []domain.FeatureSink
}

func (t teeFeatures) Begin(ctx context.Context, columns []string) error {
	for _, s := range t.sinks {
		if err := s.Begin(ctx, columns); err != nil {
			return err
		}
	}
	return nil
}

func (t teeFeatures) Append(ctx context.Context, row domain.FeatureRow) error {
	for _, s := range t.sinks {
		if err := s.Append(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

func (t teeFeatures) Close(ctx context.Context, complete bool) error {
	var first error
	for _, s := range t.sinks {
		if err := s.Close(ctx, complete); err != nil && first == nil {
			first = err
		}
	}
	return first
}

package domain

import "context"

// RecordIterator is a single-pass cursor over decoded records.
// Next returns io.EOF when the source is exhausted; a non-EOF error carries a
// platform error code (Parse, MissingField) so the caller can apply its
// skip-or-abort policy per record
type RecordIterator interface {
	Next() (Record, error)
	Close() error
}

// Opener opens an independent pass over the source archive
type Opener interface {
	Open(ctx context.Context) (RecordIterator, error)
}

// MetaSink writes the metadata table: header once, one row per accepted record
type MetaSink interface {
	Begin(ctx context.Context) error
	Append(ctx context.Context, row MetaRow) error
	// Close finalizes the output; complete=false marks it partial
	Close(ctx context.Context, complete bool) error
}

// FeatureSink writes the feature table against a frozen column schema
type FeatureSink interface {
	Begin(ctx context.Context, columns []string) error
	Append(ctx context.Context, row FeatureRow) error
	Close(ctx context.Context, complete bool) error
}

// RunnerPort drives one full extraction run
type RunnerPort interface {
	Run(ctx context.Context) (Stats, error)
}

// Package chsink implements the table writers over ClickHouse for runs whose
// output feeds dashboards instead of files. Feature rows land as a
// Map(String, Int64) keyed by schema column (yules_k kept apart as Float64),
// so the dynamic function-word columns need no DDL churn. A runs row is
// written on Close and records whether the run completed or was truncated
package chsink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"

	perr "penprint/internal/platform/errors"
	"penprint/internal/platform/logger"
	"penprint/internal/services/extract/domain"
)

const defaultBatchSize = 10_000

// Config configures the ClickHouse sink
type Config struct {
	DSN          string
	MetaTable    string // default penprint_meta
	FeatureTable string // default penprint_features
	RunsTable    string // default penprint_runs
	RunID        uuid.UUID
	Source       string // archive path, recorded in the runs row
	BatchSize    int
}

func (c *Config) defaults() {
	if c.MetaTable == "" {
		c.MetaTable = "penprint_meta"
	}
	if c.FeatureTable == "" {
		c.FeatureTable = "penprint_features"
	}
	if c.RunsTable == "" {
		c.RunsTable = "penprint_runs"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.RunID == uuid.Nil {
		c.RunID = uuid.New()
	}
}

// Sink owns the connection shared by the two table writers
type Sink struct {
	conn driver.Conn
	cfg  Config
}

// Open connects, pings, and ensures the destination tables exist
func Open(ctx context.Context, cfg Config) (*Sink, error) {
	cfg.defaults()
	opts, err := clickhouse.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeSink, "chsink: bad DSN")
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeSink, "chsink: open")
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeSink, "chsink: ping")
	}
	s := &Sink{conn: conn, cfg: cfg}
	for _, ddl := range []string{
		metaDDL(cfg.MetaTable),
		featureDDL(cfg.FeatureTable),
		runsDDL(cfg.RunsTable),
	} {
		if err := conn.Exec(ctx, ddl); err != nil {
			_ = conn.Close()
			return nil, perr.Wrap(err, perr.ErrorCodeSink, "chsink: ensure tables")
		}
	}
	return s, nil
}

// Meta returns the metadata table writer for this run
func (s *Sink) Meta() *MetaWriter {
	return &MetaWriter{sink: s, table: s.cfg.MetaTable}
}

// Features returns the feature table writer for this run
func (s *Sink) Features() *FeatureWriter {
	return &FeatureWriter{sink: s, table: s.cfg.FeatureTable}
}

// Close closes the shared connection
func (s *Sink) Close() error { return s.conn.Close() }

// finishRun records the outcome row for one writer's table
func (s *Sink) finishRun(ctx context.Context, table string, rows uint64, schema []string, complete bool) error {
	done := uint8(0)
	if complete {
		done = 1
	}
	err := s.conn.Exec(ctx,
		fmt.Sprintf("INSERT INTO %s (run_id, source, dest_table, rows, complete, schema, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			s.cfg.RunsTable),
		s.cfg.RunID, s.cfg.Source, table, rows, done, strings.Join(schema, ","), time.Now().UTC(),
	)
	return perr.WrapIf(err, perr.ErrorCodeSink, "chsink: record run")
}

// batcher shares the chunked-insert mechanics of both writers
type batcher struct {
	sink    *Sink
	table   string
	batch   driver.Batch
	pending int
	rows    uint64
}

func (b *batcher) append(ctx context.Context, vals ...any) error {
	if b.batch == nil {
		batch, err := b.sink.conn.PrepareBatch(ctx, "INSERT INTO "+b.table)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeSink, "chsink: prepare %s", b.table)
		}
		b.batch = batch
	}
	if err := b.batch.Append(vals...); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeSink, "chsink: append %s", b.table)
	}
	b.pending++
	b.rows++
	if b.pending >= b.sink.cfg.BatchSize {
		return b.flush()
	}
	return nil
}

func (b *batcher) flush() error {
	if b.batch == nil || b.pending == 0 {
		if b.batch != nil {
			if err := b.batch.Abort(); err != nil {
				logger.Named("chsink").Warn().Err(err).Msg("chsink: abort empty batch")
			}
			b.batch = nil
		}
		return nil
	}
	if err := b.batch.Send(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeSink, "chsink: send %s", b.table)
	}
	b.batch = nil
	b.pending = 0
	return nil
}

// MetaWriter implements domain.MetaSink over ClickHouse
type MetaWriter struct {
	sink  *Sink
	table string
	b     batcher
	seq   uint64
}

// Begin readies the writer; tables already exist from Open
func (m *MetaWriter) Begin(_ context.Context) error {
	m.b = batcher{sink: m.sink, table: m.table}
	return nil
}

// Append buffers one metadata row, flushing per the configured batch size
func (m *MetaWriter) Append(ctx context.Context, row domain.MetaRow) error {
	m.seq++
	return m.b.append(ctx,
		m.sink.cfg.RunID, m.seq,
		row.ID, row.SubredditID, row.Subreddit, row.Author,
		row.CreatedUTC, row.RetrievedOn, row.ParentID,
		row.Score, row.Gilded, row.Edited,
	)
}

// Close flushes remaining rows and records the run outcome
func (m *MetaWriter) Close(ctx context.Context, complete bool) error {
	if err := m.b.flush(); err != nil {
		return err
	}
	return m.sink.finishRun(ctx, m.table, m.b.rows, domain.MetaColumns(), complete)
}

// FeatureWriter implements domain.FeatureSink over ClickHouse
type FeatureWriter struct {
	sink   *Sink
	table  string
	b      batcher
	seq    uint64
	schema []string
}

// Begin freezes the schema for the runs record
func (w *FeatureWriter) Begin(_ context.Context, columns []string) error {
	w.schema = append([]string(nil), columns...)
	w.b = batcher{sink: w.sink, table: w.table}
	return nil
}

// Append buffers one feature row as a value map plus yules_k
func (w *FeatureWriter) Append(ctx context.Context, row domain.FeatureRow) error {
	w.seq++
	return w.b.append(ctx, w.sink.cfg.RunID, w.seq, row["yules_k"], countValues(row))
}

// Close flushes remaining rows and records the run outcome
func (w *FeatureWriter) Close(ctx context.Context, complete bool) error {
	if err := w.b.flush(); err != nil {
		return err
	}
	return w.sink.finishRun(ctx, w.table, w.b.rows, w.schema, complete)
}

// countValues drops yules_k (kept as its own Float64 column) and truncates
// the remaining counts to Int64 for the Map column
func countValues(row domain.FeatureRow) map[string]int64 {
	out := make(map[string]int64, len(row))
	for k, v := range row {
		if k == "yules_k" {
			continue
		}
		out[k] = int64(v)
	}
	return out
}

func metaDDL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		run_id UUID,
		seq UInt64,
		id String,
		subreddit_id String,
		subreddit String,
		author String,
		created_utc Int64,
		retrieved_on Int64,
		parent_id String,
		score Int64,
		gilded Int64,
		edited String
	) ENGINE = MergeTree ORDER BY (run_id, seq)`, table)
}

func featureDDL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		run_id UUID,
		seq UInt64,
		yules_k Float64,
		vals Map(String, Int64)
	) ENGINE = MergeTree ORDER BY (run_id, seq)`, table)
}

func runsDDL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		run_id UUID,
		source String,
		dest_table String,
		rows UInt64,
		complete UInt8,
		schema String,
		finished_at DateTime
	) ENGINE = MergeTree ORDER BY (run_id, dest_table)`, table)
}

// Package csvsink implements the table writers over CSV files.
// Each writer owns its column order, writes the header exactly once, and
// defaults absent feature columns to 0 so downstream parsing stays
// type-stable. An aborted run leaves the output renamed *.partial instead of
// masquerading as a complete table
package csvsink

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"

	perr "penprint/internal/platform/errors"
	"penprint/internal/services/extract/domain"
)

// file bundles the shared open/flush/abort mechanics of both writers
type file struct {
	path  string
	f     *os.File
	w     *csv.Writer
	began bool
}

func (c *file) begin(header []string) error {
	if c.began {
		return perr.Sinkf("csvsink: Begin called twice for %s", c.path)
	}
	f, err := os.Create(c.path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeSink, "csvsink: create %s", c.path)
	}
	c.f = f
	c.w = csv.NewWriter(f)
	c.began = true
	if err := c.w.Write(header); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeSink, "csvsink: header %s", c.path)
	}
	return nil
}

func (c *file) append(row []string) error {
	if !c.began {
		return perr.Sinkf("csvsink: Append before Begin for %s", c.path)
	}
	if err := c.w.Write(row); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeSink, "csvsink: row %s", c.path)
	}
	return nil
}

func (c *file) close(complete bool) error {
	if !c.began {
		return nil
	}
	c.w.Flush()
	flushErr := c.w.Error()
	closeErr := c.f.Close()
	if flushErr != nil {
		return perr.Wrapf(flushErr, perr.ErrorCodeSink, "csvsink: flush %s", c.path)
	}
	if closeErr != nil {
		return perr.Wrapf(closeErr, perr.ErrorCodeSink, "csvsink: close %s", c.path)
	}
	if !complete {
		if err := os.Rename(c.path, c.path+".partial"); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeSink, "csvsink: mark partial %s", c.path)
		}
	}
	return nil
}

// MetaWriter writes the metadata table
type MetaWriter struct {
	file
}

// NewMeta creates a metadata table writer targeting path
func NewMeta(path string) *MetaWriter {
	return &MetaWriter{file: file{path: path}}
}

// Begin creates the file and writes the fixed metadata header
func (m *MetaWriter) Begin(_ context.Context) error {
	return m.begin(domain.MetaColumns())
}

// Append writes one metadata row in source order
func (m *MetaWriter) Append(_ context.Context, row domain.MetaRow) error {
	return m.append([]string{
		row.ID,
		row.SubredditID,
		row.Subreddit,
		row.Author,
		strconv.FormatInt(row.CreatedUTC, 10),
		strconv.FormatInt(row.RetrievedOn, 10),
		row.ParentID,
		strconv.FormatInt(row.Score, 10),
		strconv.FormatInt(row.Gilded, 10),
		row.Edited,
	})
}

// Close flushes and finalizes the table
func (m *MetaWriter) Close(_ context.Context, complete bool) error {
	return m.close(complete)
}

// FeatureWriter writes the feature table against a frozen schema
type FeatureWriter struct {
	file
	cols []string
}

// NewFeatures creates a feature table writer targeting path
func NewFeatures(path string) *FeatureWriter {
	return &FeatureWriter{file: file{path: path}}
}

// Begin freezes the column schema and writes the header
func (w *FeatureWriter) Begin(_ context.Context, columns []string) error {
	w.cols = append([]string(nil), columns...)
	return w.begin(w.cols)
}

// Append writes one feature row; schema columns absent from the map become 0
func (w *FeatureWriter) Append(_ context.Context, row domain.FeatureRow) error {
	out := make([]string, len(w.cols))
	for i, col := range w.cols {
		out[i] = formatValue(row[col])
	}
	return w.append(out)
}

// Close flushes and finalizes the table
func (w *FeatureWriter) Close(_ context.Context, complete bool) error {
	return w.close(complete)
}

// formatValue prints counts as integers and yules_k at full precision
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

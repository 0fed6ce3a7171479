package dump

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	perr "penprint/internal/platform/errors"
	"penprint/internal/platform/logger"
	"penprint/internal/services/extract/domain"
)

const (
	maxScanTokenSize = 32 * 1024 * 1024
	scanBufSize      = 512 * 1024
)

// Source opens independent passes over one archive path.
// It implements domain.Opener and holds no per-pass state
type Source struct {
	Path string
}

// NewSource creates a Source for the given archive path
func NewSource(path string) *Source { return &Source{Path: path} }

// Open starts a fresh pass; each returned Reader is single-use
func (s *Source) Open(_ context.Context) (domain.RecordIterator, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDecode, "dump: open %s", s.Path)
	}

	var (
		body  io.Reader
		extra func() // decompressor teardown, may be nil
	)
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			if cerr := f.Close(); cerr != nil {
				logger.Named("dump").Warn().Err(cerr).Msg("dump: close after bad gzip header")
			}
			return nil, perr.Wrapf(err, perr.ErrorCodeDecode, "dump: not a gzip container: %s", s.Path)
		}
		body = gz
		extra = func() { _ = gz.Close() }
	case ".bz2":
		// bzip2 surfaces container corruption on first read, not at open
		body = bzip2.NewReader(f)
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			if cerr := f.Close(); cerr != nil {
				logger.Named("dump").Warn().Err(cerr).Msg("dump: close after bad zstd header")
			}
			return nil, perr.Wrapf(err, perr.ErrorCodeDecode, "dump: not a zstd container: %s", s.Path)
		}
		body = zr
		extra = zr.Close
	default:
		body = f
	}

	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, scanBufSize), maxScanTokenSize)
	return &Reader{f: f, extra: extra, sc: sc}, nil
}

// Reader streams decoded comment records from one pass over the archive
type Reader struct {
	f     *os.File
	extra func()
	sc    *bufio.Scanner
	err   error
	lines int
	bytes int64
}

// Next reads the next record; returns io.EOF when done.
// Parse and MissingField errors are per-line: the reader stays usable and the
// caller decides whether to skip or abort
func (rd *Reader) Next() (domain.Record, error) {
	if rd.err != nil {
		return domain.Record{}, rd.err
	}
	if !rd.sc.Scan() {
		if err := rd.sc.Err(); err != nil {
			rd.err = perr.Wrap(err, perr.ErrorCodeDecode, "dump: read line")
			return domain.Record{}, rd.err
		}
		rd.err = io.EOF
		return domain.Record{}, io.EOF
	}
	line := rd.sc.Bytes()
	rd.lines++
	rd.bytes += int64(len(line) + 1) // include newline

	var c comment
	if err := json.Unmarshal(line, &c); err != nil {
		return domain.Record{}, perr.Wrapf(err, perr.ErrorCodeParse, "dump: line %d", rd.lines)
	}
	if missing := c.check(); missing != "" {
		return domain.Record{}, perr.WithField(
			perr.MissingFieldf("dump: line %d lacks required field", rd.lines), missing)
	}
	return c.toRecord(), nil
}

// Close closes the decompressor and the underlying file
func (rd *Reader) Close() error {
	if rd.extra != nil {
		rd.extra()
	}
	if rd.f != nil {
		return rd.f.Close()
	}
	return nil
}

// Stats returns lines consumed and total uncompressed bytes read so far
func (rd *Reader) Stats() (lines int, bytes int64) {
	return rd.lines, rd.bytes
}

package module

import (
	"context"
	"path/filepath"
	"testing"

	"penprint/internal/modkit"
	"penprint/internal/platform/config"
	perr "penprint/internal/platform/errors"
	"penprint/internal/platform/testkit"
	"penprint/internal/services/extract/domain"
)

func TestFromConfig_Defaults(t *testing.T) {
	opts := FromConfig(config.New())
	if opts.Source != "" || opts.FuncWords != "" || opts.Strict {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	if opts.MetaPath != "meta.csv" || opts.FeatPath != "features.csv" {
		t.Fatalf("unexpected default paths: %+v", opts)
	}
	if len(opts.Forums) != 0 {
		t.Fatalf("default forums should be empty: %v", opts.Forums)
	}
}

func TestFromConfig_Env(t *testing.T) {
	t.Setenv("CORE_EXTRACT_SOURCE", "/data/RC_2007-10.bz2")
	t.Setenv("CORE_EXTRACT_FORUMS", "nfl, nba")
	t.Setenv("CORE_EXTRACT_STRICT", "true")

	opts := FromConfig(config.New())
	if opts.Source != "/data/RC_2007-10.bz2" {
		t.Fatalf("source = %q", opts.Source)
	}
	if len(opts.Forums) != 2 || opts.Forums[0] != "nfl" || opts.Forums[1] != "nba" {
		t.Fatalf("forums = %v", opts.Forums)
	}
	if !opts.Strict {
		t.Fatal("strict should be true")
	}
}

func TestCHFromConfig(t *testing.T) {
	if CHFromConfig(config.New()).Enabled {
		t.Fatal("clickhouse sink must default off")
	}
	t.Setenv("SINK_CLICKHOUSE_ENABLED", "1")
	t.Setenv("SINK_CLICKHOUSE_DBURL", "clickhouse://localhost:9000/penprint")
	ch := CHFromConfig(config.New())
	if !ch.Enabled || ch.DBURL == "" {
		t.Fatalf("unexpected ch options: %+v", ch)
	}
}

func TestNew_WiresRunner(t *testing.T) {
	dir := t.TempDir()
	m := New(modkit.Deps{Cfg: config.New()}, Options{
		Source:   filepath.Join(dir, "dump.ndjson"),
		MetaPath: filepath.Join(dir, "meta.csv"),
		FeatPath: filepath.Join(dir, "features.csv"),
	})

	if m.Name() != "extract" {
		t.Fatalf("name = %q", m.Name())
	}
	ports, ok := m.Ports().(Ports)
	if !ok || ports.Runner == nil {
		t.Fatal("module must expose a wired Runner port")
	}
	var _ modkit.Module = m
}

func TestNew_PanicsWithoutSource(t *testing.T) {
	testkit.MustPanic(t, func() {
		New(modkit.Deps{Cfg: config.New()}, Options{})
	})
}

// recording sinks for the tee tests

type recMeta struct {
	begun    int
	rows     int
	closed   int
	complete bool
	failOn   string
}

func (r *recMeta) Begin(context.Context) error {
	r.begun++
	if r.failOn == "begin" {
		return perr.Sinkf("begin failed")
	}
	return nil
}

func (r *recMeta) Append(context.Context, domain.MetaRow) error {
	r.rows++
	if r.failOn == "append" {
		return perr.Sinkf("append failed")
	}
	return nil
}

func (r *recMeta) Close(_ context.Context, complete bool) error {
	r.closed++
	r.complete = complete
	if r.failOn == "close" {
		return perr.Sinkf("close failed")
	}
	return nil
}

func TestTeeMeta_FansOut(t *testing.T) {
	ctx := context.Background()
	a, b := &recMeta{}, &recMeta{}
	tee := teeMeta{sinks: []domain.MetaSink{a, b}}

	if err := tee.Begin(ctx); err != nil {
		t.Fatal(err)
	}
	if err := tee.Append(ctx, domain.MetaRow{ID: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := tee.Close(ctx, true); err != nil {
		t.Fatal(err)
	}

	if a.begun != 1 || b.begun != 1 || a.rows != 1 || b.rows != 1 {
		t.Fatalf("both sinks must see all traffic: %+v %+v", a, b)
	}
	if !a.complete || !b.complete {
		t.Fatal("complete flag must propagate")
	}
}

func TestTeeMeta_CloseAllDespiteError(t *testing.T) {
	ctx := context.Background()
	a, b := &recMeta{failOn: "close"}, &recMeta{}
	tee := teeMeta{sinks: []domain.MetaSink{a, b}}

	if err := tee.Begin(ctx); err != nil {
		t.Fatal(err)
	}
	err := tee.Close(ctx, false)
	if !perr.IsCode(err, perr.ErrorCodeSink) {
		t.Fatalf("first close error must surface, got %v", err)
	}
	if b.closed != 1 || b.complete {
		t.Fatal("second sink must still close partial")
	}
}

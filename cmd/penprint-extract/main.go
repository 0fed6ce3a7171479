// Command penprint-extract streams one comment archive into the metadata and
// feature CSV tables.
//
// Usage:
//
//	penprint-extract [flags] <archive> [forum ...]
//
// The archive may be plain NDJSON or a .gz/.bz2/.zst container. Naming forums
// restricts output to those forums; none means every forum
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"penprint/internal/modkit"
	"penprint/internal/modkit/module"
	"penprint/internal/platform/config"
	"penprint/internal/platform/logger"

	"penprint/internal/adapters/export/chsink"
	extractmod "penprint/internal/services/extract/module"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(),
		"usage: %s [flags] <archive> [forum ...]\n\nflags:\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	var (
		funcWords = flag.String("funcwords", "", "function word list path (default: embedded list)")
		metaPath  = flag.String("meta", "meta.csv", "metadata table output path")
		featPath  = flag.String("features", "features.csv", "feature table output path")
		strict    = flag.Bool("strict", false, "abort on the first malformed line instead of skipping")
		timeout   = flag.Duration("timeout", 0, "overall run timeout, 0 = none")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	source := flag.Arg(0)
	forums := flag.Args()[1:]

	root := config.New()
	l := logger.Get()

	// Pass CLI args into CORE_EXTRACT_* so the module can read its own config
	mustSetEnv("CORE_EXTRACT_SOURCE", source)
	mustSetEnv("CORE_EXTRACT_FORUMS", strings.Join(forums, ","))
	mustSetEnv("CORE_EXTRACT_FUNCWORDS", *funcWords)
	mustSetEnv("CORE_EXTRACT_META", *metaPath)
	mustSetEnv("CORE_EXTRACT_FEATURES", *featPath)
	mustSetEnv("CORE_EXTRACT_STRICT", map[bool]string{true: "1", false: "0"}[*strict])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	ctx = logger.WithRun(ctx, runID, source)

	deps := modkit.Deps{
		Cfg: root,
		Log: *l,
	}

	var opts []modkit.Option

	// Optional ClickHouse destinations alongside the CSV tables
	chOpts := extractmod.CHFromConfig(root)
	if chOpts.Enabled {
		sink, err := chsink.Open(ctx, chsink.Config{
			DSN:    chOpts.DBURL,
			RunID:  uuid.MustParse(runID),
			Source: source,
		})
		if err != nil {
			l.Fatal().Err(err).Msg("clickhouse sink open failed")
		}
		defer func() {
			if err := sink.Close(); err != nil {
				l.Error().Err(err).Msg("failed to close clickhouse sink")
			}
		}()
		opts = append(opts, modkit.WithPorts(extractmod.ExtraSinks{
			Meta:     sink.Meta(),
			Features: sink.Features(),
		}))
	}

	em := extractmod.New(deps, extractmod.Options{
		Source:    source,
		Forums:    forums,
		FuncWords: *funcWords,
		MetaPath:  *metaPath,
		FeatPath:  *featPath,
		Strict:    *strict,
	}, opts...)

	module.Register(em.Name(), em.Ports())

	ports := em.Ports().(extractmod.Ports)
	start := time.Now()
	stats, err := ports.Runner.Run(ctx)
	if err != nil {
		l.Fatal().Err(err).
			Int64("lines", stats.Lines).
			Int64("accepted", stats.Accepted).
			Msg("extract failed")
	}
	l.Info().
		Int64("lines", stats.Lines).
		Int64("malformed", stats.Malformed).
		Int64("filtered", stats.Filtered).
		Int64("accepted", stats.Accepted).
		Dur("elapsed", time.Since(start)).
		Msg("extract complete")
}

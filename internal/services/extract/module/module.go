// Package module implements the extract module
package module

import (
	"penprint/internal/adapters/export/csvsink"
	"penprint/internal/adapters/ingest/dump"
	"penprint/internal/core/funcwords"
	"penprint/internal/modkit"
	"penprint/internal/services/extract/domain"
	"penprint/internal/services/extract/service"
)

// Ports exposed by the extract module
type Ports struct {
	Runner domain.RunnerPort
}

// ExtraSinks are optional additional destinations fanned out alongside the
// CSV tables; wire them in via modkit.WithPorts
type ExtraSinks struct {
	Meta     domain.MetaSink
	Features domain.FeatureSink
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new extract module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("extract"),
	}, opts...)...)

	// Merge config + overrides
	cfg := FromConfig(deps.Cfg)
	if overrides.Source != "" {
		cfg.Source = overrides.Source
	}
	if len(overrides.Forums) != 0 {
		cfg.Forums = overrides.Forums
	}
	if overrides.FuncWords != "" {
		cfg.FuncWords = overrides.FuncWords
	}
	if overrides.MetaPath != "" {
		cfg.MetaPath = overrides.MetaPath
	}
	if overrides.FeatPath != "" {
		cfg.FeatPath = overrides.FeatPath
	}
	// bool override wins (defaults false if caller didn't set)
	cfg.Strict = cfg.Strict || overrides.Strict

	if cfg.Source == "" {
		panic("extract module: source archive path is required")
	}

	// Function word list: embedded default unless a path was given
	words := funcwords.Default()
	if cfg.FuncWords != "" {
		loaded, err := funcwords.Load(cfg.FuncWords)
		if err != nil {
			panic(err)
		}
		words = loaded
	}

	var (
		meta  domain.MetaSink    = csvsink.NewMeta(cfg.MetaPath)
		feats domain.FeatureSink = csvsink.NewFeatures(cfg.FeatPath)
	)
	if extra, ok := b.Ports.(ExtraSinks); ok {
		if extra.Meta != nil {
			meta = teeMeta{sinks: []domain.MetaSink{meta, extra.Meta}}
		}
		if extra.Features != nil {
			feats = teeFeatures{sinks: []domain.FeatureSink{feats, extra.Features}}
		}
	}

	runner := service.New(
		dump.NewSource(cfg.Source),
		meta,
		feats,
		words,
		service.Config{
			Forums: cfg.Forums,
			Strict: cfg.Strict,
		},
	)

	m := &Module{deps: deps}
	m.ports = Ports{Runner: runner}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "extract" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

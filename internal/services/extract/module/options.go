package module

import "penprint/internal/platform/config"

// Options holds configuration settings for the extract module
type Options struct {
	Source    string   // archive path
	Forums    []string // forum allowlist, empty = all
	FuncWords string   // function word list path, empty = embedded default
	MetaPath  string   // metadata table output
	FeatPath  string   // feature table output
	Strict    bool     // abort on the first malformed line
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	ex := cfg.Prefix("CORE_EXTRACT_")
	return Options{
		Source:    ex.MayString("SOURCE", ""),
		Forums:    ex.MayCSV("FORUMS", nil),
		FuncWords: ex.MayString("FUNCWORDS", ""),
		MetaPath:  ex.MayString("META", "meta.csv"),
		FeatPath:  ex.MayString("FEATURES", "features.csv"),
		Strict:    ex.MayBool("STRICT", false),
	}
}

// CHOptions configures the optional ClickHouse sink
type CHOptions struct {
	Enabled bool
	DBURL   string
}

// CHFromConfig extracts CHOptions from the given config.Conf
func CHFromConfig(cfg config.Conf) CHOptions {
	ch := cfg.Prefix("SINK_CLICKHOUSE_")
	return CHOptions{
		Enabled: ch.MayBool("ENABLED", false),
		DBURL:   ch.MayString("DBURL", ""),
	}
}

package chsink

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"penprint/internal/services/extract/domain"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.defaults()

	if cfg.MetaTable != "penprint_meta" || cfg.FeatureTable != "penprint_features" || cfg.RunsTable != "penprint_runs" {
		t.Fatalf("unexpected table defaults: %+v", cfg)
	}
	if cfg.BatchSize != defaultBatchSize {
		t.Fatalf("batch size = %d, want %d", cfg.BatchSize, defaultBatchSize)
	}
	if cfg.RunID == uuid.Nil {
		t.Fatal("defaults must assign a run id")
	}

	keep := Config{MetaTable: "m", FeatureTable: "f", RunsTable: "r", BatchSize: 5, RunID: uuid.New()}
	want := keep
	keep.defaults()
	if keep != want {
		t.Fatalf("explicit settings must survive defaults: %+v", keep)
	}
}

func TestCountValues_SplitsYulesK(t *testing.T) {
	row := domain.FeatureRow{
		"length_words": 4,
		"fw_the":       3,
		"yules_k":      3750.5,
	}
	vals := countValues(row)

	if _, ok := vals["yules_k"]; ok {
		t.Fatal("yules_k has its own column and must not land in the map")
	}
	if vals["length_words"] != 4 || vals["fw_the"] != 3 {
		t.Fatalf("count values mismatch: %v", vals)
	}
}

func TestDDL_TargetsConfiguredTables(t *testing.T) {
	tests := []struct {
		ddl  string
		cols []string
	}{
		{metaDDL("m1"), []string{"m1", "run_id UUID", "seq UInt64", "author String", "created_utc Int64"}},
		{featureDDL("f1"), []string{"f1", "yules_k Float64", "Map(String, Int64)"}},
		{runsDDL("r1"), []string{"r1", "complete UInt8", "dest_table String"}},
	}
	for _, tt := range tests {
		if !strings.HasPrefix(tt.ddl, "CREATE TABLE IF NOT EXISTS ") {
			t.Fatalf("ddl must be idempotent: %q", tt.ddl)
		}
		for _, c := range tt.cols {
			if !strings.Contains(tt.ddl, c) {
				t.Fatalf("ddl missing %q:\n%s", c, tt.ddl)
			}
		}
	}
}

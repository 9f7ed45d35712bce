package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stl2scc/internal/config"
	"stl2scc/internal/convert"
	"stl2scc/internal/scc"
	"stl2scc/internal/stl"
	"stl2scc/internal/textutil"
	"stl2scc/internal/timecode"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "stl2scc", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".local", "share", "stl2scc", "logs"); cfg.Paths.LogDir != want {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "stl2scc", "history.db"); cfg.Paths.HistoryDB != want {
		t.Fatalf("unexpected history db: got %q want %q", cfg.Paths.HistoryDB, want)
	}

	opts, err := cfg.ConvertOptions()
	if err != nil {
		t.Fatalf("ConvertOptions: %v", err)
	}
	if opts.SourceRate != timecode.Rate25 || opts.TargetRate != timecode.Rate2997 {
		t.Fatalf("unexpected rates %v -> %v", opts.SourceRate, opts.TargetRate)
	}
	if opts.CodePage != textutil.Latin1 || opts.AutoCodePage || opts.AutoSourceRate {
		t.Fatalf("unexpected code page settings %+v", opts)
	}
	if opts.MaxChars != 31 || opts.Style != timecode.NonDrop || !opts.DoubleControls {
		t.Fatalf("unexpected output settings %+v", opts)
	}
	if opts.LenientHeader || opts.Layout.Name != stl.EBU.Name || opts.OffsetMode != convert.OffsetNone {
		t.Fatalf("unexpected input settings %+v", opts)
	}
	if cfg.Batch.Workers != 4 || cfg.Logging.Format != "console" || cfg.Logging.RetentionDays != 30 {
		t.Fatalf("unexpected ambient defaults %+v", cfg)
	}
}

func TestSampleConfigLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution %q exists=%v", resolved, exists)
	}
	def := config.Default()
	if cfg.Output.FrameRate != def.Output.FrameRate || cfg.Input.Layout != def.Input.Layout {
		t.Fatalf("sample diverges from defaults: %+v", cfg)
	}
	if cfg.Sanitize.Artifacts["\u008a"] != " " {
		t.Fatalf("sample artifacts not decoded: %q", cfg.Sanitize.Artifacts)
	}
}

func TestLoadResolvesAutoAndOffsets(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
[input]
code_page = "AUTO"
frame_rate = "auto"
timecode_encoding = "bcd"
layout = "legacy"
strict_header = false

[output]
frame_rate = "30000/1001"
separator_style = "drop"
alignment = "center"
start_offset = "10:00:00:00"
clear_at_end = true
extension = "cc"
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	opts, err := cfg.ConvertOptions()
	if err != nil {
		t.Fatalf("ConvertOptions: %v", err)
	}
	if !opts.AutoCodePage || !opts.AutoSourceRate {
		t.Fatalf("expected auto settings, got %+v", opts)
	}
	if opts.TimecodeEncoding != timecode.BCD || opts.Layout.Name != "legacy" || !opts.LenientHeader {
		t.Fatalf("unexpected input options %+v", opts)
	}
	if opts.Style != timecode.DropStyle || opts.Alignment != scc.AlignCenter || !opts.ClearAtEnd {
		t.Fatalf("unexpected output options %+v", opts)
	}
	if opts.OffsetMode != convert.OffsetFixed || opts.Offset.String() != "10:00:00:00" {
		t.Fatalf("unexpected offset %v %s", opts.OffsetMode, opts.Offset)
	}
	if cfg.Output.Extension != ".cc" {
		t.Fatalf("extension = %q", cfg.Output.Extension)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tests := []struct {
		name string
		body string
		want string
	}{
		{"code page", "[input]\ncode_page = \"ebcdic\"\n", "input.code_page"},
		{"source rate", "[input]\nframe_rate = \"fast\"\n", "input.frame_rate"},
		{"encoding", "[input]\ntimecode_encoding = \"hex\"\n", "input.timecode_encoding"},
		{"layout", "[input]\nlayout = \"dvb\"\n", "input.layout"},
		{"target rate", "[output]\nframe_rate = \"0\"\n", "output.frame_rate"},
		{"style", "[output]\nseparator_style = \"comma\"\n", "output.separator_style"},
		{"alignment", "[output]\nalignment = \"right\"\n", "output.alignment"},
		{"max chars", "[output]\nmax_chars_per_line = 40\n", "output.max_chars_per_line"},
		{"offset", "[output]\nstart_offset = \"later\"\n", "output.start_offset"},
		{"code table", "[output]\ncode_table = \"/nonexistent/table.yaml\"\n", "output.code_table"},
		{"artifact", "[sanitize.artifacts]\n\"ab\" = \"\"\n", "sanitize.artifacts"},
		{"log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"log level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"unknown key", "[output]\ncolour = \"red\"\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := config.Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestArtifactsMergeOverDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Sanitize.Artifacts = map[string]string{
		"ÿ": "keep",
		"¤": " ",
	}
	got := cfg.Artifacts()
	if _, ok := got["ÿ"]; ok {
		t.Fatal("expected keep to remove the default entry")
	}
	if got["¤"] != " " || got["\u008f"] != "" {
		t.Fatalf("unexpected merged table %q", got)
	}
	if _, ok := got["\u008f"]; !ok {
		t.Fatal("expected defaults to survive the merge")
	}
}

func TestLoadCodeTable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	table := filepath.Join(dir, "house.yaml")
	if err := os.WriteFile(table, []byte("name: house\n"), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	cfg, _, _, err := config.Load(writeConfig(t, "[output]\ncode_table = \""+filepath.ToSlash(table)+"\"\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	opts, err := cfg.ConvertOptions()
	if err != nil {
		t.Fatalf("ConvertOptions: %v", err)
	}
	if opts.Table == nil || opts.Table.Name != "house" {
		t.Fatalf("code table not loaded: %+v", opts.Table)
	}
}

func TestEncodeIncludesSections(t *testing.T) {
	cfg := config.Default()
	out, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, section := range []string{"[input]", "[output]", "[batch]", "[paths]", "[logging]"} {
		if !strings.Contains(out, section) {
			t.Fatalf("encoded config missing %s:\n%s", section, out)
		}
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.HistoryDB = filepath.Join(base, "state", "history.db")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.Paths.HistoryDB)} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

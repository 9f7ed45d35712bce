package testsupport

import (
	"path/filepath"
	"testing"

	"stl2scc/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "state", "history.db")
	cfgVal.Logging.RetentionDays = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCodeTable writes a YAML code table under the base directory and points
// the output section at it.
func WithCodeTable(body string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "table.yaml")
		WriteFile(b.t, path, []byte(body))
		b.cfg.Output.CodeTable = path
	}
}

// WithInput overrides the input code page and frame rate.
func WithInput(codePage, frameRate string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Input.CodePage = codePage
		b.cfg.Input.FrameRate = frameRate
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}

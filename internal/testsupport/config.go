package testsupport

import (
	"path/filepath"
	"testing"

	"sweeper/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test
// and a stub engine that exits 0. It applies any provided options and creates
// the directory tree.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = base
	cfgVal.Paths.IncomingDir = filepath.Join(base, "incoming")
	cfgVal.Paths.QuarantineDir = filepath.Join(base, "failed")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Stability.SettleSeconds = 1
	cfgVal.History.Path = filepath.Join(base, "logs", "history.db")

	engineDir := filepath.Join(base, "engine")
	cfgVal.Engine.Interpreter = "/bin/sh"
	cfgVal.Engine.Script = WriteStubEngine(t, engineDir, 0)
	cfgVal.Engine.Root = engineDir

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	return builder.cfg
}

// WithEngineExitCode replaces the stub engine with one exiting the given code.
func WithEngineExitCode(code int) ConfigOption {
	return func(b *configBuilder) {
		engineDir := filepath.Join(b.baseDir, "engine")
		b.cfg.Engine.Script = WriteStubEngine(b.t, engineDir, code)
	}
}

// WithEngineScript points the config at a caller-provided engine script.
func WithEngineScript(script string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Engine.Script = script
		b.cfg.Engine.Root = filepath.Dir(script)
	}
}

// WithSoftExitCodes overrides the soft exit code list.
func WithSoftExitCodes(codes ...int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Engine.SoftExitCodes = codes
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Paths.DataDir
}

package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"sweeper/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[paths]
data_dir = "`+t.TempDir()+`"

[engine]
script = "/opt/engine/process_csv.py"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Engine.Interpreter != "python3" {
		t.Fatalf("unexpected interpreter: %q", cfg.Engine.Interpreter)
	}
	if !slices.Equal(cfg.Engine.SoftExitCodes, []int{100, 101}) {
		t.Fatalf("unexpected soft exit codes: %v", cfg.Engine.SoftExitCodes)
	}
	if cfg.Stability.SettleSeconds != 10 {
		t.Fatalf("unexpected settle seconds: %d", cfg.Stability.SettleSeconds)
	}
	if cfg.Engine.Root != "/opt/engine" {
		t.Fatalf("engine root not derived from script: %q", cfg.Engine.Root)
	}
}

func TestLoadDerivesDirectories(t *testing.T) {
	base := t.TempDir()
	path := writeConfig(t, `
[paths]
data_dir = "`+base+`"

[engine]
script = "/opt/engine/process_csv.py"
`)

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Paths.IncomingDir != filepath.Join(base, "incoming") {
		t.Fatalf("unexpected incoming dir: %q", cfg.Paths.IncomingDir)
	}
	if cfg.Paths.QuarantineDir != filepath.Join(base, "failed") {
		t.Fatalf("unexpected quarantine dir: %q", cfg.Paths.QuarantineDir)
	}
	if cfg.Paths.LogDir != filepath.Join(base, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.LockPath() != filepath.Join(base, "logs", "sweeper.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
	if cfg.HistoryPath() != filepath.Join(base, "logs", "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}
}

func TestLoadRequiresEngineScript(t *testing.T) {
	path := writeConfig(t, `
[paths]
data_dir = "`+t.TempDir()+`"
`)

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error when engine.script missing")
	}
}

func TestValidateRejectsZeroSoftCode(t *testing.T) {
	path := writeConfig(t, `
[engine]
script = "/opt/engine/process_csv.py"
soft_exit_codes = [0]
`)

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for soft exit code 0")
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	path := writeConfig(t, `
[engine]
script = "/opt/engine/process_csv.py"

[logging]
format = "xml"
`)

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	path := writeConfig(t, `
[paths]
data_dir = "`+base+`"

[engine]
script = "/opt/engine/process_csv.py"
`)

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.IncomingDir, cfg.Paths.QuarantineDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %q not created: %v", dir, err)
		}
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error when overwriting existing config")
	}
}

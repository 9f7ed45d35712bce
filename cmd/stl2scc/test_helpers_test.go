package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stl2scc/internal/config"
	"stl2scc/internal/testsupport"
)

const helloLine = "00:00:05:00\t9420 9420 94ae 94ae 9470 9470 c845 4c4c 4f20 942c 942c 942f 942f"

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	inputDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "stl2scc", "config.toml")
	writeTestConfig(t, configPath, cfg)

	inputDir := filepath.Join(base, "input")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatalf("mkdir input: %v", err)
	}
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base, inputDir: inputDir}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nlog_dir = %q\nhistory_db = %q\n\n[logging]\nlevel = \"error\"\nretention_days = 0\n",
		cfg.Paths.LogDir,
		cfg.Paths.HistoryDB,
	)
	testsupport.WriteFile(t, path, []byte(content))
}

func (env *cliTestEnv) writeHello(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(env.inputDir, name)
	testsupport.WriteFile(t, path, testsupport.BuildSTL(testsupport.STLOptions{Title: "Pilot"}, testsupport.STLRecord{
		Start: [4]byte{0, 0, 5, 0},
		End:   [4]byte{0, 0, 7, 0},
		Text:  []byte("HELLO"),
	}))
	return path
}

func (env *cliTestEnv) writeEmpty(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(env.inputDir, name)
	testsupport.WriteFile(t, path, testsupport.BuildSTL(testsupport.STLOptions{}))
	return path
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

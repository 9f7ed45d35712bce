package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stl2scc/internal/history"
)

func TestConvertWritesSiblingSCC(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeHello(t, "episode.stl")

	out, _, err := runCLI(t, []string{"convert", input}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	output := filepath.Join(env.inputDir, "episode.scc")
	requireContains(t, out, "Wrote 1 captions to "+output)
	if got, want := readFile(t, output), "Scenarist_SCC V1.0\n\n"+helloLine+"\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}

	out, _, err = runCLI(t, []string{"history", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	var entries []history.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	if len(entries) != 1 || entries[0].Status != history.StatusConverted || entries[0].OutputPath != output {
		t.Fatalf("unexpected history: %#v", entries)
	}
}

func TestConvertToStdout(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeHello(t, "episode.stl")

	out, _, err := runCLI(t, []string{"convert", input, "-o", "-", "--separator-style", "drop"}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Scenarist_SCC V1.0\n\n00:00:05;00\t")
	if _, err := os.Stat(filepath.Join(env.inputDir, "episode.scc")); !os.IsNotExist(err) {
		t.Fatalf("expected no sibling file, stat err = %v", err)
	}
}

func TestConvertRefusesEmptyWithoutFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeEmpty(t, "blank.stl")
	output := filepath.Join(env.inputDir, "blank.scc")

	_, _, err := runCLI(t, []string{"convert", input}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--allow-empty") {
		t.Fatalf("expected --allow-empty hint, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output file, stat err = %v", statErr)
	}

	if _, _, err := runCLI(t, []string{"convert", input, "--allow-empty"}, env.configPath); err != nil {
		t.Fatalf("convert --allow-empty: %v", err)
	}
	if got := readFile(t, output); got != "Scenarist_SCC V1.0\n\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestConvertRejectsInvalidHeader(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.inputDir, "broken.stl")
	if err := os.WriteFile(input, []byte("not an stl file"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	_, _, err := runCLI(t, []string{"convert", input}, env.configPath)
	if err == nil {
		t.Fatal("expected error for invalid header")
	}

	out, _, err := runCLI(t, []string{"history", "list", "--status", "failed", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	var entries []history.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(entries) != 1 || entries[0].SourcePath != input {
		t.Fatalf("expected failed entry for %s, got %#v", input, entries)
	}
}

func TestConvertRejectsBadFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeHello(t, "episode.stl")

	_, _, err := runCLI(t, []string{"convert", input, "--target-rate", "fast"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "output.frame_rate") {
		t.Fatalf("expected output.frame_rate error, got %v", err)
	}
}

func TestOutputPathFor(t *testing.T) {
	cases := []struct {
		input, dir, want string
	}{
		{"/in/show.stl", "", "/in/show.scc"},
		{"/in/show.STL", "/out", "/out/show.scc"},
		{"/in/a:b?.stl", "/out", "/out/a-b.scc"},
		{"/in/.stl", "/out", "/out/captions.scc"},
	}
	for _, tc := range cases {
		if got := outputPathFor(tc.input, tc.dir, ".scc"); got != tc.want {
			t.Errorf("outputPathFor(%q, %q) = %q, want %q", tc.input, tc.dir, got, tc.want)
		}
	}
}

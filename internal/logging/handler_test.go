package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewFanoutHandlerCollapses(t *testing.T) {
	if _, ok := newFanoutHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every sink is nil")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := newFanoutHandler(nil, inner); h != inner {
		t.Fatal("expected single sink to be returned unwrapped")
	}
}

func TestFanoutHandlerRespectsSinkLevels(t *testing.T) {
	var info, debug bytes.Buffer
	h := newFanoutHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected fanout enabled when any sink accepts the level")
	}

	logger := slog.New(h).With("k", "v")
	logger.Debug("only debug sink")
	logger.Info("both sinks")

	if strings.Contains(info.String(), "only debug sink") {
		t.Fatalf("info sink received debug record: %q", info.String())
	}
	if !strings.Contains(debug.String(), "only debug sink") || !strings.Contains(debug.String(), "both sinks") {
		t.Fatalf("debug sink missing records: %q", debug.String())
	}
	if !strings.Contains(info.String(), `"k":"v"`) {
		t.Fatalf("expected WithAttrs to reach every sink: %q", info.String())
	}
}

func TestPrettyHandlerGroupsAndQuoting(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))
	logger.WithGroup("header").Info("parsed", "title", "line\nbreak", "rate", "25")

	out := buf.String()
	if !strings.Contains(out, "    - header.title: \"line\\nbreak\"\n") {
		t.Fatalf("expected quoted grouped field, got %q", out)
	}
	if !strings.Contains(out, "    - header.rate: 25\n") {
		t.Fatalf("expected grouped field, got %q", out)
	}
}

func TestDedupeKVsByKeyKeepsLastValue(t *testing.T) {
	got := dedupeKVsByKey([]kv{
		{key: "a", value: slog.IntValue(1)},
		{key: "b", value: slog.IntValue(2)},
		{key: "a", value: slog.IntValue(3)},
	})
	if len(got) != 2 || got[0].key != "a" || got[0].value.Int64() != 3 {
		t.Fatalf("unexpected dedupe result: %#v", got)
	}
}

package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"stl2scc/internal/convert"
	"stl2scc/internal/logging"
	"stl2scc/internal/testsupport"
	"stl2scc/internal/timecode"
)

func TestObserverLogsConversionEvents(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	data := testsupport.BuildSTL(testsupport.STLOptions{Title: "Pilot"},
		testsupport.STLRecord{Start: [4]byte{0xff, 0, 0, 0}, Text: []byte("BAD")},
		testsupport.STLRecord{Start: [4]byte{0, 0, 1, 0}, End: [4]byte{0, 0, 2, 0}, Comment: true, Text: []byte("note")},
		testsupport.STLRecord{Start: [4]byte{0, 0, 5, 0}, End: [4]byte{0, 0, 7, 0}, Text: []byte("HELLO")},
	)
	opts := convert.DefaultOptions()
	opts.TimecodeEncoding = timecode.BCD
	opts.Observer = logging.NewObserver(logger)

	if _, err := convert.Convert(context.Background(), data, opts); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`"msg":"stl header parsed"`,
		`"title":"Pilot"`,
		`"msg":"record skipped"`,
		`"event_type":"record_skipped"`,
		`"reason":"comment"`,
		`"text":"HELLO"`,
		`"msg":"stl parsed"`,
		`"captions":1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log output:\n%s", want, out)
		}
	}
}

func TestObserverSkipsCaptionsAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	opts := convert.DefaultOptions()
	opts.Observer = logging.NewObserver(logger)
	data := testsupport.BuildSTL(testsupport.STLOptions{},
		testsupport.STLRecord{Start: [4]byte{0, 0, 5, 0}, End: [4]byte{0, 0, 7, 0}, Text: []byte("HELLO")},
	)
	if _, err := convert.Convert(context.Background(), data, opts); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if strings.Contains(buf.String(), `"text":"HELLO"`) {
		t.Fatalf("caption logged at info level: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"msg":"stl parsed"`) {
		t.Fatalf("expected summary line: %s", buf.String())
	}
}

package convert_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"stl2scc/internal/caption"
	"stl2scc/internal/convert"
	"stl2scc/internal/stl"
	"stl2scc/internal/testsupport"
	"stl2scc/internal/textutil"
	"stl2scc/internal/timecode"
)

const helloLine = "00:00:05:00\t9420 9420 94ae 94ae 9470 9470 c845 4c4c 4f20 942c 942c 942f 942f"

func helloRecord() testsupport.STLRecord {
	return testsupport.STLRecord{
		Start: [4]byte{0, 0, 5, 0},
		End:   [4]byte{0, 0, 7, 0},
		Text:  []byte("HELLO"),
	}
}

func TestConvertHello(t *testing.T) {
	data := testsupport.BuildSTL(testsupport.STLOptions{}, helloRecord())

	res, err := convert.Convert(context.Background(), data, convert.DefaultOptions())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := "Scenarist_SCC V1.0\n\n" + helloLine + "\n"
	if res.Output != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", res.Output, want)
	}
	if res.Records != 1 || res.Skipped != 0 || res.Discarded != 0 || len(res.Captions) != 1 {
		t.Fatalf("unexpected counts %+v", res)
	}
}

func TestConvertInvalidHeader(t *testing.T) {
	tests := map[string][]byte{
		"empty":     nil,
		"short":     []byte("STL25.01"),
		"signature": testsupport.BuildSTL(testsupport.STLOptions{DiskFormatCode: "ABC25.01"}, helloRecord()),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := convert.Convert(context.Background(), data, convert.DefaultOptions())
			if !errors.Is(err, convert.ErrInvalidHeader) {
				t.Fatalf("expected ErrInvalidHeader, got %v", err)
			}
			if res != nil {
				t.Fatalf("expected no result, got %+v", res)
			}
		})
	}
}

func TestConvertLenientHeader(t *testing.T) {
	data := testsupport.BuildSTL(testsupport.STLOptions{DiskFormatCode: "ABC25.01"}, helloRecord())
	opts := convert.DefaultOptions()
	opts.LenientHeader = true

	res, err := convert.Convert(context.Background(), data, opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Header.SignatureMatched || len(res.Warnings) == 0 {
		t.Fatalf("expected a signature warning, got %+v", res.Warnings)
	}
}

func TestConvertDiscardsEmptyRecords(t *testing.T) {
	empty := testsupport.STLRecord{Text: []byte{0x8f, 0x8a, 0x00}}
	comment := helloRecord()
	comment.Comment = true

	data := testsupport.BuildSTL(testsupport.STLOptions{}, empty, helloRecord(), comment)
	res, err := convert.Convert(context.Background(), data, convert.DefaultOptions())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Discarded != 2 || len(res.Captions) != 1 || res.Records != 3 {
		t.Fatalf("unexpected counts %+v", res)
	}
	if res.Captions[0].Index != 1 {
		t.Fatalf("kept wrong record %d", res.Captions[0].Index)
	}
}

func TestConvertEmptyResult(t *testing.T) {
	data := testsupport.BuildSTL(testsupport.STLOptions{}, testsupport.STLRecord{Text: []byte("   ")})

	res, err := convert.Convert(context.Background(), data, convert.DefaultOptions())
	if !errors.Is(err, convert.ErrEmptyResult) || !convert.IsEmpty(err) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
	if res == nil || res.Output != "Scenarist_SCC V1.0\n\n" {
		t.Fatalf("expected empty document, got %+v", res)
	}
}

func TestConvertRollUpDirective(t *testing.T) {
	rec := helloRecord()
	rec.Text = []byte("{RU2}HELLO")
	data := testsupport.BuildSTL(testsupport.STLOptions{}, rec)

	res, err := convert.Convert(context.Background(), data, convert.DefaultOptions())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Captions[0].Mode != caption.RollUp2 {
		t.Fatalf("Mode = %v", res.Captions[0].Mode)
	}
	if !strings.Contains(res.Output, "00:00:05:00\t9425 9425 94ad 94ad 9470 9470 c845") {
		t.Fatalf("unexpected output %s", res.Output)
	}
}

func TestConvertSkipsMalformedTimecodes(t *testing.T) {
	bad := testsupport.STLRecord{Start: [4]byte{0xff, 0, 0, 0}, Text: []byte("BAD")}
	good := testsupport.STLRecord{Start: [4]byte{0x00, 0x00, 0x05, 0x00}, End: [4]byte{0x00, 0x00, 0x07, 0x00}, Text: []byte("HELLO")}
	data := testsupport.BuildSTL(testsupport.STLOptions{}, bad, good)
	opts := convert.DefaultOptions()
	opts.TimecodeEncoding = timecode.BCD

	res, err := convert.Convert(context.Background(), data, opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Skipped != 1 || len(res.RecordErrors) != 1 {
		t.Fatalf("Skipped = %d, errors = %v", res.Skipped, res.RecordErrors)
	}
	if !errors.Is(res.RecordErrors[0], timecode.ErrFormat) || res.RecordErrors[0].Index != 0 {
		t.Fatalf("unexpected record error %v", res.RecordErrors[0])
	}
	if !strings.HasSuffix(res.Output, helloLine+"\n") {
		t.Fatalf("unexpected output %s", res.Output)
	}
}

func TestConvertHeaderDerivedSettings(t *testing.T) {
	data := testsupport.BuildSTL(testsupport.STLOptions{
		DiskFormatCode: "STL30.01",
		StartOfProgram: "10000000",
	}, testsupport.STLRecord{Start: [4]byte{0x10, 0x00, 0x05, 0x00}, End: [4]byte{0x10, 0x00, 0x06, 0x00}, Text: []byte("HI")})
	opts := convert.DefaultOptions()
	opts.AutoSourceRate = true
	opts.AutoCodePage = true
	opts.TimecodeEncoding = timecode.BCD
	opts.OffsetMode = convert.OffsetHeader

	res, err := convert.Convert(context.Background(), data, opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.SourceRate != timecode.Rate2997 || res.CodePage != "cp850" {
		t.Fatalf("resolved %v %v", res.SourceRate, res.CodePage)
	}
	if got := res.Captions[0].Start.String(); got != "00:00:05:00" {
		t.Fatalf("offset start = %s", got)
	}
	if got := res.Captions[0].Text(); got != "HI" {
		t.Fatalf("caption text = %q, want HI", got)
	}
}

func TestConvertHeaderCodePageStripsEBUPadding(t *testing.T) {
	data := testsupport.BuildSTL(testsupport.STLOptions{}, testsupport.STLRecord{
		Start: [4]byte{0, 0, 5, 0},
		End:   [4]byte{0, 0, 7, 0},
		Text:  []byte("HELLO\x8aWORLD"),
	}, testsupport.STLRecord{
		Start: [4]byte{0, 0, 8, 0},
		End:   [4]byte{0, 0, 9, 0},
	})
	opts := convert.DefaultOptions()
	opts.AutoCodePage = true

	res, err := convert.Convert(context.Background(), data, opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.CodePage != textutil.CP850 {
		t.Fatalf("code page = %s, want cp850", res.CodePage)
	}
	if len(res.Captions) != 1 || res.Discarded != 1 {
		t.Fatalf("captions=%d discarded=%d, want 1 and 1", len(res.Captions), res.Discarded)
	}
	if got := res.Captions[0].Text(); got != "HELLO WORLD" {
		t.Fatalf("caption text = %q, want %q", got, "HELLO WORLD")
	}
}

func TestConvertTrailingBlock(t *testing.T) {
	data := testsupport.BuildSTL(testsupport.STLOptions{Trailing: 40}, helloRecord())

	res, err := convert.Convert(context.Background(), data, convert.DefaultOptions())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Trailing != 40 || res.Records != 1 || len(res.Warnings) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestConvertHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	data := testsupport.BuildSTL(testsupport.STLOptions{}, helloRecord())
	if _, err := convert.Convert(ctx, data, convert.DefaultOptions()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestConvertRejectsBadLayout(t *testing.T) {
	layout := stl.EBU
	layout.TextOffset = 500
	opts := convert.DefaultOptions()
	opts.Layout = layout
	data := testsupport.BuildSTL(testsupport.STLOptions{}, helloRecord())
	if _, err := convert.Convert(context.Background(), data, opts); !errors.Is(err, convert.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	headers  int
	captions int
	discards []string
	skips    int
	done     int
}

func (o *recordingObserver) OnHeader(convert.HeaderInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.headers++
}

func (o *recordingObserver) OnCaption(caption.Caption) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.captions++
}

func (o *recordingObserver) OnDiscard(_ stl.Record, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.discards = append(o.discards, reason)
}

func (o *recordingObserver) OnSkip(*convert.RecordError) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.skips++
}

func (o *recordingObserver) OnDone(*convert.Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.done++
}

func TestConvertNotifiesObserver(t *testing.T) {
	obs := &recordingObserver{}
	opts := convert.DefaultOptions()
	opts.Observer = obs
	data := testsupport.BuildSTL(testsupport.STLOptions{}, helloRecord(), testsupport.STLRecord{Text: []byte{0x8f}})

	if _, err := convert.Convert(context.Background(), data, opts); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if obs.headers != 1 || obs.captions != 1 || obs.done != 1 || obs.skips != 0 {
		t.Fatalf("unexpected events %+v", obs)
	}
	if len(obs.discards) != 1 || obs.discards[0] != "empty text" {
		t.Fatalf("discards = %v", obs.discards)
	}
}

func TestBatchKeepsJobOrder(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.stl")
	bad := filepath.Join(dir, "bad.stl")
	empty := filepath.Join(dir, "empty.stl")
	testsupport.WriteFile(t, good, testsupport.BuildSTL(testsupport.STLOptions{}, helloRecord()))
	testsupport.WriteFile(t, bad, []byte("not an stl file"))
	testsupport.WriteFile(t, empty, testsupport.BuildSTL(testsupport.STLOptions{}))

	jobs := []convert.Job{{Path: good}, {Path: bad}, {Path: empty}, {Path: filepath.Join(dir, "missing.stl")}}
	outcomes := convert.Batch(context.Background(), jobs, 2, convert.DefaultOptions())
	if len(outcomes) != len(jobs) {
		t.Fatalf("got %d outcomes", len(outcomes))
	}
	for i, out := range outcomes {
		if out.Job.Path != jobs[i].Path {
			t.Fatalf("outcome %d is for %s", i, out.Job.Path)
		}
	}
	if outcomes[0].Err != nil || !strings.Contains(outcomes[0].Result.Output, helloLine) {
		t.Fatalf("good file: %v", outcomes[0].Err)
	}
	if !errors.Is(outcomes[1].Err, convert.ErrInvalidHeader) {
		t.Fatalf("bad file: %v", outcomes[1].Err)
	}
	if !errors.Is(outcomes[2].Err, convert.ErrEmptyResult) || outcomes[2].Result == nil {
		t.Fatalf("empty file: %v", outcomes[2].Err)
	}
	if outcomes[3].Err == nil {
		t.Fatal("expected read error for missing file")
	}
}

func TestBatchConvertsJobDataInsteadOfRereading(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "episode.stl")
	hashed := testsupport.BuildSTL(testsupport.STLOptions{}, helloRecord())
	// The file changes on disk after the caller read and hashed it.
	testsupport.WriteFile(t, path, []byte("rewritten after hashing"))

	outcomes := convert.Batch(context.Background(), []convert.Job{{Path: path, Data: hashed}}, 1, convert.DefaultOptions())
	if err := outcomes[0].Err; err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(outcomes[0].Result.Output, helloLine) {
		t.Fatalf("unexpected output %s", outcomes[0].Result.Output)
	}
}

func TestBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes := convert.Batch(ctx, []convert.Job{{Path: "a.stl"}, {Path: "b.stl"}}, 1, convert.DefaultOptions())
	for _, out := range outcomes {
		if out.Err == nil {
			t.Fatalf("expected error for %s", out.Job.Path)
		}
	}
}

func TestBatchWithProgressUsesJobObserver(t *testing.T) {
	dir := t.TempDir()
	paths := []string{filepath.Join(dir, "a.stl"), filepath.Join(dir, "b.stl"), filepath.Join(dir, "c.stl")}
	for _, p := range paths {
		testsupport.WriteFile(t, p, testsupport.BuildSTL(testsupport.STLOptions{}, helloRecord()))
	}
	shared := &recordingObserver{}
	own := &recordingObserver{}
	opts := convert.DefaultOptions()
	opts.Observer = shared
	jobs := []convert.Job{{Path: paths[0]}, {Path: paths[1], Observer: own}, {Path: paths[2]}}

	var seen []int
	outcomes := convert.BatchWithProgress(context.Background(), jobs, 2, opts, func(_ convert.Outcome, done, total int) {
		if total != len(jobs) {
			t.Errorf("total = %d", total)
		}
		seen = append(seen, done)
	})
	for i, out := range outcomes {
		if out.Err != nil {
			t.Fatalf("job %d: %v", i, out.Err)
		}
	}
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("progress calls = %v", seen)
	}
	if shared.done != 2 || own.done != 1 {
		t.Fatalf("shared done = %d, own done = %d", shared.done, own.done)
	}
}

package convert

import (
	"stl2scc/internal/caption"
	"stl2scc/internal/stl"
)

// Observer receives conversion events. Convert only emits events; it never
// writes output itself. Implementations used with Batch must be safe for
// concurrent use.
type Observer interface {
	// OnHeader is called once the header is parsed and the source rate and
	// code page are resolved.
	OnHeader(info HeaderInfo)
	// OnCaption is called for every caption kept, in file order.
	OnCaption(c caption.Caption)
	// OnDiscard is called for records with no displayable text.
	OnDiscard(rec stl.Record, reason string)
	// OnSkip is called for records whose timecodes could not be decoded.
	OnSkip(err *RecordError)
	// OnDone is called after encoding, including for empty results.
	OnDone(res *Result)
}

// HeaderInfo is the header plus the settings derived from it.
type HeaderInfo struct {
	Header     stl.Header
	SourceRate string
	CodePage   string
	Offset     string
}

type nopObserver struct{}

func (nopObserver) OnHeader(HeaderInfo) {}
func (nopObserver) OnCaption(caption.Caption) {}
func (nopObserver) OnDiscard(stl.Record, string) {}
func (nopObserver) OnSkip(*RecordError) {}
func (nopObserver) OnDone(*Result) {}

package document

// Source is the raw output of a format parser: plain extracted text plus
// intake metadata. The extraction engine never sees the original file.
type Source struct {
	Title string // Document title (from metadata or filename)
	Text  string // Full extracted text, pages joined with newlines
	Pages int    // Source page count (0 if N/A)
}

// Document is a normalized view of one resume. Immutable after
// normalization; owned by the pipeline invocation that built it.
type Document struct {
	Raw       string   // Original extracted text
	Lines     []string // Canonical lines, hyphen-wraps joined, original boundaries kept
	Sentences []string // Canonical sentences over whitespace-collapsed text
}

// Empty reports whether the document carries no extractable text.
func (d *Document) Empty() bool {
	return d == nil || (len(d.Lines) == 0 && len(d.Sentences) == 0)
}

// Reason classifies why a field resolved the way it did. Only the value
// surfaces to callers; the reason exists for logs and tests.
type Reason string

const (
	ReasonResolved        Reason = "resolved"
	ReasonNoCandidate     Reason = "no_candidate"
	ReasonLowConfidence   Reason = "low_confidence"
	ReasonCapabilityError Reason = "capability_error"
)

// ExtractionResult is the engine's per-field outcome.
// Value is "" when nothing acceptable was found; Confidence is set only
// for capability-backed resolutions.
type ExtractionResult struct {
	FieldKey   string
	Value      string
	Confidence float64
	Evidence   string
	Reason     Reason
}

// Row is the externally visible unit handed to tabular export.
// Every field is always populated; "" is the not-found marker.
type Row struct {
	SequenceNumber int    `json:"sequence_number"`
	Key            string `json:"key"`
	Value          string `json:"value"`
	Comment        string `json:"comment"`
}

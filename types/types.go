package types

import "context"

// Side identifies one of the two panes of a diff session.
type Side int

const (
	SideSource Side = iota
	SideTarget
)

// String returns the string representation of a Side for logging and RPC.
func (s Side) String() string {
	switch s {
	case SideSource:
		return "source"
	case SideTarget:
		return "target"
	default:
		return "unknown"
	}
}

// DiffKind classifies one aligned row. KindNone is the zero value and means
// the row is unchanged (or virtual on both sides).
type DiffKind int

const (
	KindNone DiffKind = iota
	KindInsert
	KindDelete
	KindModify
)

// String returns the string representation of a DiffKind for the UI layer.
func (k DiffKind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindModify:
		return "modify"
	case KindNone:
		return "none"
	default:
		return "unknown"
	}
}

// AlignedDiffPayload is the wire shape returned by the diff backend. Any
// field may be missing or shorter than declared; text.Normalize repairs it
// into a structurally valid model.
type AlignedDiffPayload struct {
	AlignedLineCount      int        `json:"aligned_line_count"`
	AlignedSourceLines    []string   `json:"aligned_source_lines"`
	AlignedTargetLines    []string   `json:"aligned_target_lines"`
	AlignedSourcePresent  []bool     `json:"aligned_source_present"`
	AlignedTargetPresent  []bool     `json:"aligned_target_present"`
	DiffLineNumbers       []int      `json:"diff_line_numbers"`
	SourceDiffLineNumbers []int      `json:"source_diff_line_numbers"`
	TargetDiffLineNumbers []int      `json:"target_diff_line_numbers"`
	AlignedDiffKinds      []DiffKind `json:"aligned_diff_kinds,omitempty"`
	SourceLineNumbers     []int      `json:"source_line_numbers_by_row,omitempty"`
	TargetLineNumbers     []int      `json:"target_line_numbers_by_row,omitempty"`

	// Legacy payloads carry only flat contents; presence is then assumed
	// concrete everywhere and differing lines are found positionally.
	SourceContent string `json:"source_content,omitempty"`
	TargetContent string `json:"target_content,omitempty"`
}

// PairMatch is the backend's answer to a matching-pair lookup. Offsets are
// rune offsets into the queried text. Line/column are optional; when zero
// the caller derives them from the offsets.
type PairMatch struct {
	LeftOffset  int `json:"left_offset"`
	RightOffset int `json:"right_offset"`
	LeftLine    int `json:"left_line,omitempty"`
	LeftColumn  int `json:"left_column,omitempty"`
	RightLine   int `json:"right_line,omitempty"`
	RightColumn int `json:"right_column,omitempty"`
}

// TextPatch is the minimal edit span between two versions of a document.
// StartChar/EndChar are rune offsets into the old text; the patch replaces
// [StartChar, EndChar) with NewText.
type TextPatch struct {
	StartChar int    `json:"start_char"`
	EndChar   int    `json:"end_char"`
	NewText   string `json:"new_text"`
}

// IsNoop reports whether the patch changes nothing.
func (p TextPatch) IsNoop() bool {
	return p.StartChar == p.EndChar && p.NewText == ""
}

// Position is a 1-based line/column pair in one pane's own numbering.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// NavigateTarget asks the host to move the caret and viewport.
type NavigateTarget struct {
	DocumentID string
	Line       int // 1-indexed
	Column     int // 1-indexed
	Length     int // highlight length in runes, 0 for a bare caret move
}

// DiffService is the contract with the external diff/search backend. All
// requests are idempotent reads except ApplyTextPatch; there is no explicit
// cancellation message, callers abandon stale responses client-side.
type DiffService interface {
	// ComputeLineDiff returns the aligned diff for a pair of documents.
	// Called once on session open and again on explicit refresh.
	ComputeLineDiff(ctx context.Context, sourceID, targetID string) (*AlignedDiffPayload, error)

	// FindMatchingPair locates the bracket/quote pair enclosing or adjacent
	// to the given rune offset. Returns (nil, nil) when there is no pair.
	FindMatchingPair(ctx context.Context, text string, offset int) (*PairMatch, error)

	// SearchAlignedRows returns the aligned-row indices whose text matches
	// the keyword on the side described by present.
	SearchAlignedRows(ctx context.Context, docID, keyword string, present []bool) ([]int, error)

	// ApplyTextPatch forwards a minimal edit to the document store and
	// returns the document's new line count.
	ApplyTextPatch(ctx context.Context, docID string, patch TextPatch) (int, error)
}

// Host is the callback surface the engine uses to talk to the surrounding
// application. Implemented over the editor RPC connection by the daemon.
type Host interface {
	// DocumentChanged notifies observers (outline, minimap, dirty flag)
	// that a patch was applied to the given document.
	DocumentChanged(docID string)

	// NavigateTo moves the caret/viewport for search and pair navigation.
	NavigateTo(t *NavigateTarget)

	// PatchFailed surfaces a rejected document edit to the user. Unlike
	// advisory failures this one must be visible: the edit is at risk.
	PatchFailed(docID string, err error)

	// SetScroll applies a mirrored scroll position to one pane.
	SetScroll(side Side, top float64)

	// ShowPairHighlight renders the two ends of a matched pair on a side.
	ShowPairHighlight(side Side, positions []Position)

	// ClearPairHighlight removes pair highlights from a side.
	ClearPairHighlight(side Side)
}

// BackendKind selects a DiffService implementation.
type BackendKind string

const (
	BackendHTTP  BackendKind = "http"
	BackendLocal BackendKind = "local"
)

// BackendConfig holds configuration for DiffService construction.
type BackendConfig struct {
	Kind      BackendKind
	URL       string
	APIKey    string
	TimeoutMs int
}

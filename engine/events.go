package engine

import "diffpane/types"

// EventType identifies an event in the engine's event loop.
type EventType string

// Editor-originated events arrive over RPC; backend-originated events are
// posted by the engine's own request goroutines.
const (
	EventSessionOpen EventType = "session_open"
	EventRefreshDiff EventType = "refresh_diff"

	EventTextEdited EventType = "text_edited"
	EventPatchFlush EventType = "patch_flush"
	EventPatchDone  EventType = "patch_done"
	EventPatchError EventType = "patch_error"

	EventCaretMoved       EventType = "caret_moved"
	EventSelectionChanged EventType = "selection_changed"
	EventBlur             EventType = "blur"
	EventPairReady        EventType = "pair_ready"
	EventPairError        EventType = "pair_error"

	EventSearchQuery EventType = "search_query"
	EventSearchNext  EventType = "search_next"
	EventSearchPrev  EventType = "search_prev"
	EventSearchReady EventType = "search_ready"
	EventSearchError EventType = "search_error"

	EventScrolled    EventType = "scrolled"
	EventWheel       EventType = "wheel"
	EventPointerDown EventType = "pointer_down"
	EventPointerUp   EventType = "pointer_up"
	EventPaneMetrics EventType = "pane_metrics"

	EventDiffReady EventType = "diff_ready"
	EventDiffError EventType = "diff_error"
)

// Event is one unit of work for the event loop.
type Event struct {
	Type EventType
	Data any
}

var eventTypeMap map[string]EventType

func init() {
	eventTypeMap = buildEventTypeMap()
}

func buildEventTypeMap() map[string]EventType {
	eventMap := make(map[string]EventType)

	allEventTypes := []EventType{
		EventSessionOpen,
		EventRefreshDiff,
		EventTextEdited,
		EventPatchFlush,
		EventPatchDone,
		EventPatchError,
		EventCaretMoved,
		EventSelectionChanged,
		EventBlur,
		EventPairReady,
		EventPairError,
		EventSearchQuery,
		EventSearchNext,
		EventSearchPrev,
		EventSearchReady,
		EventSearchError,
		EventScrolled,
		EventWheel,
		EventPointerDown,
		EventPointerUp,
		EventPaneMetrics,
		EventDiffReady,
		EventDiffError,
	}

	for _, eventType := range allEventTypes {
		eventMap[string(eventType)] = eventType
	}

	return eventMap
}

// EventTypeFromString converts an RPC event name to an EventType.
func EventTypeFromString(s string) EventType {
	if eventType, exists := eventTypeMap[s]; exists {
		return eventType
	}
	return ""
}

// SessionOpenData starts a diff session over two documents.
type SessionOpenData struct {
	SourceID   string
	TargetID   string
	SourceText string
	TargetText string
}

// TextEditedData carries one side's new aligned row array after an edit.
type TextEditedData struct {
	Side  types.Side
	Lines []string
}

// PatchFlushData asks the engine to forward a side's pending edit.
type PatchFlushData struct {
	Side types.Side
}

// patchDoneData reports the document store accepting a patch. Version is
// the pane version the patch was computed from.
type patchDoneData struct {
	Side         types.Side
	Version      int
	NewLineCount int
}

// patchErrorData reports the document store rejecting a patch.
type patchErrorData struct {
	Side types.Side
	Err  error
}

// CaretMovedData carries a caret move with a collapsed selection.
type CaretMovedData struct {
	Side types.Side
	Row  int // 1-indexed
	Col  int // 0-indexed rune column
}

// SelectionChangedData carries a selection in flat rune offsets.
type SelectionChangedData struct {
	Side  types.Side
	Start int
	End   int
}

// BlurData reports a pane losing focus.
type BlurData struct {
	Side types.Side
}

// pairReadyData is a pair-match response tagged with its request.
type pairReadyData struct {
	Side  types.Side
	Seq   int
	Text  string
	Match *types.PairMatch
}

// pairErrorData is a failed pair-match request.
type pairErrorData struct {
	Side types.Side
	Seq  int
	Err  error
}

// SearchQueryData sets a side's search keyword.
type SearchQueryData struct {
	Side          types.Side
	Keyword       string
	CaseSensitive bool
}

// SearchStepData advances a side's current match.
type SearchStepData struct {
	Side types.Side
}

// searchReadyData is a search response tagged with its request.
type searchReadyData struct {
	Side types.Side
	Seq  int
	Rows []int
}

// searchErrorData is a failed search request.
type searchErrorData struct {
	Side types.Side
	Seq  int
	Err  error
}

// ScrolledData reports a pane's scroll event.
type ScrolledData struct {
	Side types.Side
	Top  float64
}

// WheelData reports a wheel event on one pane.
type WheelData struct {
	Side  types.Side
	Delta float64
	Mode  int // 0 pixel, 1 line, 2 page
}

// PointerDownData marks a pane as the active drag side.
type PointerDownData struct {
	Side types.Side
}

// PaneMetricsData reports a pane's rendered extents in pixels.
type PaneMetricsData struct {
	Side           types.Side
	ContentHeight  float64
	ViewportHeight float64
}

// diffReadyData is an alignment response tagged with its request.
type diffReadyData struct {
	Seq     int
	Payload *types.AlignedDiffPayload
}

// diffErrorData is a failed alignment request.
type diffErrorData struct {
	Seq int
	Err error
}

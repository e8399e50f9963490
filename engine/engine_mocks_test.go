package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"diffpane/types"
)

// fakeService is a scriptable DiffService. Each hook runs on the request
// goroutine; unset hooks return zero values.
type fakeService struct {
	mu sync.Mutex

	computeFn func(sourceID, targetID string) (*types.AlignedDiffPayload, error)
	pairFn    func(content string, offset int) (*types.PairMatch, error)
	searchFn  func(docID, keyword string, present []bool) ([]int, error)
	patchFn   func(docID string, patch types.TextPatch) (int, error)

	pairCalls    int
	patchedWith  []types.TextPatch
	searchedWith []string
}

func (f *fakeService) ComputeLineDiff(ctx context.Context, sourceID, targetID string) (*types.AlignedDiffPayload, error) {
	f.mu.Lock()
	fn := f.computeFn
	f.mu.Unlock()
	if fn == nil {
		return &types.AlignedDiffPayload{}, nil
	}
	return fn(sourceID, targetID)
}

func (f *fakeService) FindMatchingPair(ctx context.Context, content string, offset int) (*types.PairMatch, error) {
	f.mu.Lock()
	f.pairCalls++
	fn := f.pairFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(content, offset)
}

func (f *fakeService) SearchAlignedRows(ctx context.Context, docID, keyword string, present []bool) ([]int, error) {
	f.mu.Lock()
	f.searchedWith = append(f.searchedWith, keyword)
	fn := f.searchFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(docID, keyword, present)
}

func (f *fakeService) ApplyTextPatch(ctx context.Context, docID string, patch types.TextPatch) (int, error) {
	f.mu.Lock()
	f.patchedWith = append(f.patchedWith, patch)
	fn := f.patchFn
	f.mu.Unlock()
	if fn == nil {
		return 1, nil
	}
	return fn(docID, patch)
}

func (f *fakeService) patches() []types.TextPatch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.TextPatch(nil), f.patchedWith...)
}

// recordingHost captures every callback the engine makes.
type recordingHost struct {
	mu sync.Mutex

	changedDocs  []string
	navigations  []*types.NavigateTarget
	patchErrors  []string
	scrollWrites []struct {
		Side types.Side
		Top  float64
	}
	shown   map[types.Side][]types.Position
	cleared map[types.Side]int
}

func newRecordingHost() *recordingHost {
	return &recordingHost{
		shown:   make(map[types.Side][]types.Position),
		cleared: make(map[types.Side]int),
	}
}

func (h *recordingHost) DocumentChanged(docID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.changedDocs = append(h.changedDocs, docID)
}

func (h *recordingHost) NavigateTo(t *types.NavigateTarget) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.navigations = append(h.navigations, t)
}

func (h *recordingHost) PatchFailed(docID string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.patchErrors = append(h.patchErrors, docID)
}

func (h *recordingHost) SetScroll(side types.Side, top float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scrollWrites = append(h.scrollWrites, struct {
		Side types.Side
		Top  float64
	}{side, top})
}

func (h *recordingHost) ShowPairHighlight(side types.Side, positions []types.Position) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shown[side] = positions
}

func (h *recordingHost) ClearPairHighlight(side types.Side) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleared[side]++
}

func (h *recordingHost) docChanges() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.changedDocs...)
}

func (h *recordingHost) lastShown(side types.Side) []types.Position {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shown[side]
}

// newTestEngine wires an engine to the fakes without starting the event
// loop; tests pump events through handleEvent themselves so every step is
// deterministic.
func newTestEngine(service *fakeService, host *recordingHost) *Engine {
	e := New(service, host, Config{
		RequestTimeout: 2 * time.Second,
		PatchDebounce:  time.Millisecond,
	})
	e.mainCtx, e.mainCancel = context.WithCancel(context.Background())
	return e
}

// pump waits for the next posted event and handles it inline.
func pump(t *testing.T, e *Engine) {
	t.Helper()
	select {
	case event := <-e.eventChan:
		e.handleEvent(event)
	case <-time.After(2 * time.Second):
		t.Fatal("no event arrived")
	}
}

// pumpType pumps events until one of the wanted type has been handled.
func pumpType(t *testing.T, e *Engine, want EventType) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-e.eventChan:
			e.handleEvent(event)
			if event.Type == want {
				return
			}
		case <-deadline:
			t.Fatalf("event %s never arrived", want)
		}
	}
}

// alignedPayload is the fixture most tests open a session over.
func alignedPayload() *types.AlignedDiffPayload {
	return &types.AlignedDiffPayload{
		AlignedLineCount:     4,
		AlignedSourceLines:   []string{"alpha", "", "gamma", "delta"},
		AlignedTargetLines:   []string{"alpha", "beta", "gamma", "DELTA"},
		AlignedSourcePresent: []bool{true, false, true, true},
		AlignedTargetPresent: []bool{true, true, true, true},
	}
}

func openSession(t *testing.T, e *Engine) {
	t.Helper()
	e.handleEvent(Event{Type: EventSessionOpen, Data: &SessionOpenData{
		SourceID:   "doc-src",
		TargetID:   "doc-tgt",
		SourceText: "alpha\ngamma\ndelta",
		TargetText: "alpha\nbeta\ngamma\nDELTA",
	}})
	pumpType(t, e, EventDiffReady)
}

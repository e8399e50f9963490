// Package engine is the view model of a dual-pane diff session. It owns
// the aligned diff, both panes' document state, the per-side pair and
// search resolvers, and the scroll synchronizer, and it mediates between
// the editor host and the diff backend. All mutation flows through a
// single event loop; backend requests run in goroutines and post their
// results back as events.
package engine

import (
	"context"
	"sync"
	"time"

	"diffpane/logger"
	"diffpane/metrics"
	"diffpane/pane"
	"diffpane/scrollsync"
	"diffpane/search"
	"diffpane/text"
	"diffpane/types"

	"diffpane/highlight"
)

// Config holds the engine's tunables.
type Config struct {
	RequestTimeout time.Duration
	PatchDebounce  time.Duration

	// Pixel height of one line, used to normalize line-unit wheel deltas.
	// Zero keeps the synchronizer's default.
	WheelLineHeight float64
}

// DefaultConfig returns the timeouts used by the daemon.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 10 * time.Second,
		PatchDebounce:  300 * time.Millisecond,
	}
}

// Engine drives one diff session.
type Engine struct {
	service types.DiffService
	host    types.Host
	config  Config
	tracker *metrics.Tracker

	mu        sync.Mutex
	eventChan chan Event

	mainCtx    context.Context
	mainCancel context.CancelFunc
	stopped    bool
	stopOnce   sync.Once

	panes      [2]*pane.Pane
	diff       *text.AlignedDiff
	diffSeq    int
	resolvers  [2]*highlight.Resolver
	navigators [2]*search.Navigator
	scroll     *scrollsync.Synchronizer

	patchTimers [2]*time.Timer
}

// New creates an engine over the given backend and host.
func New(service types.DiffService, host types.Host, config Config) *Engine {
	e := &Engine{
		service:   service,
		host:      host,
		config:    config,
		tracker:   metrics.NewTracker(),
		eventChan: make(chan Event, 100),
		scroll:    scrollsync.New(),
	}
	if config.WheelLineHeight > 0 {
		e.scroll.SetLineHeight(config.WheelLineHeight)
	}
	for _, side := range []types.Side{types.SideSource, types.SideTarget} {
		e.resolvers[side] = highlight.NewResolver(side)
		e.navigators[side] = search.NewNavigator(side)
	}
	return e
}

// Start launches the event loop.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.mainCtx, e.mainCancel = context.WithCancel(ctx)
	e.mu.Unlock()

	go e.eventLoop(e.mainCtx)
	logger.Info("engine started (session %s)", e.tracker.SessionID())
}

// Stop shuts down the event loop and logs the session's counters.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		e.stopped = true
		if e.mainCancel != nil {
			e.mainCancel()
		}
		for side := range e.patchTimers {
			if e.patchTimers[side] != nil {
				e.patchTimers[side].Stop()
				e.patchTimers[side] = nil
			}
		}
		close(e.eventChan)

		e.tracker.LogSummary()
		logger.Info("engine stopped")
	})
}

// Dispatch posts an event to the engine. Safe to call from any goroutine;
// drops the event once the engine is stopping.
func (e *Engine) Dispatch(event Event) {
	e.mu.Lock()
	stopped := e.stopped
	mainCtx := e.mainCtx
	e.mu.Unlock()
	if stopped || mainCtx == nil {
		return
	}

	select {
	case e.eventChan <- event:
	case <-mainCtx.Done():
	}
}

func (e *Engine) eventLoop(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event loop panic recovered: %v", r)
			e.eventLoop(e.mainCtx)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-e.eventChan:
			if !ok {
				return
			}

			e.mu.Lock()
			stopped := e.stopped
			e.mu.Unlock()
			if stopped {
				return
			}

			func() {
				defer func() {
					if r := recover(); r != nil {
						logger.Error("event handler panic recovered for event %v: %v", event.Type, r)
					}
				}()
				e.handleEvent(event)
			}()
		}
	}
}

func (e *Engine) handleEvent(event Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return
	}

	logger.Debug("handle event: %v", event.Type)

	switch event.Type {
	case EventSessionOpen:
		e.handleSessionOpen(event.Data.(*SessionOpenData))
	case EventRefreshDiff:
		e.requestDiff()
	case EventDiffReady:
		e.handleDiffReady(event.Data.(*diffReadyData))
	case EventDiffError:
		e.handleDiffError(event.Data.(*diffErrorData))

	case EventTextEdited:
		e.handleTextEdited(event.Data.(*TextEditedData))
	case EventPatchFlush:
		e.flushPatch(event.Data.(*PatchFlushData).Side)
	case EventPatchDone:
		e.handlePatchDone(event.Data.(*patchDoneData))
	case EventPatchError:
		e.handlePatchError(event.Data.(*patchErrorData))

	case EventCaretMoved:
		e.handleCaretMoved(event.Data.(*CaretMovedData))
	case EventSelectionChanged:
		e.handleSelectionChanged(event.Data.(*SelectionChangedData))
	case EventBlur:
		e.clearHighlight(event.Data.(*BlurData).Side)
	case EventPairReady:
		e.handlePairReady(event.Data.(*pairReadyData))
	case EventPairError:
		e.handlePairError(event.Data.(*pairErrorData))

	case EventSearchQuery:
		e.handleSearchQuery(event.Data.(*SearchQueryData))
	case EventSearchNext:
		e.handleSearchStep(event.Data.(*SearchStepData).Side, true)
	case EventSearchPrev:
		e.handleSearchStep(event.Data.(*SearchStepData).Side, false)
	case EventSearchReady:
		e.handleSearchReady(event.Data.(*searchReadyData))
	case EventSearchError:
		e.handleSearchError(event.Data.(*searchErrorData))

	case EventScrolled:
		e.handleScrolled(event.Data.(*ScrolledData))
	case EventWheel:
		e.handleWheel(event.Data.(*WheelData))
	case EventPointerDown:
		e.scroll.PointerDown(event.Data.(*PointerDownData).Side)
	case EventPointerUp:
		e.scroll.PointerUp()
	case EventPaneMetrics:
		d := event.Data.(*PaneMetricsData)
		e.scroll.SetMetrics(d.Side, d.ContentHeight, d.ViewportHeight)
	}
}

// post sends an event from a request goroutine back into the loop.
func (e *Engine) post(event Event) {
	select {
	case e.eventChan <- event:
	case <-e.mainCtx.Done():
	}
}

// Diff returns the current aligned diff, or nil before the first refresh
// completes. The engine replaces rather than mutates it on refresh, so the
// caller may read it freely.
func (e *Engine) Diff() *text.AlignedDiff {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.diff
}

// CopySelection builds clipboard text for one side's current selection,
// dropping virtual rows' placeholder content. Returns false for a
// collapsed selection or before the session opened.
func (e *Engine) CopySelection(side types.Side) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.diff == nil || e.panes[side] == nil {
		return "", false
	}

	sel := e.panes[side].Selection().Normalized()
	rowText := text.SerializeLines(e.diff.Lines(side), false)
	return text.CopyTextWithoutVirtualRows(rowText, sel.Start, sel.End, e.diff.Present(side))
}

// Pane exposes one side's document state for the daemon's RPC handlers.
func (e *Engine) Pane(side types.Side) *pane.Pane {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.panes[side]
}

// RowSpan pairs an aligned row with the intra-row change span of its
// modified line.
type RowSpan struct {
	Row  int
	Span text.InlineSpan
}

// similarityFloor gates intra-row decoration: rows this dissimilar read
// better highlighted whole than with a sprawling char span.
const similarityFloor = 0.4

// ModifySpans computes the character-level change span for every Modify
// row of the current diff, so the renderer can highlight changed runes
// instead of whole rows.
func (e *Engine) ModifySpans() []RowSpan {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.diff == nil {
		return nil
	}

	var spans []RowSpan
	for row, kind := range e.diff.Kinds {
		if kind != types.KindModify {
			continue
		}
		old, updated := e.diff.SourceLines[row], e.diff.TargetLines[row]
		span := text.InlineSpan{Kind: text.InlineWhole}
		if text.LineSimilarity(old, updated) >= similarityFloor {
			span = text.ResolveInlineSpan(old, updated)
		}
		spans = append(spans, RowSpan{Row: row, Span: span})
	}
	return spans
}

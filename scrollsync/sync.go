// Package scrollsync mirrors scroll positions between the two panes of a
// diff session. The panes are the only shared mutable surface the engine
// arbitrates: a programmatic mirror write bounces back as a scroll event,
// so every mirror records the position it expects and swallows the echo.
package scrollsync

import (
	"math"

	"diffpane/types"
)

// echoEpsilon absorbs sub-pixel rounding between the position we set and
// the position the host reports back.
const echoEpsilon = 0.5

// maxPendingEchoes bounds the expectation queue. A host that drops or
// re-clamps a mirror write never reports the recorded position back, so
// the oldest expectations expire instead of accumulating for the session.
const maxPendingEchoes = 8

// defaultLineHeight converts line-unit wheel deltas to pixels when the
// host never reported pane metrics.
const defaultLineHeight = 20.0

// WheelDeltaMode is the unit of a wheel event's delta.
type WheelDeltaMode int

const (
	DeltaPixel WheelDeltaMode = iota
	DeltaLine
	DeltaPage
)

// noDragSide marks that neither pane holds an active pointer drag.
const noDragSide = types.Side(-1)

type paneView struct {
	scrollTop      float64
	contentHeight  float64
	viewportHeight float64
	pendingEchoes  []float64
}

func (p *paneView) maxScroll() float64 {
	return math.Max(p.contentHeight-p.viewportHeight, 0)
}

func (p *paneView) clamp(top float64) float64 {
	return math.Min(math.Max(top, 0), p.maxScroll())
}

// consumeEcho reports whether top matches a recorded mirror write and
// removes it from the queue if so.
func (p *paneView) consumeEcho(top float64) bool {
	for i, expected := range p.pendingEchoes {
		if math.Abs(expected-top) <= echoEpsilon {
			p.pendingEchoes = append(p.pendingEchoes[:i], p.pendingEchoes[i+1:]...)
			return true
		}
	}
	return false
}

func (p *paneView) expectEcho(top float64) {
	if len(p.pendingEchoes) >= maxPendingEchoes {
		p.pendingEchoes = p.pendingEchoes[1:]
	}
	p.pendingEchoes = append(p.pendingEchoes, top)
}

// Mirror is a scroll position the caller must apply to a pane.
type Mirror struct {
	Side types.Side
	Top  float64
}

// Synchronizer keeps the two panes' viewports aligned. Not safe for
// concurrent use; the engine serializes access through its event loop.
type Synchronizer struct {
	panes      [2]paneView
	activeDrag types.Side
	lineHeight float64
}

// New creates a synchronizer with no pane metrics yet.
func New() *Synchronizer {
	return &Synchronizer{activeDrag: noDragSide, lineHeight: defaultLineHeight}
}

// SetMetrics records a pane's content and viewport extents in pixels. The
// pane's scroll position is re-clamped to the new range.
func (s *Synchronizer) SetMetrics(side types.Side, contentHeight, viewportHeight float64) {
	p := &s.panes[side]
	p.contentHeight = math.Max(contentHeight, 0)
	p.viewportHeight = math.Max(viewportHeight, 0)
	p.scrollTop = p.clamp(p.scrollTop)
}

// SetLineHeight sets the pixel height used to normalize line-unit wheel
// deltas.
func (s *Synchronizer) SetLineHeight(h float64) {
	if h > 0 {
		s.lineHeight = h
	}
}

// ScrollTop returns a pane's current scroll position.
func (s *Synchronizer) ScrollTop(side types.Side) float64 {
	return s.panes[side].scrollTop
}

// MaxScroll returns a pane's maximum scroll position.
func (s *Synchronizer) MaxScroll(side types.Side) float64 {
	return s.panes[side].maxScroll()
}

// PointerDown marks side as the active drag side; sync flows only from it
// until PointerUp.
func (s *Synchronizer) PointerDown(side types.Side) {
	s.activeDrag = side
}

// PointerUp releases the active drag side.
func (s *Synchronizer) PointerUp() {
	s.activeDrag = noDragSide
}

// ActiveDrag returns the side holding a pointer drag, or false.
func (s *Synchronizer) ActiveDrag() (types.Side, bool) {
	if s.activeDrag == noDragSide {
		return 0, false
	}
	return s.activeDrag, true
}

// HandleScroll processes a scroll event reported by the host for one pane.
// It returns the mirror write the caller must apply to the partner pane,
// or ok=false when the event was an echo or is suppressed by an active
// drag on the partner side.
func (s *Synchronizer) HandleScroll(side types.Side, top float64) (Mirror, bool) {
	p := &s.panes[side]

	if p.consumeEcho(top) {
		p.scrollTop = p.clamp(top)
		return Mirror{}, false
	}

	p.scrollTop = p.clamp(top)

	// While a drag is active on the partner pane, this pane's own scroll
	// events must not fight the user's gesture.
	if s.activeDrag != noDragSide && s.activeDrag != side {
		return Mirror{}, false
	}

	other := otherSide(side)
	o := &s.panes[other]

	mirrorTop := o.clamp(ratio(p.scrollTop, p.maxScroll()) * o.maxScroll())
	if math.Abs(mirrorTop-o.scrollTop) <= echoEpsilon {
		return Mirror{}, false
	}

	o.scrollTop = mirrorTop
	o.expectEcho(mirrorTop)
	return Mirror{Side: other, Top: mirrorTop}, true
}

// HandleWheel applies a wheel delta to both panes at once, each clamped to
// its own extents. This avoids the rounding drift of ratio translation
// when the two sides' content heights differ. The returned mirrors cover
// every pane whose position changed.
func (s *Synchronizer) HandleWheel(side types.Side, delta float64, mode WheelDeltaMode) []Mirror {
	pixels := s.normalizeDelta(side, delta, mode)
	if pixels == 0 {
		return nil
	}

	var mirrors []Mirror
	for _, target := range []types.Side{types.SideSource, types.SideTarget} {
		p := &s.panes[target]
		next := p.clamp(p.scrollTop + pixels)
		if next == p.scrollTop {
			continue
		}
		p.scrollTop = next
		p.expectEcho(next)
		mirrors = append(mirrors, Mirror{Side: target, Top: next})
	}
	return mirrors
}

func (s *Synchronizer) normalizeDelta(side types.Side, delta float64, mode WheelDeltaMode) float64 {
	switch mode {
	case DeltaLine:
		return delta * s.lineHeight
	case DeltaPage:
		page := s.panes[side].viewportHeight
		if page == 0 {
			page = s.lineHeight * 10
		}
		return delta * page
	default:
		return delta
	}
}

func ratio(top, maxScroll float64) float64 {
	if maxScroll <= 0 {
		return 0
	}
	return top / maxScroll
}

func otherSide(side types.Side) types.Side {
	if side == types.SideSource {
		return types.SideTarget
	}
	return types.SideSource
}

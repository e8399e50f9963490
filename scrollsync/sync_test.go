package scrollsync

import (
	"testing"

	"diffpane/assert"
	"diffpane/types"
)

func newSync() *Synchronizer {
	s := New()
	s.SetMetrics(types.SideSource, 1000, 200) // max scroll 800
	s.SetMetrics(types.SideTarget, 600, 200)  // max scroll 400
	return s
}

func TestScrollMirrorsByRatio(t *testing.T) {
	s := newSync()

	mirror, ok := s.HandleScroll(types.SideSource, 400)

	assert.True(t, ok, "user scroll mirrors to the partner")
	assert.Equal(t, types.SideTarget, mirror.Side, "partner pane targeted")
	assert.Equal(t, 200.0, mirror.Top, "half of source range is half of target range")
	assert.Equal(t, 200.0, s.ScrollTop(types.SideTarget), "partner position recorded")
}

func TestEchoConsumedSilently(t *testing.T) {
	s := newSync()
	s.HandleScroll(types.SideSource, 400)

	// The partner pane reports the position we just set.
	_, ok := s.HandleScroll(types.SideTarget, 200)

	assert.False(t, ok, "programmatic write does not re-mirror")
	assert.Equal(t, 400.0, s.ScrollTop(types.SideSource), "source position unchanged by the echo")
}

func TestEchoToleratesSubPixelRounding(t *testing.T) {
	s := newSync()
	s.HandleScroll(types.SideSource, 400)

	_, ok := s.HandleScroll(types.SideTarget, 200.3)

	assert.False(t, ok, "near-equal position still counts as the echo")
}

func TestEchoConsumedOnlyOnce(t *testing.T) {
	s := newSync()
	s.HandleScroll(types.SideSource, 400)
	s.HandleScroll(types.SideTarget, 200) // echo

	mirror, ok := s.HandleScroll(types.SideTarget, 100)

	assert.True(t, ok, "a genuine user scroll after the echo mirrors")
	assert.Equal(t, types.SideSource, mirror.Side, "back toward the source pane")
	assert.Equal(t, 200.0, mirror.Top, "quarter of target range is quarter of source range")
}

func TestScrollClampedToPaneExtents(t *testing.T) {
	s := newSync()

	mirror, ok := s.HandleScroll(types.SideSource, 9999)

	assert.Equal(t, 800.0, s.ScrollTop(types.SideSource), "source clamped to its max")
	assert.True(t, ok, "clamped scroll still mirrors")
	assert.Equal(t, 400.0, mirror.Top, "partner clamped to its own max")
}

func TestActiveDragSuppressesPartnerEvents(t *testing.T) {
	s := newSync()
	s.PointerDown(types.SideSource)

	_, ok := s.HandleScroll(types.SideTarget, 150)
	assert.False(t, ok, "partner events do not fight the drag")

	mirror, ok := s.HandleScroll(types.SideSource, 200)
	assert.True(t, ok, "the dragged pane still drives sync")
	assert.Equal(t, 100.0, mirror.Top, "ratio mirror from the drag side")

	s.PointerUp()
	_, ok = s.HandleScroll(types.SideTarget, 300)
	assert.True(t, ok, "both directions flow again after release")
}

func TestWheelAppliesToBothPanes(t *testing.T) {
	s := newSync()

	mirrors := s.HandleWheel(types.SideSource, 100, DeltaPixel)

	assert.Equal(t, 2, len(mirrors), "both panes move")
	assert.Equal(t, 100.0, s.ScrollTop(types.SideSource), "source moved by the delta")
	assert.Equal(t, 100.0, s.ScrollTop(types.SideTarget), "target moved by the same delta")
}

func TestWheelClampsPerPane(t *testing.T) {
	s := newSync()

	mirrors := s.HandleWheel(types.SideSource, 600, DeltaPixel)

	assert.Equal(t, 600.0, s.ScrollTop(types.SideSource), "source within range")
	assert.Equal(t, 400.0, s.ScrollTop(types.SideTarget), "target clamped to its own max")
	assert.Equal(t, 2, len(mirrors), "both writes reported")
}

func TestWheelEchoesSwallowed(t *testing.T) {
	s := newSync()
	s.HandleWheel(types.SideSource, 100, DeltaPixel)

	_, ok := s.HandleScroll(types.SideSource, 100)
	assert.False(t, ok, "source echo consumed")
	_, ok = s.HandleScroll(types.SideTarget, 100)
	assert.False(t, ok, "target echo consumed")
}

func TestWheelLineAndPageUnits(t *testing.T) {
	s := newSync()
	s.SetLineHeight(16)

	s.HandleWheel(types.SideSource, 2, DeltaLine)
	assert.Equal(t, 32.0, s.ScrollTop(types.SideSource), "line deltas scale by line height")

	s = newSync()
	s.HandleWheel(types.SideSource, 1, DeltaPage)
	assert.Equal(t, 200.0, s.ScrollTop(types.SideSource), "page deltas scale by viewport height")
}

func TestWheelScrollBack(t *testing.T) {
	s := newSync()
	s.HandleWheel(types.SideSource, 100, DeltaPixel)

	mirrors := s.HandleWheel(types.SideSource, -300, DeltaPixel)

	assert.Equal(t, 0.0, s.ScrollTop(types.SideSource), "clamped at the top")
	assert.Equal(t, 0.0, s.ScrollTop(types.SideTarget), "partner clamped at the top")
	assert.Equal(t, 2, len(mirrors), "both writes reported")
}

func TestZeroRangePaneStaysPut(t *testing.T) {
	s := New()
	s.SetMetrics(types.SideSource, 1000, 200)
	s.SetMetrics(types.SideTarget, 100, 200) // content fits, no scrolling

	_, ok := s.HandleScroll(types.SideSource, 400)

	assert.False(t, ok, "nothing to mirror when the partner cannot scroll")
	assert.Equal(t, 0.0, s.ScrollTop(types.SideTarget), "partner pinned at zero")
}

func TestMetricsShrinkReclampsPosition(t *testing.T) {
	s := newSync()
	s.HandleScroll(types.SideSource, 800)

	s.SetMetrics(types.SideSource, 400, 200)

	assert.Equal(t, 200.0, s.ScrollTop(types.SideSource), "position re-clamped to the new range")
}

func TestEchoQueueBounded(t *testing.T) {
	s := newSync()

	// Every mirror write records an expectation the partner never reports
	// back (the host dropped them all).
	for i := 1; i <= 2*maxPendingEchoes; i++ {
		s.HandleScroll(types.SideSource, float64(i*20))
	}

	assert.True(t, len(s.panes[types.SideTarget].pendingEchoes) <= maxPendingEchoes, "unconsumed expectations expire")

	// The newest expectation is still live.
	_, ok := s.HandleScroll(types.SideTarget, s.ScrollTop(types.SideTarget))
	assert.False(t, ok, "latest mirror echo still consumed")
}

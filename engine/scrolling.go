package engine

import "diffpane/scrollsync"

// handleScrolled mirrors one pane's user scroll onto the partner pane.
// Echoes of the engine's own mirror writes are swallowed inside the
// synchronizer.
func (e *Engine) handleScrolled(d *ScrolledData) {
	mirror, ok := e.scroll.HandleScroll(d.Side, d.Top)
	if !ok {
		return
	}
	e.host.SetScroll(mirror.Side, mirror.Top)
}

// handleWheel applies a wheel delta to both panes, each clamped to its own
// extents, and pushes the resulting positions to the host.
func (e *Engine) handleWheel(d *WheelData) {
	mode := scrollsync.DeltaPixel
	switch d.Mode {
	case 1:
		mode = scrollsync.DeltaLine
	case 2:
		mode = scrollsync.DeltaPage
	}

	for _, mirror := range e.scroll.HandleWheel(d.Side, d.Delta, mode) {
		e.host.SetScroll(mirror.Side, mirror.Top)
	}
}

package main

import (
	"fmt"

	"diffpane/engine"
	"diffpane/types"

	"github.com/neovim/go-client/nvim"
)

func sideFromString(s string) (types.Side, error) {
	switch s {
	case "source":
		return types.SideSource, nil
	case "target":
		return types.SideTarget, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}

// registerHandlers wires the plugin's RPC calls into engine events. Every
// handler returns immediately; the engine processes the event on its own
// loop and reports back through the host callbacks.
func (d *Daemon) registerHandlers(n *nvim.Nvim) error {
	e := d.engine

	handlers := map[string]any{
		"diffpane_open": func(_ *nvim.Nvim, sourceID, targetID, sourceText, targetText string) {
			e.Dispatch(engine.Event{Type: engine.EventSessionOpen, Data: &engine.SessionOpenData{
				SourceID:   sourceID,
				TargetID:   targetID,
				SourceText: sourceText,
				TargetText: targetText,
			}})
		},
		"diffpane_refresh": func(_ *nvim.Nvim) {
			e.Dispatch(engine.Event{Type: engine.EventRefreshDiff})
		},
		"diffpane_text_edited": func(_ *nvim.Nvim, side string, lines []string) error {
			s, err := sideFromString(side)
			if err != nil {
				return err
			}
			e.Dispatch(engine.Event{Type: engine.EventTextEdited, Data: &engine.TextEditedData{Side: s, Lines: lines}})
			return nil
		},
		"diffpane_caret": func(_ *nvim.Nvim, side string, row, col int) error {
			s, err := sideFromString(side)
			if err != nil {
				return err
			}
			e.Dispatch(engine.Event{Type: engine.EventCaretMoved, Data: &engine.CaretMovedData{Side: s, Row: row, Col: col}})
			return nil
		},
		"diffpane_selection": func(_ *nvim.Nvim, side string, start, end int) error {
			s, err := sideFromString(side)
			if err != nil {
				return err
			}
			e.Dispatch(engine.Event{Type: engine.EventSelectionChanged, Data: &engine.SelectionChangedData{Side: s, Start: start, End: end}})
			return nil
		},
		"diffpane_blur": func(_ *nvim.Nvim, side string) error {
			s, err := sideFromString(side)
			if err != nil {
				return err
			}
			e.Dispatch(engine.Event{Type: engine.EventBlur, Data: &engine.BlurData{Side: s}})
			return nil
		},
		"diffpane_search": func(_ *nvim.Nvim, side, keyword string, caseSensitive bool) error {
			s, err := sideFromString(side)
			if err != nil {
				return err
			}
			e.Dispatch(engine.Event{Type: engine.EventSearchQuery, Data: &engine.SearchQueryData{
				Side:          s,
				Keyword:       keyword,
				CaseSensitive: caseSensitive,
			}})
			return nil
		},
		"diffpane_search_next": func(_ *nvim.Nvim, side string) error {
			s, err := sideFromString(side)
			if err != nil {
				return err
			}
			e.Dispatch(engine.Event{Type: engine.EventSearchNext, Data: &engine.SearchStepData{Side: s}})
			return nil
		},
		"diffpane_search_prev": func(_ *nvim.Nvim, side string) error {
			s, err := sideFromString(side)
			if err != nil {
				return err
			}
			e.Dispatch(engine.Event{Type: engine.EventSearchPrev, Data: &engine.SearchStepData{Side: s}})
			return nil
		},
		"diffpane_scrolled": func(_ *nvim.Nvim, side string, top float64) error {
			s, err := sideFromString(side)
			if err != nil {
				return err
			}
			e.Dispatch(engine.Event{Type: engine.EventScrolled, Data: &engine.ScrolledData{Side: s, Top: top}})
			return nil
		},
		"diffpane_wheel": func(_ *nvim.Nvim, side string, delta float64, mode int) error {
			s, err := sideFromString(side)
			if err != nil {
				return err
			}
			e.Dispatch(engine.Event{Type: engine.EventWheel, Data: &engine.WheelData{Side: s, Delta: delta, Mode: mode}})
			return nil
		},
		"diffpane_pointer_down": func(_ *nvim.Nvim, side string) error {
			s, err := sideFromString(side)
			if err != nil {
				return err
			}
			e.Dispatch(engine.Event{Type: engine.EventPointerDown, Data: &engine.PointerDownData{Side: s}})
			return nil
		},
		"diffpane_pointer_up": func(_ *nvim.Nvim) {
			e.Dispatch(engine.Event{Type: engine.EventPointerUp})
		},
		"diffpane_metrics": func(_ *nvim.Nvim, side string, contentHeight, viewportHeight float64) error {
			s, err := sideFromString(side)
			if err != nil {
				return err
			}
			e.Dispatch(engine.Event{Type: engine.EventPaneMetrics, Data: &engine.PaneMetricsData{
				Side:           s,
				ContentHeight:  contentHeight,
				ViewportHeight: viewportHeight,
			}})
			return nil
		},
		// Copy is synchronous; the plugin needs the clipboard text back.
		"diffpane_copy": func(_ *nvim.Nvim, side string) (string, error) {
			s, err := sideFromString(side)
			if err != nil {
				return "", err
			}
			text, _ := e.CopySelection(s)
			return text, nil
		},
		// Per-row char spans for Modify rows, queried when re-rendering.
		// Each entry is [row, kind, colStart, colEnd].
		"diffpane_modify_spans": func(_ *nvim.Nvim) ([][4]int, error) {
			spans := e.ModifySpans()
			out := make([][4]int, len(spans))
			for i, rs := range spans {
				out[i] = [4]int{rs.Row, int(rs.Span.Kind), rs.Span.ColStart, rs.Span.ColEnd}
			}
			return out, nil
		},
	}

	for name, fn := range handlers {
		if err := n.RegisterHandler(name, fn); err != nil {
			return fmt.Errorf("failed to register handler %s: %w", name, err)
		}
	}
	return nil
}

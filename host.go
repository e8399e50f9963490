package main

import (
	"sync"

	"diffpane/logger"
	"diffpane/types"

	"github.com/neovim/go-client/nvim"
)

// nvimHost implements types.Host over the editor RPC connection. The nvim
// handle is swapped whenever the plugin reconnects; callbacks before the
// first connection are dropped.
type nvimHost struct {
	mu sync.RWMutex
	n  *nvim.Nvim
}

func newNvimHost() *nvimHost {
	return &nvimHost{}
}

// SetNvim installs the connection the callbacks go out on.
func (h *nvimHost) SetNvim(n *nvim.Nvim) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.n = n
}

func (h *nvimHost) conn() *nvim.Nvim {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.n
}

// call invokes a function on the plugin's Lua module, dropping the result.
func (h *nvimHost) call(fn string, args ...any) {
	n := h.conn()
	if n == nil {
		return
	}
	lua := "require('diffpane')." + fn + "(...)"
	if err := n.ExecLua(lua, nil, args...); err != nil {
		logger.Warn("host call %s failed: %v", fn, err)
	}
}

func (h *nvimHost) DocumentChanged(docID string) {
	h.call("on_document_changed", docID)
}

func (h *nvimHost) NavigateTo(t *types.NavigateTarget) {
	h.call("navigate_to", t.DocumentID, t.Line, t.Column, t.Length)
}

func (h *nvimHost) PatchFailed(docID string, err error) {
	h.call("on_patch_failed", docID, err.Error())
}

func (h *nvimHost) SetScroll(side types.Side, top float64) {
	h.call("set_scroll", side.String(), top)
}

func (h *nvimHost) ShowPairHighlight(side types.Side, positions []types.Position) {
	lines := make([]int, len(positions))
	cols := make([]int, len(positions))
	for i, p := range positions {
		lines[i] = p.Line
		cols[i] = p.Column
	}
	h.call("show_pair_highlight", side.String(), lines, cols)
}

func (h *nvimHost) ClearPairHighlight(side types.Side) {
	h.call("clear_pair_highlight", side.String())
}

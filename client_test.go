package main

import (
	"testing"

	"diffpane/assert"
)

func TestStartDaemonRequiresConfig(t *testing.T) {
	t.Setenv("DIFFPANE_CONFIG", "")
	c := NewClient()

	err := c.startDaemon()

	assert.NotNil(t, err, "missing config rejected before spawning")
	assert.Contains(t, err.Error(), "DIFFPANE_CONFIG", "error names the variable to set")
}

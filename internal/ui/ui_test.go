package ui

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer

	l := NewLoggerTo(&buf, false)
	l.Debugf("hidden %d\n", 1)
	l.Infof("shown %d\n", 2)
	l.Warnf("careful\n")
	l.Errorf("broken\n")
	assert.Equal(t, "[INFO] shown 2\n[WARN] careful\n[ERROR] broken\n", buf.String())

	buf.Reset()
	l.Debug = true
	l.Debugf("now %s\n", "visible")
	assert.Equal(t, "[DEBUG] now visible\n", buf.String())
}

func TestLogger_NilIsSilent(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Debugf("x")
		l.Infof("x")
		l.Errorf("x")
	})
}

func TestProgressHandle_NilIsNoop(t *testing.T) {
	var h *ProgressHandle
	assert.NotPanics(t, func() {
		h.SetTotal(10)
		h.Update(5)
		h.Increment()
		h.MarkDone()
		h.Abort()
	})
}

func TestProgressManager_Steps(t *testing.T) {
	pm := NewProgressManager(io.Discard)

	h := pm.Steps("details", 3)
	for range 3 {
		h.Increment()
	}
	h.MarkDone()

	b := pm.Bytes("pbf")
	b.SetTotal(100)
	b.Update(40)
	b.Abort()

	pm.Close()
	assert.EqualValues(t, 3, h.done)
}

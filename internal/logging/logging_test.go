package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("quiet", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, false)
		log.Debug("hidden")
		log.Info("hidden too")
		log.Warn("shown", zap.String("path", "A.java"))
		_ = log.Sync()

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "shown")
		assert.Contains(t, out, "A.java")
	})

	t.Run("verbose", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, true)
		log.Debug("details")
		_ = log.Sync()

		assert.Contains(t, buf.String(), "details")
	})
}

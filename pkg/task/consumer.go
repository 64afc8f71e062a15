package task

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// captureConsumer accumulates stdout lines into one buffer and forwards
// stderr lines to the diagnostic logger. Runners call Accept concurrently
// from per-stream goroutines.
type captureConsumer struct {
	mu     sync.Mutex
	stdout strings.Builder
	logger logrus.FieldLogger
}

func newCaptureConsumer(logger logrus.FieldLogger) *captureConsumer {
	return &captureConsumer{logger: logger}
}

func (c *captureConsumer) Accept(line string, isStdErr bool) {
	if isStdErr {
		c.logger.Warn(line)

		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stdout.WriteString(line)
	c.stdout.WriteString("\n")
}

// Stdout returns the accumulated stdout text, trimmed.
func (c *captureConsumer) Stdout() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return strings.TrimSpace(c.stdout.String())
}

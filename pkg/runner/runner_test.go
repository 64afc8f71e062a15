package runner_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/kestra-io/plugin-argocd/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConsumer struct {
	mu     sync.Mutex
	stdout []string
	stderr []string
}

func (c *recordingConsumer) Accept(line string, isStdErr bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if isStdErr {
		c.stderr = append(c.stderr, line)

		return
	}

	c.stdout = append(c.stdout, line)
}

func TestScript_ShellSource(t *testing.T) {
	t.Parallel()

	script := runner.Script{
		Commands: []string{
			"curl -sSL -o /tmp/argocd https://example.com/argocd",
			"chmod +x /tmp/argocd",
			"argocd app get my-application --output json",
		},
	}

	source := script.ShellSource()

	assert.True(t, strings.HasPrefix(source, "set -e\n"))
	assert.Equal(t, []string{
		"set -e",
		"curl -sSL -o /tmp/argocd https://example.com/argocd",
		"chmod +x /tmp/argocd",
		"argocd app get my-application --output json",
	}, strings.Split(source, "\n"))
}

func TestForwardLines_ForwardsAndCounts(t *testing.T) {
	t.Parallel()

	consumer := &recordingConsumer{}

	lineCount, err := runner.ForwardLines(
		strings.NewReader("one\ntwo\nthree\n"),
		false,
		consumer,
	)
	require.NoError(t, err)

	assert.Equal(t, 3, lineCount)
	assert.Equal(t, []string{"one", "two", "three"}, consumer.stdout)
	assert.Empty(t, consumer.stderr)
}

func TestForwardLines_StderrFlag(t *testing.T) {
	t.Parallel()

	consumer := &recordingConsumer{}

	lineCount, err := runner.ForwardLines(strings.NewReader("warn\n"), true, consumer)
	require.NoError(t, err)

	assert.Equal(t, 1, lineCount)
	assert.Equal(t, []string{"warn"}, consumer.stderr)
}

func TestForwardLines_NilConsumerOnlyCounts(t *testing.T) {
	t.Parallel()

	lineCount, err := runner.ForwardLines(strings.NewReader("a\nb\n"), false, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, lineCount)
}

func TestForwardLines_HandlesSingleHugeLine(t *testing.T) {
	t.Parallel()

	// JSON output from the CLI arrives as one very long line.
	hugeLine := strings.Repeat("x", 512*1024)
	consumer := &recordingConsumer{}

	lineCount, err := runner.ForwardLines(strings.NewReader(hugeLine), false, consumer)
	require.NoError(t, err)

	assert.Equal(t, 1, lineCount)
	require.Len(t, consumer.stdout, 1)
	assert.Len(t, consumer.stdout[0], 512*1024)
}

func TestForwardLines_EmptyStream(t *testing.T) {
	t.Parallel()

	lineCount, err := runner.ForwardLines(strings.NewReader(""), false, nil)
	require.NoError(t, err)

	assert.Zero(t, lineCount)
}

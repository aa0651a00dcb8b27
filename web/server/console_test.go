package server

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebLogger_BasicLogging(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	var serverLog bytes.Buffer
	logger := NewWebLogger("test-render-123", messageChan, &serverLog)

	logger.Info().Int("band", 3).Msg("band complete")

	select {
	case msg := <-messageChan:
		assert.Equal(t, "band complete band=3 render=test-render-123", msg.Message)
		assert.Equal(t, "info", msg.Level)
		assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Second)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for console message")
	}

	assert.Contains(t, serverLog.String(), `"message":"band complete"`)
}

func TestWebLogger_Levels(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("levels", messageChan, nil)

	logger.Warn().Msg("careful")
	logger.Error().Msg("broken")

	msg := <-messageChan
	assert.Equal(t, "warning", msg.Level)
	assert.True(t, strings.HasPrefix(msg.Message, "careful"))

	msg = <-messageChan
	assert.Equal(t, "error", msg.Level)
}

func TestWebLogger_MultipleMessages(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-456", messageChan, nil)

	messages := []string{"Message 1", "Message 2", "Message 3"}
	for _, m := range messages {
		logger.Info().Msg(m)
	}

	for _, want := range messages {
		select {
		case msg := <-messageChan:
			assert.True(t, strings.HasPrefix(msg.Message, want), "got %q", msg.Message)
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("Timeout waiting for %q", want)
		}
	}
}

func TestWebLogger_FullChannelDoesNotBlock(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("full", messageChan, nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			logger.Info().Msg("spam")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Logger blocked on a full channel")
	}
	assert.Len(t, messageChan, 1)
}

func TestParseConsoleMessage_Malformed(t *testing.T) {
	_, err := parseConsoleMessage([]byte("not json"))
	require.Error(t, err)
}

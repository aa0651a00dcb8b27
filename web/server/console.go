package server

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warning", "error"
}

// consoleWriter turns zerolog JSON events into console messages
type consoleWriter struct {
	consoleChan chan<- ConsoleMessage
}

// Write implements io.Writer. Messages are dropped rather than blocking the
// renderer when the channel is full.
func (cw consoleWriter) Write(p []byte) (int, error) {
	msg, err := parseConsoleMessage(p)
	if err != nil {
		return 0, err
	}

	select {
	case cw.consoleChan <- msg:
	default:
	}
	return len(p), nil
}

// parseConsoleMessage renders one zerolog event as "message key=value ..."
func parseConsoleMessage(p []byte) (ConsoleMessage, error) {
	var event map[string]interface{}
	if err := json.Unmarshal(p, &event); err != nil {
		return ConsoleMessage{}, fmt.Errorf("malformed log event: %w", err)
	}

	msg := ConsoleMessage{Level: "info", Timestamp: time.Now()}
	if level, ok := event[zerolog.LevelFieldName].(string); ok {
		msg.Level = level
		if level == zerolog.LevelWarnValue {
			msg.Level = "warning"
		}
	}
	message, _ := event[zerolog.MessageFieldName].(string)

	keys := make([]string, 0, len(event))
	for k := range event {
		switch k {
		case zerolog.LevelFieldName, zerolog.MessageFieldName, zerolog.TimestampFieldName:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(message)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, event[k])
	}
	msg.Message = b.String()
	return msg, nil
}

// NewWebLogger creates a logger for one render that writes to the server log
// and also forwards every event to a browser console channel.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage, serverLog io.Writer) zerolog.Logger {
	writers := []io.Writer{consoleWriter{consoleChan: consoleChan}}
	if serverLog != nil {
		writers = append(writers, serverLog)
	}
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Str("render", renderID).
		Logger()
}

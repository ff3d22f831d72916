// Package notify turns terminal collection events into one-shot user messages.
package notify

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/yigit/schooladmin/internal/console/store"
)

// Level classifies a message.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Message is one user-visible notice.
type Message struct {
	Level Level
	Text  string
}

// Sink displays messages.
type Sink interface {
	Notify(Message)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Message)

// Notify implements Sink.
func (f SinkFunc) Notify(m Message) { f(m) }

// Source is the part of an EntityStore the bridge drains.
type Source interface {
	ConsumeMutationNotice() store.Outcome
	ConsumeFailure() (string, bool)
}

// SuccessText is the message shown for a completed mutation.
func SuccessText(o store.Outcome) string {
	switch o {
	case store.OutcomeCreated:
		return "Created successfully"
	case store.OutcomeUpdated:
		return "Updated successfully"
	case store.OutcomeDeleted:
		return "Deleted successfully"
	default:
		return ""
	}
}

// Bridge forwards pending notices from a source to a sink.
type Bridge struct {
	sink Sink
}

// NewBridge returns a bridge writing to sink. A nil sink discards messages.
func NewBridge(sink Sink) *Bridge {
	return &Bridge{sink: sink}
}

// Flush consumes the source's pending outcome and failure and emits one message
// for each. It returns the number of messages emitted.
func (b *Bridge) Flush(src Source) int {
	var msgs []Message
	if o := src.ConsumeMutationNotice(); o != store.OutcomeNone {
		msgs = append(msgs, Message{Level: LevelSuccess, Text: SuccessText(o)})
	}
	if text, ok := src.ConsumeFailure(); ok {
		msgs = append(msgs, Message{Level: LevelError, Text: text})
	}
	if b == nil || b.sink == nil {
		return len(msgs)
	}
	for _, m := range msgs {
		b.sink.Notify(m)
	}
	return len(msgs)
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"}).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#d16d7a")).Bold(true)
)

// WriterSink prints styled lines, e.g. to a terminal.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink returns a sink printing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Notify implements Sink.
func (s *WriterSink) Notify(m Message) {
	prefix := successStyle.Render("✓")
	if m.Level == LevelError {
		prefix = errorStyle.Render("✗")
	}
	fmt.Fprintf(s.w, "%s %s\n", prefix, m.Text)
}

// LogSink writes messages to a zerolog logger.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink returns a sink logging through l.
func NewLogSink(l zerolog.Logger) *LogSink {
	return &LogSink{logger: l}
}

// Notify implements Sink.
func (s *LogSink) Notify(m Message) {
	event := s.logger.Info()
	if m.Level == LevelError {
		event = s.logger.Warn()
	}
	event.Str("notice", string(m.Level)).Msg(m.Text)
}

// Multi fans a message out to several sinks.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(m Message) {
		for _, s := range sinks {
			s.Notify(m)
		}
	})
}

package orchestration

import "github.com/richinex/pagebrief/model"

// EventType identifies an event delivered to a Sink.
type EventType string

const (
	EventProgress     EventType = "progress"
	EventResult       EventType = "result"
	EventFailure      EventType = "failure"
	EventExtracted    EventType = "extracted"
	EventExtractError EventType = "extract_error"
)

// Event is a single notification about a request. Exactly one result or
// failure event is emitted per request.
type Event struct {
	Type      EventType         `json:"type"`
	RequestID string            `json:"requestId"`
	Message   string            `json:"message,omitempty"`
	Text      string            `json:"text,omitempty"`
	Snippets  []string          `json:"snippets,omitempty"`
	Metadata  *model.Metadata   `json:"metadata,omitempty"`
	Status    int               `json:"status,omitempty"`
	Debug     string            `json:"debug,omitempty"`
	Page      *model.PageRecord `json:"page,omitempty"`
}

// Terminal reports whether the event ends a request.
func (e Event) Terminal() bool {
	return e.Type == EventResult || e.Type == EventFailure
}

// Result converts a result event back to a model.Result.
func (e Event) Result() (model.Result, bool) {
	if e.Type != EventResult || e.Metadata == nil {
		return model.Result{}, false
	}
	return model.Result{Text: e.Text, Snippets: e.Snippets, Metadata: *e.Metadata}, true
}

// Failure converts a failure event back to a model.Failure.
func (e Event) Failure() (model.Failure, bool) {
	if e.Type != EventFailure {
		return model.Failure{}, false
	}
	return model.Failure{Message: e.Message, Status: e.Status, Debug: e.Debug}, true
}

// Sink receives events. Emit is called synchronously from Run.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) {
	f(e)
}

// ChannelSink delivers events on a buffered channel.
// Emit blocks when the buffer is full.
type ChannelSink struct {
	ch chan Event
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{ch: make(chan Event, buffer)}
}

// Emit sends e on the channel.
func (s *ChannelSink) Emit(e Event) {
	s.ch <- e
}

// Events returns the receive side of the channel.
func (s *ChannelSink) Events() <-chan Event {
	return s.ch
}

// Close closes the channel. No Emit may follow.
func (s *ChannelSink) Close() {
	close(s.ch)
}

func discard(Event) {}

func resultEvent(id string, r model.Result) Event {
	meta := r.Metadata
	return Event{
		Type:      EventResult,
		RequestID: id,
		Text:      r.Text,
		Snippets:  r.Snippets,
		Metadata:  &meta,
	}
}

func failureEvent(id string, f model.Failure) Event {
	return Event{
		Type:      EventFailure,
		RequestID: id,
		Message:   f.Message,
		Status:    f.Status,
		Debug:     f.Debug,
	}
}

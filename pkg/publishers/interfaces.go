package publishers

import "context"

// Publisher delivers status events to one downstream sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is the part of the application logger publishers write to.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type discardLogger struct{}

func (discardLogger) DebugObj(string, string, interface{}) {}
func (discardLogger) ErrorObj(string, string, interface{}) {}

// sink carries the identity and logging shared by every publisher type.
type sink struct {
	id  string
	typ string
	log Logger
}

func newSink(id, typ string, log Logger) sink {
	if log == nil {
		log = discardLogger{}
	}
	return sink{id: id, typ: typ, log: log}
}

func (s sink) ID() string   { return s.id }
func (s sink) Type() string { return s.typ }

func (s sink) delivered(evt Event, receipt string) {
	s.logger().DebugObj("status event delivered", "publisher_delivery", map[string]any{
		"publisher_id":   s.id,
		"publisher_type": s.typ,
		"target_id":      evt.TargetID,
		"online":         evt.Online,
		"receipt":        receipt,
	})
}

func (s sink) failed(evt Event, err error) {
	s.logger().ErrorObj("status event delivery failed", "publisher_error", map[string]any{
		"publisher_id":   s.id,
		"publisher_type": s.typ,
		"target_id":      evt.TargetID,
		"error":          err.Error(),
	})
}

func (s sink) logger() Logger {
	if s.log == nil {
		return discardLogger{}
	}
	return s.log
}

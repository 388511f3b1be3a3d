package audit

import "context"

// Sink receives audit events. Implementations must tolerate concurrent
// appends; the publisher fans a single event out to every configured sink.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

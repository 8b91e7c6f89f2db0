package mail

import "context"

// Message is the payload every email backend accepts.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Mailer sends a single message. This decouples the application logic from
// the specific delivery library.
//
// Transport backends send synchronously: Send returns the delivery outcome.
// Detached backends hand the message off without waiting; they must log
// failures themselves and always return nil, so a batch run can finish while
// their deliveries are still in flight.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

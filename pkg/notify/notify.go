package notify

// Notifier delivers candidate-facing messages. Dispatch is fire-and-forget:
// callers return immediately and never observe delivery outcome.
type Notifier interface {
	SendInterviewInvite(to, link string)
}

// Sender is the underlying synchronous mail transport.
type Sender interface {
	Send(to, subject, body string) error
}

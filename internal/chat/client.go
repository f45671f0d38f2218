package chat

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of the booking conversation.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// BookingIntent is the structured bookAppointment function-call suggestion
// produced by the language model. It is untrusted input: the assistant runs
// it through the same validation and availability checks as any other
// inbound booking request.
type BookingIntent struct {
	PatientName  string
	PatientPhone string
	Date         string
	Time         string
	DoctorID     string
	Reason       string
}

// Result is a single model turn: either free-text reply content or one
// structured booking intent.
type Result struct {
	Text   string
	Intent *BookingIntent
}

// Client abstracts the chat-completion backend so the assistant can be
// exercised with a fake in tests.
type Client interface {
	Converse(ctx context.Context, system string, history []Turn) (Result, error)
}

package notification

import "context"

// Template names the kind of message being sent
type Template string

const (
	TemplatePaymentDue       Template = "payment_due"
	TemplatePaymentConfirmed Template = "payment_confirmed"
	TemplateUserActivation   Template = "user_activation"
)

// Message is a notification to a single recipient. Context carries the
// template variables.
type Message struct {
	Template  Template
	Recipient string
	Subject   string
	Context   map[string]string
}

// Sender delivers notifications to users. Sends are fire-and-forget from
// the caller's point of view: failures are logged by the implementation
// and never roll back the business operation that triggered them.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

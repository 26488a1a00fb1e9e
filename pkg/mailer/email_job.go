package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template names a set of embedded templates rendered with Data; otherwise
// Subject with Text and/or HTML is sent as is.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome", "account_deleted"
	Data     map[string]any `json:"data,omitempty"`
}

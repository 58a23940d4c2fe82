package mailer

import (
	"fmt"
	"strings"
)

// Job is one queued notification. Either Template names a registered
// template rendered with Data, or Subject and Text/HTML carry the message
// as is.
type Job struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Validate rejects jobs that can never be delivered.
func (j Job) Validate() error {
	if strings.TrimSpace(j.To) == "" {
		return fmt.Errorf("%w: missing recipient", ErrPermanent)
	}
	if j.Template == "" && (strings.TrimSpace(j.Subject) == "" || (j.Text == "" && j.HTML == "")) {
		return fmt.Errorf("%w: empty message", ErrPermanent)
	}
	return nil
}

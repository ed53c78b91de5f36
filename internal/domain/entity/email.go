package entity

import "encoding/json"

// Header names read from Gmail payloads
const (
	HeaderFrom    = "From"
	HeaderTo      = "To"
	HeaderCc      = "Cc"
	HeaderBcc     = "Bcc"
	HeaderSubject = "Subject"
)

// EmailHeader is a single provider header, in API order
type EmailHeader struct {
	Name  string `json:"name" bson:"name"`
	Value string `json:"value" bson:"value"`
}

// Recipients holds the trimmed, non-empty addresses of each recipient header
type Recipients struct {
	To  []string `json:"to"`
	Cc  []string `json:"cc"`
	Bcc []string `json:"bcc"`
}

// Email is a normalized Gmail message
type Email struct {
	ID         string
	Subject    string
	Body       string
	Sender     string
	Recipients Recipients
	Headers    []EmailHeader
}

// SimplifiedEmail is the classifier-facing form of an Email
type SimplifiedEmail struct {
	ID         string            `json:"id"`
	Subject    string            `json:"subject"`
	Body       string            `json:"body"`
	Sender     string            `json:"sender"`
	Recipients []string          `json:"recipients"`
	Headers    map[string]string `json:"headers"`
}

// CategorizationRequest is the body POSTed to the categorization service
type CategorizationRequest struct {
	Emails []SimplifiedEmail `json:"emails"`
}

// CategorizationResult is the categorization service response, passed through untouched
type CategorizationResult = json.RawMessage

// Simplify flattens the email for the categorization request.
// Recipients are to, cc, bcc in that order with duplicates kept.
func (e *Email) Simplify() SimplifiedEmail {
	recipients := make([]string, 0, len(e.Recipients.To)+len(e.Recipients.Cc)+len(e.Recipients.Bcc))
	recipients = append(recipients, e.Recipients.To...)
	recipients = append(recipients, e.Recipients.Cc...)
	recipients = append(recipients, e.Recipients.Bcc...)

	return SimplifiedEmail{
		ID:         e.ID,
		Subject:    e.Subject,
		Body:       e.Body,
		Sender:     e.Sender,
		Recipients: recipients,
		Headers:    CollapseKeepLast(e.Headers),
	}
}

// CollapseKeepLast maps headers by name; a repeated name keeps its last value
func CollapseKeepLast(headers []EmailHeader) map[string]string {
	collapsed := make(map[string]string, len(headers))
	for _, h := range headers {
		collapsed[h.Name] = h.Value
	}
	return collapsed
}

// SimplifyAll maps a batch of emails in order
func SimplifyAll(emails []*Email) []SimplifiedEmail {
	simplified := make([]SimplifiedEmail, 0, len(emails))
	for _, email := range emails {
		simplified = append(simplified, email.Simplify())
	}
	return simplified
}

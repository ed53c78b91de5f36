package gmail

import (
	"strings"

	"inboxpert-service/internal/domain/entity"

	"google.golang.org/api/gmail/v1"
)

const (
	mimeTypeHTML  = "text/html"
	mimeTypePlain = "text/plain"
)

// ConvertToEmail normalizes a full-format Gmail message.
// A message without a payload keeps only its ID.
func ConvertToEmail(msg *gmail.Message) *entity.Email {
	email := &entity.Email{
		ID:         msg.Id,
		Recipients: ExtractRecipients(nil),
		Headers:    []entity.EmailHeader{},
	}
	if msg.Payload == nil {
		return email
	}

	headers := convertHeaders(msg.Payload.Headers)
	email.Subject = FindFirst(headers, entity.HeaderSubject)
	email.Sender = FindFirst(headers, entity.HeaderFrom)
	email.Recipients = ExtractRecipients(headers)
	email.Headers = headers
	email.Body = ExtractBody(msg.Payload)

	return email
}

// ExtractBody returns the best text body of a payload: the payload's own
// body, else the first text/html part, else the first text/plain part.
func ExtractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}
	if hasBodyData(payload) {
		return DecodeBody(payload.Body.Data)
	}

	for _, mimeType := range []string{mimeTypeHTML, mimeTypePlain} {
		if part := findPart(payload.Parts, mimeType); part != nil && hasBodyData(part) {
			return DecodeBody(part.Body.Data)
		}
	}
	return ""
}

// FindFirst returns the value of the first header named exactly name, or ""
func FindFirst(headers []entity.EmailHeader, name string) string {
	for _, h := range headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// ExtractRecipients splits the first To, Cc and Bcc headers into address lists.
// Absent headers give empty, non-nil lists.
func ExtractRecipients(headers []entity.EmailHeader) entity.Recipients {
	return entity.Recipients{
		To:  splitAddresses(FindFirst(headers, entity.HeaderTo)),
		Cc:  splitAddresses(FindFirst(headers, entity.HeaderCc)),
		Bcc: splitAddresses(FindFirst(headers, entity.HeaderBcc)),
	}
}

func splitAddresses(value string) []string {
	addresses := []string{}
	for _, piece := range strings.Split(value, ",") {
		if addr := strings.TrimSpace(piece); addr != "" {
			addresses = append(addresses, addr)
		}
	}
	return addresses
}

func convertHeaders(headers []*gmail.MessagePartHeader) []entity.EmailHeader {
	converted := make([]entity.EmailHeader, 0, len(headers))
	for _, h := range headers {
		if h == nil {
			continue
		}
		converted = append(converted, entity.EmailHeader{Name: h.Name, Value: h.Value})
	}
	return converted
}

// findPart returns the first part with the given MIME type
func findPart(parts []*gmail.MessagePart, mimeType string) *gmail.MessagePart {
	for _, part := range parts {
		if part != nil && part.MimeType == mimeType {
			return part
		}
	}
	return nil
}

func hasBodyData(part *gmail.MessagePart) bool {
	return part.Body != nil && part.Body.Data != ""
}

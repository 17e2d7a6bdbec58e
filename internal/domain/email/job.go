package email

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/geocoder89/eventmail/internal/domain/participant"
)

// SendEmailsRequest is the body of POST /send-emails.
type SendEmailsRequest struct {
	Subject      string                    `json:"subject" binding:"required"`
	Body         string                    `json:"body" binding:"required"`
	IncludeQR    Flag                      `json:"include_qr"`
	Participants []participant.Participant `json:"participants" binding:"required,min=1"`
}

// Flag is a boolean that remembers whether it appeared in the JSON at all.
// An explicit null is present and false; only an omitted field is absent.
type Flag struct {
	Present bool
	Value   bool
}

// FlagOf is a present flag with value v.
func FlagOf(v bool) Flag {
	return Flag{Present: true, Value: v}
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	f.Present = true
	f.Value = false

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

func (f Flag) MarshalJSON() ([]byte, error) {
	if !f.Present {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Or returns the flag's value, or def when the field was omitted.
func (f Flag) Or(def bool) bool {
	if !f.Present {
		return def
	}
	return f.Value
}

// Job is one bulk send. It lives only for the duration of a request.
type Job struct {
	Subject      string
	Body         string
	IncludeQR    bool
	Participants []participant.Participant
}

func NewJobFromRequest(req SendEmailsRequest) Job {
	return Job{
		Subject:      req.Subject,
		Body:         req.Body,
		IncludeQR:    req.IncludeQR.Or(true),
		Participants: req.Participants,
	}
}

// Result tallies a finished job. Sent+Failed always equals the number of
// participants that were attempted.
type Result struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

func (r Result) Message() string {
	return fmt.Sprintf("Sent %d emails, %d failed", r.Sent, r.Failed)
}

package email

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/geocoder89/eventmail/internal/domain/participant"
)

func TestNewJobFromRequest_IncludeQRDefaultsToTrue(t *testing.T) {
	ps := []participant.Participant{{ID: "p1", Email: "a@example.com"}}

	j := NewJobFromRequest(SendEmailsRequest{Subject: "s", Body: "b", Participants: ps})
	if !j.IncludeQR {
		t.Fatalf("expected include_qr to default to true")
	}

	j = NewJobFromRequest(SendEmailsRequest{Subject: "s", Body: "b", IncludeQR: FlagOf(false), Participants: ps})
	if j.IncludeQR {
		t.Fatalf("expected include_qr=false to be honoured")
	}
	if len(j.Participants) != 1 || j.Participants[0].ID != "p1" {
		t.Fatalf("participants not carried over: %+v", j.Participants)
	}
}

func TestSendEmailsRequest_IncludeQRDecoding(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"omitted", `{"subject":"s","body":"b"}`, true},
		{"true", `{"subject":"s","body":"b","include_qr":true}`, true},
		{"false", `{"subject":"s","body":"b","include_qr":false}`, false},
		{"null", `{"subject":"s","body":"b","include_qr":null}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req SendEmailsRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("decode: %v", err)
			}

			if got := NewJobFromRequest(req).IncludeQR; got != tt.want {
				t.Fatalf("include_qr: got %v want %v", got, tt.want)
			}
		})
	}
}

func TestSendEmailsRequest_IncludeQRRejectsNonBoolean(t *testing.T) {
	var req SendEmailsRequest

	err := json.Unmarshal([]byte(`{"include_qr":"yes"}`), &req)
	if err == nil {
		t.Fatalf("expected a decode error for a string include_qr")
	}

	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected *json.UnmarshalTypeError, got %T: %v", err, err)
	}
}

func TestResultMessage(t *testing.T) {
	got := Result{Sent: 3, Failed: 2}.Message()
	if got != "Sent 3 emails, 2 failed" {
		t.Fatalf("unexpected message %q", got)
	}
}

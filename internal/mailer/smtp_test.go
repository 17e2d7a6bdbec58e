package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	mail "github.com/go-mail/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSender(dial func(m ...*mail.Message) error) *SMTPSender {
	s := NewSMTPSender(SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		User: "events@example.com",
		From: "Event Team <events@example.com>",
	})
	s.dial = dial
	return s
}

func TestSMTPSender_BuildsRelatedMessageWithInlineQR(t *testing.T) {
	var captured []*mail.Message
	s := testSender(func(m ...*mail.Message) error {
		captured = m
		return nil
	})

	err := s.Send(context.Background(), Message{
		To:      "ada@example.com",
		Subject: "Welcome",
		HTML:    `<p>Hello Ada,</p><img src="cid:abc" />`,
		Inline:  []InlineImage{{ContentID: "abc", ContentType: "image/png", Data: []byte("\x89PNGfake")}},
	})
	require.NoError(t, err)
	require.Len(t, captured, 1)

	var buf bytes.Buffer
	_, err = captured[0].WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "multipart/related")
	assert.Contains(t, raw, "Content-ID: <abc>")
	assert.Contains(t, raw, "Content-Type: image/png")
	assert.Contains(t, raw, "To: ada@example.com")
	assert.Contains(t, raw, "Subject: Welcome")
}

func TestSMTPSender_RejectsMalformedRecipient(t *testing.T) {
	called := false
	s := testSender(func(m ...*mail.Message) error {
		called = true
		return nil
	})

	err := s.Send(context.Background(), Message{To: "not an address"})

	assert.ErrorIs(t, err, ErrInvalidRecipient)
	assert.False(t, called, "relay should not be contacted")
}

func TestSMTPSender_WrapsRelayErrors(t *testing.T) {
	s := testSender(func(m ...*mail.Message) error {
		return errors.New("535 authentication failed")
	})

	err := s.Send(context.Background(), Message{To: "ada@example.com"})

	assert.ErrorIs(t, err, ErrRelay)
	assert.Contains(t, err.Error(), "535")
}

func TestSMTPSender_CanceledContext(t *testing.T) {
	s := testSender(func(m ...*mail.Message) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Send(ctx, Message{To: "ada@example.com"}), context.Canceled)
}

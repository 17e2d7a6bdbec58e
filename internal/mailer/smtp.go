package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	netmail "net/mail"

	mail "github.com/go-mail/mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPSender relays messages over SMTP with mandatory STARTTLS and PLAIN
// auth. A new connection is opened per message.
type SMTPSender struct {
	cfg  SMTPConfig
	dial func(m ...*mail.Message) error
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}

	return &SMTPSender{cfg: cfg, dial: d.DialAndSend}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := netmail.ParseAddress(msg.To); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidRecipient, msg.To, err)
	}

	if err := s.dial(s.build(msg)); err != nil {
		return fmt.Errorf("%w: %v", ErrRelay, err)
	}
	return nil
}

func (s *SMTPSender) build(msg Message) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	for _, img := range msg.Inline {
		data := img.Data
		m.Embed(img.ContentID+".png",
			mail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			mail.SetHeader(map[string][]string{
				"Content-ID":   {"<" + img.ContentID + ">"},
				"Content-Type": {img.ContentType},
			}),
		)
	}
	return m
}

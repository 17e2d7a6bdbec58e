package mailer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/geocoder89/eventmail/internal/domain/participant"
	"github.com/geocoder89/eventmail/internal/observability"
	"github.com/geocoder89/eventmail/internal/qr"
)

var (
	ErrInvalidRecipient = errors.New("invalid recipient address")
	ErrRelay            = errors.New("mail relay error")
)

// InlineImage is an image part referenced from the HTML body by cid.
type InlineImage struct {
	ContentID   string
	ContentType string
	Data        []byte
}

type Message struct {
	To      string
	Subject string
	HTML    string
	Inline  []InlineImage
}

// Sender hands a composed message to a transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// QREncoder renders a participant as a PNG.
type QREncoder func(participant.Participant) ([]byte, error)

// Mailer composes participant emails and sends them through a Sender.
type Mailer struct {
	sender   Sender
	encodeQR QREncoder
	newCID   func() string
	log      *slog.Logger
	prom     *observability.Prom
}

type Option func(*Mailer)

func WithQREncoder(enc QREncoder) Option {
	return func(m *Mailer) { m.encodeQR = enc }
}

func WithContentIDs(fn func() string) Option {
	return func(m *Mailer) { m.newCID = fn }
}

func New(sender Sender, log *slog.Logger, prom *observability.Prom, opts ...Option) *Mailer {
	if log == nil {
		log = slog.Default()
	}

	m := &Mailer{
		sender:   sender,
		encodeQR: qr.Encode,
		newCID:   uuid.NewString,
		log:      log,
		prom:     prom,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send emails one recipient. When p is non-nil the greeting uses the
// participant's name and a QR code of the participant is attached inline;
// if the QR code cannot be built the email goes out without it.
// Send never returns an error: every failure is logged and reported as false.
func (m *Mailer) Send(ctx context.Context, to, subject, body string, p *participant.Participant) bool {
	start := time.Now()

	ctx, span := observability.Tracer().Start(ctx, "mail.send")
	defer span.End()
	span.SetAttributes(attribute.Bool("mail.with_participant", p != nil))

	msg := m.Compose(ctx, to, subject, body, p)

	err := m.sender.Send(ctx, msg)
	m.prom.ObserveMail(start, err == nil)

	if err != nil {
		span.RecordError(err)
		m.log.ErrorContext(ctx, "sending email failed", "to", to, "err", err)
		return false
	}

	m.log.DebugContext(ctx, "email sent", "to", to, "qr", len(msg.Inline) > 0)
	return true
}

// Compose builds the message without sending it.
func (m *Mailer) Compose(ctx context.Context, to, subject, body string, p *participant.Participant) Message {
	msg := Message{
		To:      strings.TrimSpace(to),
		Subject: subject,
	}

	var (
		name string
		cid  string
	)

	if p != nil {
		name = p.Name

		img, err := m.encodeQR(*p)
		if err != nil {
			m.prom.IncQRFailure()
			m.log.WarnContext(ctx, "generating QR code failed, sending without it", "participant_id", p.ID, "err", err)
		} else {
			cid = m.newCID()
			msg.Inline = append(msg.Inline, InlineImage{
				ContentID:   cid,
				ContentType: "image/png",
				Data:        img,
			})
		}
	}

	msg.HTML = renderHTML(name, body, cid)
	return msg
}

func renderHTML(name, body, qrCID string) string {
	var b strings.Builder

	b.WriteString("<html>\n<body>\n")
	b.WriteString("<p>Hello " + name + ",</p>\n")
	b.WriteString("<p>" + body + "</p>\n")

	if qrCID != "" {
		b.WriteString("<p>Here is your QR code for the event:</p>\n")
		b.WriteString(`<img src="cid:` + qrCID + `" width="300" height="300" />` + "\n")
	}

	b.WriteString("<p>Regards,<br>Event Team</p>\n")
	b.WriteString("</body>\n</html>\n")

	return b.String()
}

package dispatch

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/geocoder89/eventmail/internal/domain/email"
	"github.com/geocoder89/eventmail/internal/domain/participant"
)

// MailSender is the Mailer contract: deliver one email, report success.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string, p *participant.Participant) bool
}

type Config struct {
	// Concurrency <= 1 sends strictly one email at a time, in order.
	Concurrency int
}

type Dispatcher struct {
	cfg    Config
	mailer MailSender
	log    *slog.Logger
}

func New(cfg Config, mailer MailSender, log *slog.Logger) *Dispatcher {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{cfg: cfg, mailer: mailer, log: log}
}

// Run sends the job to every participant and tallies the outcome. A failed
// send is counted and does not stop the rest. The only error is the context
// being done before every participant was attempted.
func (d *Dispatcher) Run(ctx context.Context, job email.Job) (email.Result, error) {
	var sent, failed atomic.Int64

	send := func(p participant.Participant) {
		var attach *participant.Participant
		if job.IncludeQR {
			attach = &p
		}

		if d.mailer.Send(ctx, p.Email, job.Subject, job.Body, attach) {
			sent.Add(1)
		} else {
			failed.Add(1)
		}
	}

	var err error
	if d.cfg.Concurrency == 1 {
		err = d.runSequential(ctx, job.Participants, send)
	} else {
		err = d.runPool(ctx, job.Participants, send)
	}

	res := email.Result{Sent: int(sent.Load()), Failed: int(failed.Load())}

	d.log.InfoContext(ctx, "email job finished",
		"participants", len(job.Participants),
		"sent", res.Sent,
		"failed", res.Failed,
		"include_qr", job.IncludeQR,
		"concurrency", d.cfg.Concurrency,
	)
	return res, err
}

func (d *Dispatcher) runSequential(ctx context.Context, ps []participant.Participant, send func(participant.Participant)) error {
	for _, p := range ps {
		if err := ctx.Err(); err != nil {
			return err
		}
		send(p)
	}
	return nil
}

func (d *Dispatcher) runPool(ctx context.Context, ps []participant.Participant, send func(participant.Participant)) error {
	var (
		g   errgroup.Group
		err error
	)
	g.SetLimit(d.cfg.Concurrency)

	for _, p := range ps {
		// g.Go blocks while the pool is full, so this check runs between sends
		if err = ctx.Err(); err != nil {
			break
		}

		p := p
		g.Go(func() error {
			send(p)
			return nil
		})
	}

	_ = g.Wait()
	return err
}

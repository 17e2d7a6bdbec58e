package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// LogSender only logs what would have been sent. Used in dev when no relay
// credentials are configured.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = slog.Default()
	}
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	// Optional: simulate slow relay
	if msStr := os.Getenv("MAIL_SLEEP_MS"); msStr != "" {
		ms, _ := strconv.Atoi(msStr)
		if ms > 0 {
			select {
			case <-time.After(time.Duration(ms) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	// Optional: simulate relay outage
	if os.Getenv("MAIL_FAIL") == "1" {
		return fmt.Errorf("%w: relay down (simulated)", ErrRelay)
	}

	s.log.InfoContext(ctx, "email that would be sent",
		"to", msg.To,
		"subject", msg.Subject,
		"inline_images", len(msg.Inline),
		"html_bytes", len(msg.HTML),
	)
	return nil
}

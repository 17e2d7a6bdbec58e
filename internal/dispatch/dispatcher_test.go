package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocoder89/eventmail/internal/domain/email"
	"github.com/geocoder89/eventmail/internal/domain/participant"
)

type call struct {
	to      string
	withQR  bool
	subject string
}

type fakeMailer struct {
	mu       sync.Mutex
	calls    []call
	failFor  map[string]bool
	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string, p *participant.Participant) bool {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		old := f.peak.Load()
		if n <= old || f.peak.CompareAndSwap(old, n) {
			break
		}
	}

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.calls = append(f.calls, call{to: to, withQR: p != nil, subject: subject})
	f.mu.Unlock()

	return !f.failFor[to]
}

func people(emails ...string) []participant.Participant {
	out := make([]participant.Participant, 0, len(emails))
	for i, e := range emails {
		out = append(out, participant.Participant{ID: string(rune('a' + i)), Email: e, EventName: "hackathon"})
	}
	return out
}

func TestRun_SequentialInOrderAndCounts(t *testing.T) {
	m := &fakeMailer{failFor: map[string]bool{"b@example.com": true, "d@example.com": true}}
	d := New(Config{}, m, nil)

	res, err := d.Run(context.Background(), email.Job{
		Subject:      "Hi",
		Body:         "Body",
		IncludeQR:    true,
		Participants: people("a@example.com", "b@example.com", "c@example.com", "d@example.com", "e@example.com"),
	})
	require.NoError(t, err)

	assert.Equal(t, email.Result{Sent: 3, Failed: 2}, res)
	assert.Equal(t, "Sent 3 emails, 2 failed", res.Message())

	got := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		got = append(got, c.to)
		assert.True(t, c.withQR)
	}
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com", "d@example.com", "e@example.com"}, got)
	assert.Equal(t, int32(1), m.peak.Load())
}

func TestRun_IncludeQRFalseSendsWithoutParticipant(t *testing.T) {
	m := &fakeMailer{}
	d := New(Config{Concurrency: 1}, m, nil)

	_, err := d.Run(context.Background(), email.Job{Subject: "s", Body: "b", Participants: people("a@example.com")})
	require.NoError(t, err)

	require.Len(t, m.calls, 1)
	assert.False(t, m.calls[0].withQR)
}

func TestRun_AllFailStillTallies(t *testing.T) {
	m := &fakeMailer{failFor: map[string]bool{"a@example.com": true, "b@example.com": true}}
	d := New(Config{}, m, nil)

	res, err := d.Run(context.Background(), email.Job{Subject: "s", Body: "b", Participants: people("a@example.com", "b@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Sent 0 emails, 2 failed", res.Message())
}

func TestRun_PoolKeepsCountingContractAndLimit(t *testing.T) {
	emails := make([]string, 0, 20)
	fail := map[string]bool{}
	for i := 0; i < 20; i++ {
		e := string(rune('a'+i)) + "@example.com"
		emails = append(emails, e)
		if i%4 == 0 {
			fail[e] = true
		}
	}

	m := &fakeMailer{failFor: fail, delay: 5 * time.Millisecond}
	d := New(Config{Concurrency: 3}, m, nil)

	res, err := d.Run(context.Background(), email.Job{Subject: "s", Body: "b", IncludeQR: true, Participants: people(emails...)})
	require.NoError(t, err)

	assert.Equal(t, email.Result{Sent: 15, Failed: 5}, res)
	assert.Len(t, m.calls, 20)
	assert.LessOrEqual(t, m.peak.Load(), int32(3))
}

func TestRun_CanceledContextStopsEarly(t *testing.T) {
	m := &fakeMailer{}
	d := New(Config{}, m, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := d.Run(ctx, email.Job{Subject: "s", Body: "b", Participants: people("a@example.com", "b@example.com")})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Sent+res.Failed)
	assert.Empty(t, m.calls)
}

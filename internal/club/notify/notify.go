// Package notify delivers member notifications. Delivery itself (email,
// chat, ...) lives behind Sender; the club only decides what to send.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// Template keys understood by senders.
const (
	TemplateInvitation    = "invitation"
	TemplatePasswordReset = "password_reset"
)

// Message is a single notification to one recipient.
type Message struct {
	Recipient   string
	TemplateKey string
	Context     map[string]string
}

// Sender delivers a message. Errors are reported to callers as warnings and
// never undo committed work.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the structured log instead of delivering
// them. Values under secret keys are redacted.
type LogSender struct {
	Logger *slog.Logger
}

// secretKeys never reach the log.
var secretKeys = map[string]bool{
	"token":    true,
	"password": true,
	"link":     true,
}

func (s LogSender) Send(ctx context.Context, msg Message) error {
	log := s.Logger
	if log == nil {
		log = slogx.FromContext(ctx)
	}

	attrs := make([]any, 0, len(msg.Context)+2)
	attrs = append(attrs,
		slog.String("recipient", msg.Recipient),
		slog.String("template", msg.TemplateKey),
	)
	for k, v := range msg.Context {
		if secretKeys[k] {
			v = "[redacted]"
		}
		attrs = append(attrs, slog.String("ctx."+k, v))
	}
	log.InfoContext(ctx, "notification queued", attrs...)
	return nil
}

// Recorder keeps every message in memory. Setting Err makes Send fail after
// recording, which lets tests exercise the warning path.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return r.Err
}

// Messages returns a copy of everything sent so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Last returns the most recent message for recipient.
func (r *Recorder) Last(recipient string) (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].Recipient == recipient {
			return r.messages[i], true
		}
	}
	return Message{}, false
}

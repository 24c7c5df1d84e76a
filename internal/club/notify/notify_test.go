package notify_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aussiebroadwan/clubhouse/internal/club/notify"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestLogSenderRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	log := slogx.New(slogx.Config{Level: "debug", Format: "json", Output: &buf})

	err := notify.LogSender{Logger: log}.Send(context.Background(), notify.Message{
		Recipient:   "a@example.org",
		TemplateKey: notify.TemplateInvitation,
		Context:     map[string]string{"token": "s3cret", "name": "Alice"},
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "a@example.org")
	require.Contains(t, out, "Alice")
	require.NotContains(t, out, "s3cret")
}

func TestRecorder(t *testing.T) {
	r := &notify.Recorder{}
	ctx := context.Background()

	require.NoError(t, r.Send(ctx, notify.Message{Recipient: "a", TemplateKey: "one"}))
	require.NoError(t, r.Send(ctx, notify.Message{Recipient: "a", TemplateKey: "two"}))

	last, ok := r.Last("a")
	require.True(t, ok)
	require.Equal(t, "two", last.TemplateKey)

	_, ok = r.Last("b")
	require.False(t, ok)

	r.Err = errors.New("smtp down")
	require.Error(t, r.Send(ctx, notify.Message{Recipient: "b"}))
	require.Len(t, r.Messages(), 3)
}

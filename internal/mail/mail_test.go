package mail

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestResetMessage(t *testing.T) {
	var buf bytes.Buffer
	_, err := ResetMessage("noreply@beans.dev", "bob@example.com", "abc123").WriteTo(&buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Subject: Password Reset")
	assert.Contains(t, out, "To: bob@example.com")
	assert.Contains(t, out, "abc123")
}

func TestSMTPMailer_RejectsMalformedRecipient(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25, From: "noreply@beans.dev"})
	err := m.SendResetCode(context.Background(), "not an email", "code")
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewLogMailer(zap.New(core))

	require.NoError(t, m.SendResetCode(context.Background(), "bob@example.com", "abc123"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "bob@example.com", entry.ContextMap()["to"])
	assert.NotContains(t, entry.Message, "abc123")
}

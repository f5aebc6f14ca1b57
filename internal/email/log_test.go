package email

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewTextHandler(&buf, nil)))

	id, err := sender.Send(context.Background(), &Email{To: []string{"a@b.test"}, Subject: "Order Confirmation - BW-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Contains(t, buf.String(), "Order Confirmation - BW-1")

	_, err = sender.Send(context.Background(), &Email{})
	assert.ErrorIs(t, err, ErrNoRecipient)
}

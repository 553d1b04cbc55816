package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r, err := newRenderer("WalkyDoggy", "http://localhost:5173/")
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	t.Run("verification", func(t *testing.T) {
		msg, err := r.render(kindVerify, "Jane", "abc+123")
		require.NoError(t, err)
		assert.Equal(t, "Verify Your Email - WalkyDoggy", msg.Subject)
		assert.Contains(t, msg.Text, "http://localhost:5173/verify-email?token=abc%2B123")
		assert.Contains(t, msg.Text, "24 hours")
		assert.Contains(t, msg.HTML, "Hi Jane,")
		assert.Contains(t, msg.HTML, "2025 WalkyDoggy")
	})

	t.Run("reset", func(t *testing.T) {
		msg, err := r.render(kindReset, "Jane", "deadbeef")
		require.NoError(t, err)
		assert.Equal(t, "Reset Your Password - WalkyDoggy", msg.Subject)
		assert.Contains(t, msg.Text, "http://localhost:5173/reset-password?token=deadbeef")
		assert.Contains(t, msg.Text, "1 hour")
	})

	t.Run("html escapes names", func(t *testing.T) {
		msg, err := r.render(kindVerify, "<script>", "x")
		require.NoError(t, err)
		assert.NotContains(t, msg.HTML, "<script>")
		assert.Contains(t, msg.HTML, "&lt;script&gt;")
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := r.render("welcome", "Jane", "x")
		assert.Error(t, err)
	})
}

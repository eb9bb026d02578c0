package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "legalbooks/pkg/domain-errors"
)

func TestChannelLifecycle(t *testing.T) {
	c := NewChannel(ChannelEmail, 4)
	assert.Equal(t, StateIdle, c.State)
	assert.False(t, c.Verified())

	require.NoError(t, c.MarkSent("user@example.com"))
	assert.Equal(t, StateSent, c.State)
	assert.Equal(t, "user@example.com", c.Entity)

	require.NoError(t, c.MarkVerified())
	assert.True(t, c.Verified())

	// A verified channel rejects another send.
	err := c.MarkSent("user@example.com")
	assert.True(t, dErrors.Is(err, dErrors.CodeConflict))
}

func TestChannelResendClearsDigits(t *testing.T) {
	c := NewChannel(ChannelMobile, 4)
	require.NoError(t, c.MarkSent("9876543210"))

	_, err := c.EnterDigit(0, "1")
	require.NoError(t, err)
	_, err = c.EnterDigit(1, "2")
	require.NoError(t, err)

	require.NoError(t, c.MarkSent("9876543210"))
	assert.Equal(t, []string{"", "", "", ""}, c.Digits)
}

func TestEnterDigitAutoAdvance(t *testing.T) {
	c := NewChannel(ChannelEmail, 4)
	require.NoError(t, c.MarkSent("user@example.com"))

	next, err := c.EnterDigit(0, "4")
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	next, err = c.EnterDigit(3, "7")
	require.NoError(t, err)
	assert.Equal(t, 4, next, "filling the last slot moves focus past the end")

	// Clearing a slot keeps focus in place.
	next, err = c.EnterDigit(2, "")
	require.NoError(t, err)
	assert.Equal(t, 2, next)
}

func TestEnterDigitValidation(t *testing.T) {
	c := NewChannel(ChannelEmail, 4)

	_, err := c.EnterDigit(0, "1")
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput), "digits rejected before a send")

	require.NoError(t, c.MarkSent("user@example.com"))

	_, err = c.EnterDigit(0, "12")
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))

	_, err = c.EnterDigit(0, "x")
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))

	_, err = c.EnterDigit(9, "1")
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
}

func TestCode(t *testing.T) {
	c := NewChannel(ChannelEmail, 4)
	require.NoError(t, c.MarkSent("user@example.com"))

	for i, d := range []string{"0", "4", "2", "9"} {
		_, err := c.EnterDigit(i, d)
		require.NoError(t, err)
	}

	code, err := c.Code()
	require.NoError(t, err)
	assert.Equal(t, 429, code, "leading zeros survive numeric conversion")
}

func TestCodeIncomplete(t *testing.T) {
	c := NewChannel(ChannelEmail, 4)
	require.NoError(t, c.MarkSent("user@example.com"))

	_, err := c.EnterDigit(0, "1")
	require.NoError(t, err)

	_, err = c.Code()
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
}

func TestReset(t *testing.T) {
	c := NewChannel(ChannelEmail, 4)
	require.NoError(t, c.MarkSent("old@example.com"))
	_, err := c.EnterDigit(0, "5")
	require.NoError(t, err)

	c.Reset()

	assert.Equal(t, StateIdle, c.State)
	assert.Empty(t, c.Entity)
	assert.Equal(t, []string{"", "", "", ""}, c.Digits)

	err = c.MarkVerified()
	assert.Error(t, err, "verification requires a fresh send after reset")
}

// Package otp models the per-channel one-time-code verification sub-flow.
// The state machine is pure; network calls against the generate/validate
// endpoints live in the registration service.
package otp

import (
	"strconv"
	"strings"

	dErrors "legalbooks/pkg/domain-errors"
)

// ChannelType names a verification channel.
type ChannelType string

const (
	ChannelEmail  ChannelType = "email"
	ChannelMobile ChannelType = "mobile"
)

// State is the channel lifecycle: Idle → Sent → Verified. Sent is
// re-enterable (resend); email additionally supports a reset back to Idle
// when the user changes the address.
type State string

const (
	StateIdle     State = "idle"
	StateSent     State = "sent"
	StateVerified State = "verified"
)

// Channel tracks one verification channel of a registration draft.
type Channel struct {
	Type   ChannelType `json:"type"`
	State  State       `json:"state"`
	Entity string      `json:"entity"`
	Digits []string    `json:"digits"`
}

// NewChannel creates an idle channel with the given number of digit slots.
func NewChannel(t ChannelType, digits int) *Channel {
	return &Channel{
		Type:   t,
		State:  StateIdle,
		Digits: make([]string, digits),
	}
}

// MarkSent records that a code was sent to entity and clears any previously
// entered digits. Valid from Idle (first send) and Sent (resend).
func (c *Channel) MarkSent(entity string) error {
	if c.State == StateVerified {
		return dErrors.New(dErrors.CodeConflict, string(c.Type)+" is already verified")
	}
	c.State = StateSent
	c.Entity = entity
	c.clearDigits()
	return nil
}

// EnterDigit stores one digit and returns the index of the slot that should
// receive focus next (the auto-advance behavior of the digit boxes). The
// returned index equals len(Digits) when the last slot was filled.
func (c *Channel) EnterDigit(index int, value string) (int, error) {
	if c.State != StateSent {
		return index, dErrors.New(dErrors.CodeInvalidInput, "no OTP has been requested for "+string(c.Type))
	}
	if index < 0 || index >= len(c.Digits) {
		return index, dErrors.Newf(dErrors.CodeInvalidInput, "digit index out of range: %d", index)
	}
	if value != "" {
		if len(value) != 1 || value[0] < '0' || value[0] > '9' {
			return index, dErrors.New(dErrors.CodeInvalidInput, "OTP digits must be single numerals")
		}
	}
	c.Digits[index] = value
	if value != "" {
		return index + 1, nil
	}
	return index, nil
}

// Code assembles the candidate OTP from the digit slots.
func (c *Channel) Code() (int, error) {
	joined := strings.Join(c.Digits, "")
	if len(joined) != len(c.Digits) {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "OTP is incomplete")
	}
	code, err := strconv.Atoi(joined)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "OTP must be numeric")
	}
	return code, nil
}

// MarkVerified completes the channel. Valid only from Sent.
func (c *Channel) MarkVerified() error {
	if c.State != StateSent {
		return dErrors.New(dErrors.CodeInvalidInput, "no OTP has been requested for "+string(c.Type))
	}
	c.State = StateVerified
	return nil
}

// Reset returns the channel to Idle, discarding the entity and any digits.
// Used by the change-email transition.
func (c *Channel) Reset() {
	c.State = StateIdle
	c.Entity = ""
	c.clearDigits()
}

// Verified reports whether the channel completed verification.
func (c *Channel) Verified() bool { return c.State == StateVerified }

func (c *Channel) clearDigits() {
	for i := range c.Digits {
		c.Digits[i] = ""
	}
}

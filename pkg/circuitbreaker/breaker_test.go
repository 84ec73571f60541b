package circuitbreaker

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_PassesThroughResult(t *testing.T) {
	cb := New(DefaultConfig("test"))

	got, err := Execute(cb, func() (string, error) { return "lead-1", nil })
	require.NoError(t, err)
	assert.Equal(t, "lead-1", got)
}

func TestExecute_TripsAfterFailures(t *testing.T) {
	cb := New(DefaultConfig("crm"))
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		_, err := Execute(cb, func() (int, error) { return 0, boom })
		require.ErrorIs(t, err, boom)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())

	called := false
	_, err := Execute(cb, func() (int, error) {
		called = true
		return 1, nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.True(t, IsOpen(err))
	assert.Contains(t, err.Error(), "circuit breaker 'crm' is open")
}

func TestExecute_IsSuccessfulErrorsDoNotTrip(t *testing.T) {
	rejected := errors.New("rejected")
	cfg := DefaultConfig("crm")
	cfg.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, rejected) }
	cb := New(cfg)

	for i := 0; i < 5; i++ {
		_, err := Execute(cb, func() (int, error) { return 0, rejected })
		require.ErrorIs(t, err, rejected)
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
	got, err := Execute(cb, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestFormatError_PassThrough(t *testing.T) {
	plain := errors.New("plain")
	assert.Equal(t, plain, FormatError("x", plain))
	assert.False(t, IsOpen(plain))
}

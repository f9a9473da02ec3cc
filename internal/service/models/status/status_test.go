package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses() {
		parsed, err := ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseStatus("shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseStatus("")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())

	for _, s := range []Status{StatusPending, StatusPlaced, StatusInTransit, StatusArrived} {
		assert.False(t, s.IsTerminal(), "%s must not be terminal", s)
	}
}

func TestValidate_AllowedEdges(t *testing.T) {
	allowed := []struct {
		from Status
		to   Status
	}{
		{StatusPending, StatusPlaced},
		{StatusPending, StatusCancelled},
		{StatusPlaced, StatusInTransit},
		{StatusPlaced, StatusCancelled},
		{StatusInTransit, StatusArrived},
		{StatusInTransit, StatusCancelled},
		{StatusArrived, StatusCompleted},
		{StatusArrived, StatusCancelled},
	}

	for _, tc := range allowed {
		assert.NoError(t, Validate(tc.from, tc.to), "%s→%s must be allowed", tc.from, tc.to)
		assert.True(t, CanTransition(tc.from, tc.to))
	}
}

func TestValidate_DeniesEverythingOffTheGraph(t *testing.T) {
	allowed := map[Status]map[Status]bool{
		StatusPending:   {StatusPlaced: true, StatusCancelled: true},
		StatusPlaced:    {StatusInTransit: true, StatusCancelled: true},
		StatusInTransit: {StatusArrived: true, StatusCancelled: true},
		StatusArrived:   {StatusCompleted: true, StatusCancelled: true},
	}

	for _, from := range Statuses() {
		for _, to := range Statuses() {
			if allowed[from][to] {
				continue
			}

			err := Validate(from, to)
			require.Error(t, err, "%s→%s must be denied", from, to)

			var illegal *IllegalTransitionError
			require.True(t, errors.As(err, &illegal))
			assert.Equal(t, from, illegal.From)
			assert.Equal(t, to, illegal.To)
		}
	}
}

func TestValidate_TerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []Status{StatusCompleted, StatusCancelled} {
		for _, to := range Statuses() {
			assert.Error(t, Validate(terminal, to), "%s→%s must be denied", terminal, to)
		}
	}
}

func TestValidate_SelfTransitionDenied(t *testing.T) {
	for _, s := range Statuses() {
		err := Validate(s, s)
		require.Error(t, err, "%s→%s must be denied", s, s)

		var illegal *IllegalTransitionError
		require.True(t, errors.As(err, &illegal))
		assert.Equal(t, s, illegal.From)
		assert.Equal(t, s, illegal.To)
	}
}

func TestIllegalTransitionError_Message(t *testing.T) {
	err := &IllegalTransitionError{From: StatusCompleted, To: StatusCancelled}
	assert.Equal(t, "illegal transition completed→cancelled", err.Error())
}

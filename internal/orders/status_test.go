package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusConfirmed, StatusReadyForPickup},
		{StatusReadyForPickup, StatusPickedUp},
		{StatusReadyForPickup, StatusDelivering},
		{StatusPickedUp, StatusDelivering},
		{StatusDelivering, StatusDelivered},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusReadyForPickup},
		{StatusPending, StatusDelivered},
		{StatusConfirmed, StatusPending},
		{StatusDelivered, StatusConfirmed},
		{StatusDelivering, StatusPending},
		{StatusPickedUp, StatusReadyForPickup},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCancelReachableFromNonTerminalOnly(t *testing.T) {
	nonTerminal := []Status{
		StatusPending, StatusConfirmed, StatusReadyForPickup, StatusPickedUp, StatusDelivering,
	}
	for _, s := range nonTerminal {
		assert.True(t, CanTransition(s, StatusCanceled), "%s -> CANCELED", s)
		assert.False(t, s.Terminal())
	}

	assert.False(t, CanTransition(StatusDelivered, StatusCanceled))
	assert.False(t, CanTransition(StatusCanceled, StatusCanceled))
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCanceled.Terminal())
}

func TestTerminalStatesHaveNoSuccessors(t *testing.T) {
	all := []Status{
		StatusPending, StatusConfirmed, StatusReadyForPickup, StatusPickedUp,
		StatusDelivering, StatusDelivered, StatusCanceled,
	}
	for _, to := range all {
		assert.False(t, CanTransition(StatusDelivered, to))
		assert.False(t, CanTransition(StatusCanceled, to))
	}
}

func TestStatusKnown(t *testing.T) {
	assert.True(t, StatusPending.Known())
	assert.True(t, StatusCanceled.Known())
	assert.False(t, Status("SHIPPED").Known())
	assert.False(t, Status("").Known())
}

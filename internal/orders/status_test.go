package orders

import (
	"testing"

	"pazaryeri-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to models.OrderStatus }{
		{models.OrderStatusPending, models.OrderStatusConfirmed},
		{models.OrderStatusPending, models.OrderStatusCancelled},
		{models.OrderStatusConfirmed, models.OrderStatusProcessing},
		{models.OrderStatusConfirmed, models.OrderStatusCancelled},
		{models.OrderStatusProcessing, models.OrderStatusShipped},
		{models.OrderStatusProcessing, models.OrderStatusCancelled},
		{models.OrderStatusShipped, models.OrderStatusDelivered},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s izinli olmalı", tc.from, tc.to)
	}

	forbidden := []struct{ from, to models.OrderStatus }{
		{models.OrderStatusPending, models.OrderStatusShipped},
		{models.OrderStatusPending, models.OrderStatusDelivered},
		{models.OrderStatusConfirmed, models.OrderStatusShipped},
		{models.OrderStatusShipped, models.OrderStatusCancelled}, // kargodan sonra iptal yok
		{models.OrderStatusShipped, models.OrderStatusPending},
		{models.OrderStatusProcessing, models.OrderStatusPending},
	}
	for _, tc := range forbidden {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s izinli olmamalı", tc.from, tc.to)
	}
}

func TestCanTransition_TerminalStates(t *testing.T) {
	all := []models.OrderStatus{
		models.OrderStatusPending, models.OrderStatusConfirmed,
		models.OrderStatusProcessing, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled,
	}

	for _, to := range all {
		assert.False(t, CanTransition(models.OrderStatusDelivered, to), "delivered uç durumdur")
		assert.False(t, CanTransition(models.OrderStatusCancelled, to), "cancelled uç durumdur")
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(models.OrderStatusPending))
	assert.True(t, ValidStatus(models.OrderStatusDelivered))
	assert.False(t, ValidStatus("paused"))
	assert.False(t, ValidStatus(""))
}

func TestTransition_StaleReadLosesConditionalWrite(t *testing.T) {
	status := models.OrderStatusPending
	flip := func(from, to models.OrderStatus) (bool, error) {
		if status != from {
			return false, nil
		}
		status = to
		return true, nil
	}

	// iptal önce yazar
	require.NoError(t, Transition(models.OrderStatusPending, models.OrderStatusCancelled, flip))
	require.Equal(t, models.OrderStatusCancelled, status)

	// pending okuması bayatlamış onay tabloyu geçer ama yazamaz;
	// uç durum confirmed ile ezilmez
	err := Transition(models.OrderStatusPending, models.OrderStatusConfirmed, flip)
	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.Equal(t, models.OrderStatusCancelled, status)
}

func TestTransition_InvalidPairSkipsWrite(t *testing.T) {
	flipped := false
	flip := func(from, to models.OrderStatus) (bool, error) {
		flipped = true
		return true, nil
	}

	err := Transition(models.OrderStatusShipped, models.OrderStatusCancelled, flip)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.False(t, flipped)
}

package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/balkashynov/cafedesk/internal/models"
)

func TestState_Transitions(t *testing.T) {
	assert.True(t, models.StatePlanned.CanTransitionTo(models.StateActive))
	assert.True(t, models.StateActive.CanTransitionTo(models.StateCompleted))

	assert.False(t, models.StatePlanned.CanTransitionTo(models.StateCompleted))
	assert.False(t, models.StateActive.CanTransitionTo(models.StatePlanned))
	assert.False(t, models.StateCompleted.CanTransitionTo(models.StateActive))
	assert.False(t, models.StateCompleted.CanTransitionTo(models.StatePlanned))
	assert.False(t, models.State("PAUSED").CanTransitionTo(models.StateActive))

	_, ok := models.StateCompleted.Next()
	assert.False(t, ok)
}

func TestEnums_Valid(t *testing.T) {
	assert.True(t, models.StateActive.Valid())
	assert.False(t, models.State("active").Valid())

	for _, m := range models.PaymentMethods {
		assert.True(t, m.Valid(), m)
	}
	assert.False(t, models.PaymentMethod("Card").Valid())

	assert.True(t, models.PaymentPending.Valid())
	assert.False(t, models.PaymentStatus("Paid-Cash").Valid())

	assert.True(t, models.InUse.Valid())
	assert.False(t, models.Availability("Broken").Valid())
}

func TestSession_SystemName(t *testing.T) {
	s := &models.Session{}
	assert.Equal(t, "(removed)", s.SystemName())

	s.System = &models.System{Name: "PC-01"}
	assert.Equal(t, "PC-01", s.SystemName())
}

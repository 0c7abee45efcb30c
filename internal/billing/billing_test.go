package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBill(t *testing.T) {
	assert.Equal(t, 550.0, CalculateBill(120, 250, 50))
	assert.Equal(t, 500.0, CalculateBill(150, 200, 0))
	assert.Equal(t, 200.0, CalculateBill(60, 200, 0))
	assert.Equal(t, 0.0, CalculateBill(0, 200, 0))
	assert.Equal(t, 25.0, CalculateBill(0, 200, 25))

	// 7 minutes at 100/h = 11.666...
	assert.Equal(t, 11.67, CalculateBill(7, 100, 0))
}

func TestCalculateBill_Linear(t *testing.T) {
	base := CalculateBill(90, 120, 0)
	assert.Equal(t, 2*base, CalculateBill(90, 240, 0), "doubling the rate doubles the bill")
	assert.Equal(t, base+30, CalculateBill(90, 120, 30), "extra charges add on top")
}

func TestRound_HalfUp(t *testing.T) {
	assert.Equal(t, 0.13, Round(0.125))
	assert.Equal(t, 2.68, Round(2.675))
	assert.Equal(t, 1.01, Round(1.005))
	assert.Equal(t, 1.0, Round(1.004))
}

func TestExtensionCost(t *testing.T) {
	assert.Equal(t, 100.0, ExtensionCost(60, 100))
	assert.Equal(t, 150.0, ExtensionCost(90, 100))
	assert.Equal(t, 33.33, ExtensionCost(20, 100))
	assert.Zero(t, ExtensionCost(0, 100))
}

func TestAddAndSum(t *testing.T) {
	assert.Equal(t, 0.3, Add(0.1, 0.2))
	assert.Equal(t, 525.0, Add(500, 25))
	assert.Equal(t, 0.6, Sum(0.1, 0.2, 0.3))
	assert.Equal(t, 0.0, Sum())
}

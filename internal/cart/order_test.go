package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_TotalsAndClears(t *testing.T) {
	prices := priceMap{"A": dec("50"), "B": dec("30")}
	c := New()
	require.NoError(t, c.Add("A", prices))
	require.NoError(t, c.Add("A", prices))
	require.NoError(t, c.Add("B", prices))

	order := Submit(c)

	assert.Equal(t, 3, order.TotalItems)
	assert.True(t, order.TotalPrice.Equal(dec("130")))
	assert.Equal(t, "₹130.00", order.DisplayTotal())
	assert.Empty(t, c.Snapshot())
}

func TestSubmit_EmptyCartIsNoop(t *testing.T) {
	c := New()

	order := Submit(c)

	assert.Zero(t, order.TotalItems)
	assert.True(t, order.TotalPrice.IsZero())
	assert.Equal(t, "₹0.00", order.DisplayTotal())
	assert.True(t, c.IsEmpty())
}

func TestSubmit_KeepsFullPrecision(t *testing.T) {
	prices := priceMap{"Tea": dec("58.9882")}
	c := New()
	require.NoError(t, c.Add("Tea", prices))
	require.NoError(t, c.Add("Tea", prices))

	order := Submit(c)

	assert.True(t, order.TotalPrice.Equal(dec("117.9764")))
	assert.Equal(t, "₹117.98", order.DisplayTotal())
}

func TestTotals_DoesNotClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("A", priceMap{"A": dec("10")}))

	order := Totals(c)

	assert.Equal(t, 1, order.TotalItems)
	assert.False(t, c.IsEmpty())
}

package status_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"marketplace/internal/core/domain/model/status"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFulfillment_StringRoundTrip(t *testing.T) {
	persisted := []string{
		"Pending", "Placed", "Processing", "Partially Fulfilled", "Fulfilled", "Awaiting Shipment",
		"Partially Shipped", "Shipped", "Partially Delivered", "Delivered", "Partially Cancelled",
		"Cancelled", "Partially Returned", "Returned", "Archived",
	}

	for _, s := range persisted {
		t.Run(s, func(t *testing.T) {
			f, err := status.ParseFulfillment(s)

			require.NoError(t, err)
			require.NoError(t, f.Validate())
			assert.Equal(t, s, f.String())
		})
	}

	_, err := status.ParseFulfillment("Lost")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, "Unknown", status.FulfillmentUnknown.String())
	require.Error(t, status.FulfillmentUnknown.Validate())
}

func TestFulfillment_CanTransitionTo(t *testing.T) {
	allowed := map[status.Fulfillment][]status.Fulfillment{
		status.Pending:            {status.Fulfilled},
		status.PartiallyCancelled: {status.Fulfilled},
		status.Fulfilled:          {status.AwaitingShipment, status.Shipped},
		status.AwaitingShipment:   {status.Shipped},
		status.Shipped:            {status.Delivered},
	}

	all := []status.Fulfillment{
		status.Pending, status.Placed, status.Processing, status.PartiallyFulfilled, status.Fulfilled,
		status.AwaitingShipment, status.PartiallyShipped, status.Shipped, status.PartiallyDelivered,
		status.Delivered, status.PartiallyCancelled, status.Cancelled, status.PartiallyReturned,
		status.Returned, status.Archived,
	}

	for _, from := range all {
		for _, to := range all {
			expected := false
			for _, a := range allowed[from] {
				if a == to {
					expected = true
				}
			}

			t.Run(fmt.Sprintf("%s to %s", from, to), func(t *testing.T) {
				err := from.CanTransitionTo(to)
				if expected {
					require.NoError(t, err)
					return
				}
				require.ErrorIs(t, err, errs.ErrConflict)
			})
		}
	}
}

func TestFulfillment_PendingToShippedIsConflict(t *testing.T) {
	err := status.Pending.CanTransitionTo(status.Shipped)

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	assert.Contains(t, err.Error(), "cannot move from Pending to Shipped")
}

func TestFulfillment_IsCancellable(t *testing.T) {
	assert.True(t, status.Pending.IsCancellable())
	assert.True(t, status.PartiallyCancelled.IsCancellable())
	assert.False(t, status.Fulfilled.IsCancellable())
	assert.False(t, status.Shipped.IsCancellable())
	assert.False(t, status.Cancelled.IsCancellable())
}

func TestFulfillment_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]status.Fulfillment{"status": status.AwaitingShipment})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Awaiting Shipment"}`, string(data))

	var decoded map[string]status.Fulfillment
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Partially Cancelled"}`), &decoded))
	assert.Equal(t, status.PartiallyCancelled, decoded["status"])
}

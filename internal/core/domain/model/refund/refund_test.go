package refund_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/refund"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefund(t *testing.T) {
	now := time.Now().UTC()

	r, err := refund.NewRefund(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		kernel.MustMoney("23.00"), "USD", "changed my mind", 2, "re_123", now)

	require.NoError(t, err)
	require.NoError(t, r.Validate())
	assert.Equal(t, refund.Completed, r.Status())
	assert.Equal(t, "23.00", r.Amount().String())
	assert.Equal(t, 2, r.Quantity())
}

func TestNewRefund_Validation(t *testing.T) {
	now := time.Now().UTC()

	_, err := refund.NewRefund(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		kernel.MustMoney("1"), "USD", "", 1, "", now)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = refund.NewRefund(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		kernel.MustMoney("-1"), "USD", "", 0, "re_1", now)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = refund.RestoreRefund(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		kernel.MustMoney("1"), "USD", "", 1, "", refund.Status("pending"), now)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

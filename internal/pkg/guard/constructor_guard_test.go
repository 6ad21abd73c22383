package guard_test

import (
	"errors"
	"sync"
	"testing"

	"marketplace/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("CancelItemCommand must be created via NewCancelItemCommand")

		err := g.Validate(expected)

		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	type refundCommand struct {
		orderID string
		guard   guard.ConstructorGuard
	}
	errNotConstructed := errors.New("refundCommand must be created via newRefundCommand")

	newRefundCommand := func(orderID string) (refundCommand, error) {
		if orderID == "" {
			return refundCommand{}, errors.New("order id is required")
		}
		return refundCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
	}

	cmd, err := newRefundCommand("o-1")
	require.NoError(t, err)
	require.NoError(t, cmd.guard.Validate(errNotConstructed))

	var literal refundCommand
	assert.Equal(t, errNotConstructed, literal.guard.Validate(errNotConstructed))

	failed, err := newRefundCommand("")
	require.Error(t, err)
	assert.Equal(t, errNotConstructed, failed.guard.Validate(errNotConstructed))
}

func TestConstructorGuard_ConcurrentValidate(t *testing.T) {
	g := guard.NewConstructorGuard()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, g.Validate(nil))
		}()
	}
	wg.Wait()
}

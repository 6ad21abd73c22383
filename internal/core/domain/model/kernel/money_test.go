package kernel_test

import (
	"encoding/json"
	"testing"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Rounding(t *testing.T) {
	assert.Equal(t, "1.01", kernel.MustMoney("1.005").String())
	assert.Equal(t, "-1.01", kernel.MustMoney("-1.005").String())
	assert.Equal(t, "12.00", kernel.MustMoney("12").String())
	assert.Equal(t, int64(1250), kernel.MustMoney("12.5").Cents())
	assert.Equal(t, "0.07", kernel.MustMoney("0.5").Mul(decimal.RequireFromString("0.13")).String())
}

func TestMoney_ProRate(t *testing.T) {
	total := kernel.MustMoney("10.00")

	assert.Equal(t, "3.33", total.ProRate(1, 3).String())
	assert.Equal(t, "6.67", total.ProRate(2, 3).String())
	assert.Equal(t, "0.00", total.ProRate(1, 0).String())
}

func TestMoney_Allocate(t *testing.T) {
	t.Run("proportional shipping split", func(t *testing.T) {
		shipping := kernel.MustMoney("12.00")

		shares := shipping.Allocate([]kernel.Money{kernel.MustMoney("20"), kernel.MustMoney("30")})

		require.Len(t, shares, 2)
		assert.Equal(t, "4.80", shares[0].String())
		assert.Equal(t, "7.20", shares[1].String())
	})

	t.Run("remainders sum to total", func(t *testing.T) {
		total := kernel.MustMoney("10.00")
		weights := []kernel.Money{kernel.MustMoney("1"), kernel.MustMoney("1"), kernel.MustMoney("1")}

		shares := total.Allocate(weights)

		assert.Equal(t, "3.34", shares[0].String())
		assert.Equal(t, "3.33", shares[1].String())
		assert.Equal(t, "3.33", shares[2].String())
		assert.True(t, kernel.Sum(shares...).Equal(total))
	})

	t.Run("many uneven weights", func(t *testing.T) {
		total := kernel.MustMoney("99.99")
		weights := []kernel.Money{
			kernel.MustMoney("7.13"), kernel.MustMoney("0.01"), kernel.MustMoney("13.37"),
			kernel.MustMoney("42.00"), kernel.MustMoney("3.33"), kernel.MustMoney("0.99"),
		}

		shares := total.Allocate(weights)

		assert.True(t, kernel.Sum(shares...).Equal(total))
		for _, s := range shares {
			assert.False(t, s.IsNegative())
		}
	})

	t.Run("zero weights yield zero shares", func(t *testing.T) {
		shares := kernel.MustMoney("5.00").Allocate([]kernel.Money{kernel.Zero(), kernel.Zero()})

		assert.True(t, shares[0].IsZero())
		assert.True(t, shares[1].IsZero())
	})
}

func TestMoney_JSON(t *testing.T) {
	data, err := json.Marshal(kernel.MustMoney("4.8"))
	require.NoError(t, err)
	assert.JSONEq(t, `"4.80"`, string(data))

	var fromNumber kernel.Money
	require.NoError(t, json.Unmarshal([]byte(`12.345`), &fromNumber))
	assert.Equal(t, "12.35", fromNumber.String())

	var fromString kernel.Money
	require.NoError(t, json.Unmarshal([]byte(`"7"`), &fromString))
	assert.Equal(t, "7.00", fromString.String())
}

func TestAddress_Validate(t *testing.T) {
	valid := kernel.Address{Line1: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"}
	require.NoError(t, valid.Validate("shippingAddress"))

	err := kernel.Address{}.Validate("billingAddress")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "billingAddress.line1")
	assert.Contains(t, err.Error(), "billingAddress.country")
}

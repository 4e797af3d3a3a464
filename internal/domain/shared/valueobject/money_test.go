package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("carries amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(1500), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(1500)))
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(1500), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestUSDConstructors(t *testing.T) {
	m := NewMoneyUSD(decimal.NewFromFloat(2500))
	assert.Equal(t, USD, m.Currency())

	retainer := NewMoneyUSDFromFloat(4999.99)
	assert.Equal(t, 4999.99, retainer.Float64())

	parsed, err := NewMoneyUSDFromString("199.99")
	require.NoError(t, err)
	assert.Equal(t, USD, parsed.Currency())

	_, err = NewMoneyUSDFromString("two grand")
	assert.Error(t, err)
}

func TestZero(t *testing.T) {
	assert.True(t, Zero(EUR).IsZero())
	assert.Equal(t, EUR, Zero(EUR).Currency())

	assert.True(t, ZeroUSD().IsZero())
	assert.Equal(t, USD, ZeroUSD().Currency())
}

func TestMoneyIsNegative(t *testing.T) {
	assert.True(t, NewMoneyUSDFromFloat(-50).IsNegative())
	assert.False(t, NewMoneyUSDFromFloat(50).IsNegative())
	assert.False(t, ZeroUSD().IsNegative())
}

func TestMoneyAdd(t *testing.T) {
	t.Run("sums a monthly retainer and a setup fee", func(t *testing.T) {
		retainer := NewMoneyUSDFromFloat(2500)
		setup := NewMoneyUSDFromFloat(750.50)
		total, err := retainer.Add(setup)
		require.NoError(t, err)
		assert.True(t, total.Amount().Equal(decimal.NewFromFloat(3250.50)))
	})

	t.Run("rejects a currency mismatch", func(t *testing.T) {
		eur, err := NewMoney(decimal.NewFromFloat(100), EUR)
		require.NoError(t, err)
		_, err = NewMoneyUSDFromFloat(100).Add(eur)
		assert.Error(t, err)
	})
}

func TestMoneyRound(t *testing.T) {
	m := NewMoneyUSDFromFloat(10.456)
	assert.Equal(t, "10.46 USD", m.Round(2).String())
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "99.90 USD", NewMoneyUSDFromFloat(99.9).String())
}

func TestMoneyJSON(t *testing.T) {
	t.Run("round trip keeps amount and currency", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(123.45)
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"123.45","currency":"USD"}`, string(data))

		var decoded Money
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, decoded.Amount().Equal(m.Amount()))
		assert.Equal(t, USD, decoded.Currency())
	})

	t.Run("rejects a non-numeric amount", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"abc","currency":"USD"}`), &m)
		assert.Error(t, err)
	})
}

func TestMoneyScan(t *testing.T) {
	t.Run("string value defaults currency", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("42.50"))
		assert.Equal(t, DefaultCurrency, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(42.50)))
	})

	t.Run("nil column scans to zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(42))
	})
}

func TestMoneyValue(t *testing.T) {
	v, err := NewMoneyUSDFromFloat(10.5).Value()
	require.NoError(t, err)
	assert.Equal(t, "10.5", v)
}

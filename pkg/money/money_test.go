package money_test

import (
	"encoding/json"
	"testing"

	"github.com/aussiebroadwan/clubhouse/pkg/money"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want money.Amount
	}{
		{"50", 5000},
		{"50.5", 5050},
		{"50.00", 5000},
		{" 0.01 ", 1},
		{"-20.25", -2025},
		{"1234567.89", 123456789},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := money.Parse(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	_, err := money.Parse("")
	require.ErrorIs(t, err, money.ErrInvalid)

	_, err = money.Parse("abc")
	require.ErrorIs(t, err, money.ErrInvalid)

	_, err = money.Parse("1.005")
	require.ErrorIs(t, err, money.ErrTooPrecise)

	_, err = money.Parse("1000000000000000")
	require.ErrorIs(t, err, money.ErrOutOfRange)
}

func TestString(t *testing.T) {
	require.Equal(t, "0.00", money.Zero.String())
	require.Equal(t, "49.00", money.FromMinor(4900).String())
	require.Equal(t, "0.05", money.FromMinor(5).String())
	require.Equal(t, "-20.50", money.FromMinor(-2050).String())
}

func TestArithmetic(t *testing.T) {
	dues := money.MustParse("70")
	paid := money.MustParse("50")

	require.Equal(t, "20.00", dues.Sub(paid).String())
	require.Equal(t, "120.00", dues.Add(paid).String())
	require.Equal(t, "-20.00", paid.Sub(dues).String())
	require.Equal(t, money.MustParse("0.30"), money.Sum(money.MustParse("0.10"), money.MustParse("0.20")))
	require.True(t, paid.IsPositive())
	require.True(t, paid.Sub(dues).IsNegative())
	require.True(t, money.Zero.IsZero())
}

func TestJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Amount money.Amount `json:"amount"`
	}{money.MustParse("12.5")})
	require.NoError(t, err)
	require.JSONEq(t, `{"amount":"12.50"}`, string(b))

	var fromString struct {
		Amount money.Amount `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"7.25"}`), &fromString))
	require.Equal(t, money.FromMinor(725), fromString.Amount)

	var fromNumber struct {
		Amount money.Amount `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount":7.25}`), &fromNumber))
	require.Equal(t, money.FromMinor(725), fromNumber.Amount)

	require.Error(t, json.Unmarshal([]byte(`{"amount":"7.255"}`), &fromNumber))
}

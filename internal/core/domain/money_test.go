package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"12.50", 1250, true},
		{"2500", 250000, true},
		{"0.01", 1, true},
		{"100.005", 10001, true}, // rounds to nearest cent
		{"100.004", 10000, true},
		{" 9.99 ", 999, true},
		{"0", 0, false},
		{"0.00", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
		{"12,50", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		got, err := ParseAmount(tc.input)
		if !tc.ok {
			require.ErrorIs(t, err, ErrInvalidAmount, "input %q", tc.input)
			continue
		}
		require.NoError(t, err, "input %q", tc.input)
		require.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "2500.00", FormatAmount(250000))
	require.Equal(t, "0.05", FormatAmount(5))
	require.Equal(t, "100.10", FormatAmount(10010))
}

func TestMoneySubtract(t *testing.T) {
	m := NewMoney(250000, MYR)

	left, err := m.Subtract(NewMoney(10000, MYR))
	require.NoError(t, err)
	require.Equal(t, int64(240000), left.Amount)

	_, err = m.Subtract(NewMoney(10000, USD))
	require.Error(t, err)

	_, err = NewMoney(5000, MYR).Subtract(NewMoney(10000, MYR))
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestTransferLabel(t *testing.T) {
	bank := Transfer{
		Channel:       ChannelBankAccount,
		RecipientName: "John Doe",
		AccountNo:     "1234567890",
		BankCode:      "MB",
	}
	require.Equal(t, "John Doe (MB ***7890)", bank.Label())

	mobile := Transfer{
		Channel:      ChannelMobileNumber,
		MobileNumber: "+60123456789",
	}
	require.Equal(t, "***6789", mobile.Label())
}

package operation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNormalizesCaseAndWhitespace(t *testing.T) {
	cases := map[string]Type{
		"REGISTRATION": Registration,
		"registration": Registration,
		" Renewal ":    Renewal,
		"transfer":     Transfer,
		"PRIVACY":      Privacy,
	}
	for input, want := range cases {
		got, err := Parse(input)
		require.NoError(t, err, "input %q", input)
		require.Equal(t, want, got, "input %q", input)
	}
}

func TestParseRejectsUnknownValues(t *testing.T) {
	for _, input := range []string{"", "REG", "registration-x", "delete"} {
		_, err := Parse(input)
		require.ErrorIs(t, err, ErrInvalidOperation, "input %q", input)
	}
}

func TestPurchasableExcludesPrivacy(t *testing.T) {
	require.True(t, Registration.Purchasable())
	require.True(t, Renewal.Purchasable())
	require.True(t, Transfer.Purchasable())
	require.False(t, Privacy.Purchasable())
}

package coin

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/iov-one/gringotts/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAmountArithmetic(t *testing.T) {
	max := MustParseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639935")

	cases := map[string]struct {
		a, b   Amount
		add    string
		addErr *errors.Error
		sub    string
		subErr *errors.Error
	}{
		"small values": {
			a:   NewAmount(10),
			b:   NewAmount(4),
			add: "14",
			sub: "6",
		},
		"equal values": {
			a:   NewAmount(7),
			b:   NewAmount(7),
			add: "14",
			sub: "0",
		},
		"underflow": {
			a:      NewAmount(1),
			b:      NewAmount(2),
			add:    "3",
			subErr: errors.ErrOverflow,
		},
		"overflow": {
			a:      max,
			b:      NewAmount(1),
			addErr: errors.ErrOverflow,
			sub:    "115792089237316195423570985008687907853269984665640564039457584007913129639934",
		},
		"beyond 128 bits": {
			a:   MustParseAmount("340282366920938463463374607431768211455"),
			b:   NewAmount(1),
			add: "340282366920938463463374607431768211456",
			sub: "340282366920938463463374607431768211454",
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			sum, err := tc.a.Add(tc.b)
			if tc.addErr != nil {
				require.True(t, tc.addErr.Is(err), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.add, sum.String())
			}
			diff, err := tc.a.Sub(tc.b)
			if tc.subErr != nil {
				require.True(t, tc.subErr.Is(err), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.sub, diff.String())
			}
		})
	}
}

func TestAmountEncoding(t *testing.T) {
	big := MustParseAmount("340282366920938463463374607431768211456")

	for _, a := range []Amount{NewAmount(0), NewAmount(42), big} {
		raw, err := cbor.Marshal(a)
		require.NoError(t, err)
		var got Amount
		require.NoError(t, cbor.Unmarshal(raw, &got))
		assert.True(t, a.Equals(got), "want %s, got %s", a, got)
	}

	// Small values are encoded as a plain unsigned integer.
	raw, err := cbor.Marshal(NewAmount(10))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a}, raw)

	_, err = ParseAmount("-1")
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestCoinYAML(t *testing.T) {
	var c Coin
	require.NoError(t, yaml.Unmarshal([]byte("denom: usei\namount: 48000000\n"), &c))
	assert.True(t, c.Equals(NewCoin(48000000, "usei")))
	require.NoError(t, c.Validate())

	parsed, err := ParseCoin("100usei")
	require.NoError(t, err)
	assert.Equal(t, "100usei", parsed.String())

	_, err = ParseCoin("usei")
	assert.True(t, errors.ErrInput.Is(err))
}

func TestCoinsAmountOf(t *testing.T) {
	cs := Coins{NewCoin(10, "usei"), NewCoin(5, "uatom"), NewCoin(7, "usei")}
	total, err := cs.AmountOf("usei")
	require.NoError(t, err)
	assert.Equal(t, "17", total.String())

	none, err := cs.AmountOf("ufoo")
	require.NoError(t, err)
	assert.True(t, none.IsZero())

	err = Coins{NewCoin(1, "x")}.Validate()
	assert.Len(t, errors.FieldErrors(err, "0"), 1)
}

package blockchain

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
)

const (
	relayerABI = `[{"type":"constructor","inputs":[{"name":"relayerShare","type":"uint256"},{"name":"payees","type":"address[]"},{"name":"shares","type":"uint256[]"}],"stateMutability":"nonpayable"}]`
	plainABI   = `[{"type":"constructor","inputs":[{"name":"payees","type":"address[]"},{"name":"shares","type":"uint256[]"}],"stateMutability":"nonpayable"}]`

	payee1 = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	payee2 = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
)

func mustABI(t *testing.T, def string) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(def))
	require.NoError(t, err)
	return parsed
}

func TestEncode_Relayer(t *testing.T) {
	parsed := mustABI(t, relayerABI)

	data, err := NewConstructorEncoder().Encode(parsed, domain.VariantRelayer,
		[]any{"50", []string{payee1, payee2}, []string{"31", "019"}})
	require.NoError(t, err)

	values, err := parsed.Constructor.Inputs.Unpack(data)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, big.NewInt(50), values[0])
	assert.Equal(t, []common.Address{common.HexToAddress(payee1), common.HexToAddress(payee2)}, values[1])
	assert.Equal(t, []*big.Int{big.NewInt(31), big.NewInt(19)}, values[2])
}

func TestEncode_Plain(t *testing.T) {
	parsed := mustABI(t, plainABI)

	hex, err := NewConstructorEncoder().EncodeHex(parsed, domain.VariantPlain,
		[]any{[]string{payee1, payee2}, []string{"0x10", "1"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hex, "0x"))

	data := common.FromHex(hex)
	values, err := parsed.Constructor.Inputs.Unpack(data)
	require.NoError(t, err)
	assert.Equal(t, []*big.Int{big.NewInt(16), big.NewInt(1)}, values[1])
}

func TestEncode_Rejects(t *testing.T) {
	relayer := mustABI(t, relayerABI)
	plain := mustABI(t, plainABI)

	tests := []struct {
		name       string
		parsed     abi.ABI
		variant    domain.ContractVariant
		positional []any
		wantErr    error
	}{
		{
			name:       "plain variant against relayer constructor",
			parsed:     relayer,
			variant:    domain.VariantPlain,
			positional: []any{[]string{payee1}, []string{"1"}},
			wantErr:    domain.ErrVariantMismatch,
		},
		{
			name:       "relayer variant against plain constructor",
			parsed:     plain,
			variant:    domain.VariantRelayer,
			positional: []any{"50", []string{payee1}, []string{"1"}},
			wantErr:    domain.ErrVariantMismatch,
		},
		{
			name:       "short payee",
			parsed:     relayer,
			variant:    domain.VariantRelayer,
			positional: []any{"50", []string{"0xAA", payee2}, []string{"40", "60"}},
			wantErr:    domain.ErrInvalidConfig,
		},
		{
			name:       "non numeric share",
			parsed:     relayer,
			variant:    domain.VariantRelayer,
			positional: []any{"50", []string{payee1, payee2}, []string{"forty", "60"}},
			wantErr:    domain.ErrInvalidConfig,
		},
		{
			name:       "share with surrounding whitespace",
			parsed:     relayer,
			variant:    domain.VariantRelayer,
			positional: []any{" 050 ", []string{payee1, payee2}, []string{"40", "60"}},
			wantErr:    domain.ErrInvalidConfig,
		},
		{
			name:       "negative relayer share",
			parsed:     relayer,
			variant:    domain.VariantRelayer,
			positional: []any{"-1", []string{payee1, payee2}, []string{"40", "60"}},
			wantErr:    domain.ErrInvalidConfig,
		},
		{
			name:       "list where a value is expected",
			parsed:     relayer,
			variant:    domain.VariantRelayer,
			positional: []any{[]string{"50"}, []string{payee1, payee2}, []string{"40", "60"}},
			wantErr:    domain.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConstructorEncoder().Encode(tt.parsed, tt.variant, tt.positional)
			require.Error(t, err)
			assert.True(t, domain.IsConfigurationError(err))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConvertArg_SmallIntegers(t *testing.T) {
	typ, err := abi.NewType("uint8", "", nil)
	require.NoError(t, err)

	v, err := convertArg(typ, "200")
	require.NoError(t, err)
	assert.Equal(t, uint8(200), v)

	_, err = convertArg(typ, "256")
	assert.Error(t, err)

	signed, err := abi.NewType("int16", "", nil)
	require.NoError(t, err)
	v, err = convertArg(signed, "-5")
	require.NoError(t, err)
	assert.Equal(t, int16(-5), v)
}

func TestParseInteger(t *testing.T) {
	n, err := parseInteger("050")
	require.NoError(t, err)
	assert.Equal(t, int64(50), n.Int64())

	n, err = parseInteger("0xff")
	require.NoError(t, err)
	assert.Equal(t, int64(255), n.Int64())

	_, err = parseInteger("")
	assert.Error(t, err)
}

package accounts

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
)

func newAccounts(t *testing.T, env config.Env) *LocalAccounts {
	t.Helper()
	a, err := NewLocalAccounts(&config.RuntimeConfig{Env: env})
	require.NoError(t, err)
	return a
}

func TestAccounts(t *testing.T) {
	accounts, err := newAccounts(t, nil).Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 10)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", accounts[0])
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", accounts[1])
	assert.Equal(t, "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC", accounts[2])
}

func TestSignerFor(t *testing.T) {
	t.Run("local profile defaults to account 0", func(t *testing.T) {
		signer, err := newAccounts(t, nil).SignerFor(domain.NetworkHardhat)
		require.NoError(t, err)
		assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", signer.Address.Hex())
		assert.True(t, signer.WellKnown)
	})

	t.Run("public profile requires a key", func(t *testing.T) {
		_, err := newAccounts(t, nil).SignerFor(domain.NetworkRinkeby)
		require.Error(t, err)
		assert.True(t, domain.IsConfigurationError(err))
		assert.ErrorIs(t, err, domain.ErrMissingConfig)
	})

	t.Run("configured key", func(t *testing.T) {
		env := config.Env{DeployerKeyEnv: "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"}
		signer, err := newAccounts(t, env).SignerFor(domain.NetworkRinkeby)
		require.NoError(t, err)
		assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", signer.Address.Hex())
		assert.True(t, signer.WellKnown)
	})

	t.Run("malformed key", func(t *testing.T) {
		_, err := newAccounts(t, config.Env{DeployerKeyEnv: "0x1234"}).SignerFor(domain.NetworkRinkeby)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})
}

func TestCheckChain(t *testing.T) {
	signer, err := newAccounts(t, nil).SignerFor(domain.NetworkHardhat)
	require.NoError(t, err)

	assert.NoError(t, CheckChain(signer, big.NewInt(31337)))
	assert.NoError(t, CheckChain(signer, big.NewInt(4)))

	err = CheckChain(signer, big.NewInt(1))
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))

	signer.WellKnown = false
	assert.NoError(t, CheckChain(signer, big.NewInt(1)))
}

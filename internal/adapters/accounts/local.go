package accounts

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// DeployerKeyEnv names the private key used to sign the creation transaction
const DeployerKeyEnv = "DEPLOYER_PRIVATE_KEY"

// LocalPrivateKeys are the deterministic development keys derived from
// "test test test test test test test test test test test junk".
// hardhat node and anvil both fund these accounts in this order.
//
// The keys are public. LocalAccounts refuses to sign for production chains.
var LocalPrivateKeys = []string{
	"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", // 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266
	"59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d", // 0x70997970C51812dc3A010C7d01b50e0d17dc79C8
	"5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a", // 0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC
	"7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6", // 0x90F79bf6EB2c4f870365E785982E1f101E93b906
	"47e179ec197488593b187f80a00eb0da91f1b9d0b13f8733639f19c30a34926a", // 0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65
	"8b3a350cf5c34c9194ca85829a2df0ec3153be0318b5e2d3348e872092edffba", // 0x9965507D1a55bcC2695C58ba16FB37d819B0A4dc
	"92db14e403b83dfe3df233f83dfa3a0d7096f21ca9b0d6d6b8d88b2b4ec1564e", // 0x976EA74026E726554dB657fA54763abd0C3a0aa9
	"4bbbf85ce3377467afe5d46f804f221813b2bb87f24d81f60f1fcdbf7cbf4356", // 0x14dC79964da2C08b23698B3D3cc7Ca32193d9955
	"dbda1821b80551c9d65939329250298aa3472ba22feea921c0cf5d620ea67b97", // 0x23618e81E3f5cdF7f54C3d65f7FBc0aBf5B21E8f
	"2a871d0798f97d79848a013d4936a73bf4cc922c825d33c1cf7073dff6d409c6", // 0xa0Ee7A142d267C1f36714E4a8F75612F20a79720
}

// productionChainIDs are chains the well-known keys must never sign for
var productionChainIDs = map[uint64]string{
	1:     "Ethereum Mainnet",
	10:    "Optimism",
	56:    "BNB Smart Chain",
	137:   "Polygon",
	8453:  "Base",
	42161: "Arbitrum One",
}

// Signer is a private key together with its address
type Signer struct {
	Key     *ecdsa.PrivateKey
	Address common.Address
	// WellKnown is true for keys from LocalPrivateKeys
	WellKnown bool
}

// LocalAccounts is the pool of local signing accounts plus the optional
// configured deployer key
type LocalAccounts struct {
	keys        []*ecdsa.PrivateKey
	addresses   []common.Address
	deployerKey string
}

// NewLocalAccounts creates the local account pool
func NewLocalAccounts(cfg *config.RuntimeConfig) (*LocalAccounts, error) {
	keys := make([]*ecdsa.PrivateKey, len(LocalPrivateKeys))
	addresses := make([]common.Address, len(LocalPrivateKeys))
	for i, hexKey := range LocalPrivateKeys {
		key, err := crypto.HexToECDSA(hexKey)
		if err != nil {
			return nil, fmt.Errorf("parse local key %d: %w", i, err)
		}
		keys[i] = key
		addresses[i] = crypto.PubkeyToAddress(key.PublicKey)
	}

	return &LocalAccounts{
		keys:        keys,
		addresses:   addresses,
		deployerKey: strings.TrimSpace(cfg.Env.Get(DeployerKeyEnv)),
	}, nil
}

// Accounts returns the checksummed local account addresses in node order
func (a *LocalAccounts) Accounts(context.Context) ([]string, error) {
	return lo.Map(a.addresses, func(addr common.Address, _ int) string {
		return addr.Hex()
	}), nil
}

// SignerFor picks the deployer for profile. DEPLOYER_PRIVATE_KEY wins when set;
// otherwise local profiles use account 0 and public profiles fail.
func (a *LocalAccounts) SignerFor(profile domain.NetworkProfile) (*Signer, error) {
	if a.deployerKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(a.deployerKey, "0x"))
		if err != nil {
			return nil, domain.NewConfigurationError("load deployer key",
				fmt.Errorf("%w: %s is not a valid private key", domain.ErrInvalidConfig, DeployerKeyEnv))
		}
		address := crypto.PubkeyToAddress(key.PublicKey)
		return &Signer{Key: key, Address: address, WellKnown: lo.Contains(a.addresses, address)}, nil
	}

	if !profile.IsLocal() {
		return nil, domain.NewConfigurationError("load deployer key",
			fmt.Errorf("%w: %s is required for %s", domain.ErrMissingConfig, DeployerKeyEnv, profile))
	}

	return &Signer{Key: a.keys[0], Address: a.addresses[0], WellKnown: true}, nil
}

// CheckChain refuses to let a well-known key sign for a production chain
func CheckChain(signer *Signer, chainID *big.Int) error {
	if !signer.WellKnown || chainID == nil || !chainID.IsUint64() {
		return nil
	}
	if name, ok := productionChainIDs[chainID.Uint64()]; ok {
		return domain.NewConfigurationError("check chain",
			fmt.Errorf("%w: refusing to sign for %s (chain_id=%s) with a publicly known development key", domain.ErrInvalidConfig, name, chainID))
	}
	return nil
}

// Ensure LocalAccounts implements AccountProvider
var _ usecase.AccountProvider = (*LocalAccounts)(nil)

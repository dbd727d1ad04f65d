package domain

import (
	"fmt"
	"strings"
)

// NetworkProfile identifies a deployment target by name
type NetworkProfile string

const (
	// NetworkHardhat is the local test network (hardhat node or anvil)
	NetworkHardhat NetworkProfile = "hardhat"
	// NetworkRinkeby is the public test network
	NetworkRinkeby NetworkProfile = "rinkeby"
)

// LocalChainID is the chain ID served by hardhat and anvil nodes
const LocalChainID uint64 = 31337

// profileInfo holds the static facts about a recognized profile
type profileInfo struct {
	local       bool
	description string
}

var profiles = map[NetworkProfile]profileInfo{
	NetworkHardhat: {local: true, description: "Local test network (hardhat/anvil)"},
	NetworkRinkeby: {local: false, description: "Public test network"},
}

// KnownNetworkProfiles returns every recognized profile in a stable order
func KnownNetworkProfiles() []NetworkProfile {
	return []NetworkProfile{NetworkHardhat, NetworkRinkeby}
}

// ParseNetworkProfile maps a network name onto a recognized profile.
// Anything else is a configuration error.
func ParseNetworkProfile(name string) (NetworkProfile, error) {
	p := NetworkProfile(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := profiles[p]; !ok {
		return "", NewConfigurationError("resolve network",
			fmt.Errorf("%w: %q (known: %s)", ErrUnknownNetwork, name, strings.Join(profileNames(), ", ")))
	}
	return p, nil
}

// String implements fmt.Stringer
func (p NetworkProfile) String() string {
	return string(p)
}

// IsLocal reports whether the profile targets a local node with unlocked test accounts
func (p NetworkProfile) IsLocal() bool {
	return profiles[p].local
}

// SupportsVerification reports whether an explorer exists for the profile
func (p NetworkProfile) SupportsVerification() bool {
	info, ok := profiles[p]
	return ok && !info.local
}

// Description returns a human readable summary of the profile
func (p NetworkProfile) Description() string {
	return profiles[p].description
}

// EnvKey returns the upper-case form used in configuration key names (PAYEE_<NETWORK>_1)
func (p NetworkProfile) EnvKey() string {
	return strings.NewReplacer("-", "_", ".", "_").Replace(strings.ToUpper(string(p)))
}

func profileNames() []string {
	names := make([]string, 0, len(profiles))
	for _, p := range KnownNetworkProfiles() {
		names = append(names, string(p))
	}
	return names
}

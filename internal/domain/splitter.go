package domain

import (
	"fmt"
	"strings"
)

// SplitterContractName is the artifact name of the deployed contract
const SplitterContractName = "Splitter"

// ContractVariant selects one of the two incompatible Splitter constructor shapes
type ContractVariant string

const (
	// VariantRelayer is constructor(uint256 relayerShare, address[] payees, uint256[] shares)
	VariantRelayer ContractVariant = "relayer"
	// VariantPlain is constructor(address[] payees, uint256[] shares)
	VariantPlain ContractVariant = "plain"
)

// ParseContractVariant parses a variant name
func ParseContractVariant(name string) (ContractVariant, error) {
	switch v := ContractVariant(strings.ToLower(strings.TrimSpace(name))); v {
	case VariantRelayer, VariantPlain:
		return v, nil
	default:
		return "", NewConfigurationError("resolve variant",
			fmt.Errorf("%w: unknown contract variant %q (expected %q or %q)", ErrInvalidConfig, name, VariantRelayer, VariantPlain))
	}
}

// String implements fmt.Stringer
func (v ContractVariant) String() string {
	return string(v)
}

// PayeeSlots is the number of payees the variant is deployed with
func (v ContractVariant) PayeeSlots() int {
	if v == VariantRelayer {
		return 2
	}
	return 3
}

// ConstructorArity is the number of positional constructor arguments
func (v ContractVariant) ConstructorArity() int {
	if v == VariantRelayer {
		return 3
	}
	return 2
}

// PayeeShare pairs a payee address with its share weight, both verbatim from configuration
type PayeeShare struct {
	Payee string `json:"payee" yaml:"payee"`
	Share string `json:"share" yaml:"share"`
}

// ConstructorArgs is the closed set of Splitter constructor shapes.
// Only RelayerSplitterArgs and SplitterArgs implement it.
type ConstructorArgs interface {
	Variant() ContractVariant
	Payees() []string
	Shares() []string
	// Positional returns the arguments in constructor order
	Positional() []any
	isConstructorArgs()
}

// RelayerSplitterArgs are the arguments for the relayer variant
type RelayerSplitterArgs struct {
	RelayerShare string
	Entries      []PayeeShare
}

func (RelayerSplitterArgs) isConstructorArgs() {}

// Variant implements ConstructorArgs
func (RelayerSplitterArgs) Variant() ContractVariant { return VariantRelayer }

// Payees implements ConstructorArgs
func (a RelayerSplitterArgs) Payees() []string { return payeesOf(a.Entries) }

// Shares implements ConstructorArgs
func (a RelayerSplitterArgs) Shares() []string { return sharesOf(a.Entries) }

// Positional returns [relayerShare, payees, shares]
func (a RelayerSplitterArgs) Positional() []any {
	return []any{a.RelayerShare, a.Payees(), a.Shares()}
}

// SplitterArgs are the arguments for the plain variant
type SplitterArgs struct {
	Entries []PayeeShare
}

func (SplitterArgs) isConstructorArgs() {}

// Variant implements ConstructorArgs
func (SplitterArgs) Variant() ContractVariant { return VariantPlain }

// Payees implements ConstructorArgs
func (a SplitterArgs) Payees() []string { return payeesOf(a.Entries) }

// Shares implements ConstructorArgs
func (a SplitterArgs) Shares() []string { return sharesOf(a.Entries) }

// Positional returns [payees, shares]
func (a SplitterArgs) Positional() []any {
	return []any{a.Payees(), a.Shares()}
}

func payeesOf(entries []PayeeShare) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Payee
	}
	return out
}

func sharesOf(entries []PayeeShare) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Share
	}
	return out
}

// NewConstructorArgs builds the union member matching variant.
// relayerShare is ignored for the plain variant.
func NewConstructorArgs(variant ContractVariant, relayerShare string, entries []PayeeShare) (ConstructorArgs, error) {
	copied := append([]PayeeShare(nil), entries...)
	switch variant {
	case VariantRelayer:
		return RelayerSplitterArgs{RelayerShare: relayerShare, Entries: copied}, nil
	case VariantPlain:
		return SplitterArgs{Entries: copied}, nil
	default:
		return nil, NewConfigurationError("build constructor args",
			fmt.Errorf("%w: unknown contract variant %q", ErrInvalidConfig, variant))
	}
}

// DeploymentParameters is everything needed to deploy one Splitter on one network
type DeploymentParameters struct {
	Network NetworkProfile
	Args    ConstructorArgs
}

// Variant is a shortcut for Args.Variant()
func (p *DeploymentParameters) Variant() ContractVariant {
	return p.Args.Variant()
}

// RelayerShare returns the relayer share and whether the variant carries one
func (p *DeploymentParameters) RelayerShare() (string, bool) {
	if r, ok := p.Args.(RelayerSplitterArgs); ok {
		return r.RelayerShare, true
	}
	return "", false
}

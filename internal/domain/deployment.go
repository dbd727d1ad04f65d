package domain

import (
	"fmt"
	"math/big"
	"time"
)

// VerificationStatus represents the explorer verification state of a deployment
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "UNVERIFIED"
	VerificationStatusVerified   VerificationStatus = "VERIFIED"
	VerificationStatusPartial    VerificationStatus = "PARTIAL"
	VerificationStatusFailed     VerificationStatus = "FAILED"
	VerificationStatusSkipped    VerificationStatus = "SKIPPED"
)

// VerifierStatus is the outcome reported by a single verifier
type VerifierStatus struct {
	Status string `json:"status" yaml:"status"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// VerificationInfo tracks verification across verifiers
type VerificationInfo struct {
	Status       VerificationStatus        `json:"status" yaml:"status"`
	EtherscanURL string                    `json:"etherscanUrl,omitempty" yaml:"etherscanUrl,omitempty"`
	VerifiedAt   *time.Time                `json:"verifiedAt,omitempty" yaml:"verifiedAt,omitempty"`
	Reason       string                    `json:"reason,omitempty" yaml:"reason,omitempty"`
	Verifiers    map[string]VerifierStatus `json:"verifiers,omitempty" yaml:"verifiers,omitempty"`
}

// DeployerAccount is the account that signs the creation transaction
type DeployerAccount struct {
	Address string
	Balance *big.Int
}

// DeployedContract is what the chain reports back for a creation transaction
type DeployedContract struct {
	Address     string
	TxHash      string
	ChainID     uint64
	BlockNumber uint64
	Deployer    string
}

// DeploymentResult is the deployed address plus the exact constructor arguments used
type DeploymentResult struct {
	Address      string
	TxHash       string
	ChainID      uint64
	BlockNumber  uint64
	Deployer     string
	Network      NetworkProfile
	Args         ConstructorArgs
	DeployedAt   time.Time
	Verification VerificationInfo
}

// DeploymentRecord is the persisted form of a DeploymentResult
type DeploymentRecord struct {
	ID           string           `json:"id" yaml:"id"`
	Address      string           `json:"address" yaml:"address"`
	TxHash       string           `json:"txHash" yaml:"txHash"`
	ChainID      uint64           `json:"chainId" yaml:"chainId"`
	BlockNumber  uint64           `json:"blockNumber,omitempty" yaml:"blockNumber,omitempty"`
	Deployer     string           `json:"deployer,omitempty" yaml:"deployer,omitempty"`
	Network      NetworkProfile   `json:"network" yaml:"network"`
	Variant      ContractVariant  `json:"variant" yaml:"variant"`
	RelayerShare string           `json:"relayerShare,omitempty" yaml:"relayerShare,omitempty"`
	Payees       []PayeeShare     `json:"payees" yaml:"payees"`
	DeployedAt   time.Time        `json:"deployedAt" yaml:"deployedAt"`
	Verification VerificationInfo `json:"verification" yaml:"verification"`
}

// NewDeploymentRecord flattens a result for storage
func NewDeploymentRecord(result *DeploymentResult) *DeploymentRecord {
	rec := &DeploymentRecord{
		Address:      result.Address,
		TxHash:       result.TxHash,
		ChainID:      result.ChainID,
		BlockNumber:  result.BlockNumber,
		Deployer:     result.Deployer,
		Network:      result.Network,
		DeployedAt:   result.DeployedAt,
		Verification: result.Verification,
	}
	switch args := result.Args.(type) {
	case RelayerSplitterArgs:
		rec.Variant = VariantRelayer
		rec.RelayerShare = args.RelayerShare
		rec.Payees = append([]PayeeShare(nil), args.Entries...)
	case SplitterArgs:
		rec.Variant = VariantPlain
		rec.Payees = append([]PayeeShare(nil), args.Entries...)
	}
	return rec
}

// Result rebuilds the typed result from a stored record
func (r *DeploymentRecord) Result() (*DeploymentResult, error) {
	args, err := NewConstructorArgs(r.Variant, r.RelayerShare, r.Payees)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", r.Address, err)
	}
	return &DeploymentResult{
		Address:      r.Address,
		TxHash:       r.TxHash,
		ChainID:      r.ChainID,
		BlockNumber:  r.BlockNumber,
		Deployer:     r.Deployer,
		Network:      r.Network,
		Args:         args,
		DeployedAt:   r.DeployedAt,
		Verification: r.Verification,
	}, nil
}

// DeploymentFilter narrows registry listings
type DeploymentFilter struct {
	Network NetworkProfile
	ChainID uint64
	Status  VerificationStatus
}

// Matches reports whether rec passes the filter
func (f DeploymentFilter) Matches(rec *DeploymentRecord) bool {
	if f.Network != "" && rec.Network != f.Network {
		return false
	}
	if f.ChainID != 0 && rec.ChainID != f.ChainID {
		return false
	}
	if f.Status != "" && rec.Verification.Status != f.Status {
		return false
	}
	return true
}

package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
)

// Artifact is a compiled contract: its ABI and creation bytecode
type Artifact struct {
	Path            string
	ContractName    string
	CompilerVersion string
	ABI             abi.ABI
	Bytecode        []byte
}

// rawArtifact covers both Foundry (bytecode.object) and Hardhat (bytecode string) layouts
type rawArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
	Metadata     json.RawMessage `json:"metadata"`
}

type bytecodeObject struct {
	Object string `json:"object"`
}

type artifactMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
}

// Loader reads and caches the Splitter artifact
type Loader struct {
	path string

	mu       sync.Mutex
	artifact *Artifact
}

// NewLoader creates a loader for the configured artifact path
func NewLoader(cfg *config.RuntimeConfig) *Loader {
	return &Loader{path: cfg.ArtifactPath}
}

// Load returns the parsed artifact. Problems with the file are configuration errors.
func (l *Loader) Load() (*Artifact, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.artifact != nil {
		return l.artifact, nil
	}

	artifact, err := LoadFile(l.path)
	if err != nil {
		return nil, err
	}
	l.artifact = artifact
	return artifact, nil
}

// LoadFile parses a Foundry or Hardhat artifact from disk
func LoadFile(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NewConfigurationError("load artifact",
				fmt.Errorf("%w: %s not found (run forge build first, or pass --artifact)", domain.ErrMissingConfig, path))
		}
		return nil, domain.NewConfigurationError("load artifact", err)
	}

	artifact, err := Parse(data)
	if err != nil {
		return nil, domain.NewConfigurationError("load artifact", fmt.Errorf("%s: %w", path, err))
	}
	artifact.Path = path
	return artifact, nil
}

// Parse decodes artifact JSON
func Parse(data []byte) (*Artifact, error) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("%w: artifact has no abi", domain.ErrInvalidConfig)
	}

	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}

	code, err := decodeBytecode(raw.Bytecode)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		ContractName:    raw.ContractName,
		CompilerVersion: compilerVersion(raw.Metadata),
		ABI:             parsed,
		Bytecode:        code,
	}, nil
}

func decodeBytecode(raw json.RawMessage) ([]byte, error) {
	var hexCode string
	if err := json.Unmarshal(raw, &hexCode); err != nil {
		var obj bytecodeObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("%w: unrecognized bytecode field", domain.ErrInvalidConfig)
		}
		hexCode = obj.Object
	}

	hexCode = strings.TrimSpace(hexCode)
	if hexCode == "" || hexCode == "0x" {
		return nil, fmt.Errorf("%w: artifact has no creation bytecode (abstract contract or interface?)", domain.ErrInvalidConfig)
	}
	if strings.Contains(hexCode, "__") {
		return nil, fmt.Errorf("%w: bytecode has unlinked library references", domain.ErrInvalidConfig)
	}
	if !strings.HasPrefix(hexCode, "0x") {
		hexCode = "0x" + hexCode
	}

	code, err := hexutil.Decode(hexCode)
	if err != nil {
		return nil, fmt.Errorf("%w: bad bytecode: %v", domain.ErrInvalidConfig, err)
	}
	return code, nil
}

// compilerVersion reads metadata.compiler.version; forge stores metadata as an object
func compilerVersion(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var meta artifactMetadata
	if err := json.Unmarshal(raw, &meta); err == nil {
		return meta.Compiler.Version
	}
	// hardhat build-info style: metadata is a JSON string
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if err := json.Unmarshal([]byte(s), &meta); err == nil {
			return meta.Compiler.Version
		}
	}
	return ""
}

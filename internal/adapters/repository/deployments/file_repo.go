package deployments

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

const DeploymentsFile = "deployments.json"

// FileRepository stores the deployments in a json file under the data dir
type FileRepository struct {
	dataDir     string
	mu          sync.RWMutex
	deployments map[string]*domain.DeploymentRecord
	byAddress   map[string]string
}

// NewFileRepository creates a repository rooted at dataDir and loads existing records
func NewFileRepository(dataDir string) (*FileRepository, error) {
	r := &FileRepository{
		dataDir:     dataDir,
		deployments: make(map[string]*domain.DeploymentRecord),
		byAddress:   make(map[string]string),
	}

	if err := r.load(); err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	return r, nil
}

// NewFileRepositoryFromConfig creates a repository in cfg.DataDir
func NewFileRepositoryFromConfig(cfg *config.RuntimeConfig) (*FileRepository, error) {
	return NewFileRepository(cfg.DataDir)
}

func (r *FileRepository) path() string {
	return filepath.Join(r.dataDir, DeploymentsFile)
}

func addressKey(network domain.NetworkProfile, address string) string {
	return network.String() + ":" + strings.ToLower(address)
}

// load reads the registry file. A missing file is an empty registry.
func (r *FileRepository) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := json.Unmarshal(data, &r.deployments); err != nil {
		return fmt.Errorf("failed to parse %s: %w", r.path(), err)
	}
	r.rebuildLookups()
	return nil
}

// save writes the registry atomically
func (r *FileRepository) save() error {
	if err := os.MkdirAll(r.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", r.dataDir, err)
	}

	data, err := json.MarshalIndent(r.deployments, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first
	tmpPath := r.path() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmpPath, r.path())
}

func (r *FileRepository) rebuildLookups() {
	r.byAddress = make(map[string]string, len(r.deployments))
	for id, rec := range r.deployments {
		if rec.ID == "" {
			rec.ID = id
		}
		r.byAddress[addressKey(rec.Network, rec.Address)] = id
	}
}

// SaveDeployment inserts or replaces the record for (network, address)
func (r *FileRepository) SaveDeployment(_ context.Context, record *domain.DeploymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := addressKey(record.Network, record.Address)
	prevID := record.ID
	if id, ok := r.byAddress[key]; ok {
		record.ID = id
	} else if record.ID == "" {
		record.ID = uuid.NewString()
	}

	previous, existed := r.deployments[record.ID]
	_, indexed := r.byAddress[key]

	stored := *record
	r.deployments[record.ID] = &stored
	r.byAddress[key] = record.ID

	if err := r.save(); err != nil {
		// memory must keep matching what is on disk
		if existed {
			r.deployments[record.ID] = previous
		} else {
			delete(r.deployments, record.ID)
		}
		if !indexed {
			delete(r.byAddress, key)
		}
		record.ID = prevID
		return err
	}
	return nil
}

// GetDeployment retrieves a deployment by ID
func (r *FileRepository) GetDeployment(_ context.Context, id string) (*domain.DeploymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.deployments[id]
	if !ok {
		return nil, fmt.Errorf("deployment %s: %w", id, domain.ErrNotFound)
	}
	copied := *rec
	return &copied, nil
}

// GetDeploymentByAddress retrieves a deployment by network and address, case-insensitively
func (r *FileRepository) GetDeploymentByAddress(ctx context.Context, network domain.NetworkProfile, address string) (*domain.DeploymentRecord, error) {
	r.mu.RLock()
	id, ok := r.byAddress[addressKey(network, address)]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("deployment %s on %s: %w", address, network, domain.ErrNotFound)
	}
	return r.GetDeployment(ctx, id)
}

// ListDeployments returns copies of the records matching filter
func (r *FileRepository) ListDeployments(_ context.Context, filter domain.DeploymentFilter) ([]*domain.DeploymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := lo.Filter(lo.Values(r.deployments), func(rec *domain.DeploymentRecord, _ int) bool {
		return filter.Matches(rec)
	})
	return lo.Map(matched, func(rec *domain.DeploymentRecord, _ int) *domain.DeploymentRecord {
		copied := *rec
		return &copied
	}), nil
}

// Ensure FileRepository implements DeploymentRepository
var _ usecase.DeploymentRepository = (*FileRepository)(nil)

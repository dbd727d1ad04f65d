package deployments

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
)

func sampleRecord(network domain.NetworkProfile, address string) *domain.DeploymentRecord {
	return &domain.DeploymentRecord{
		Address:      address,
		TxHash:       "0xabc",
		ChainID:      4,
		Network:      network,
		Variant:      domain.VariantRelayer,
		RelayerShare: "5",
		Payees: []domain.PayeeShare{
			{Payee: "0xAA", Share: "40"},
			{Payee: "0xBB", Share: "60"},
		},
		DeployedAt:   time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		Verification: domain.VerificationInfo{Status: domain.VerificationStatusUnverified},
	}
}

func TestFileRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), ".splitter")

	repo, err := NewFileRepository(dir)
	require.NoError(t, err)

	rec := sampleRecord(domain.NetworkRinkeby, "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	require.NoError(t, repo.SaveDeployment(ctx, rec))
	require.NotEmpty(t, rec.ID)
	assert.FileExists(t, filepath.Join(dir, DeploymentsFile))

	reopened, err := NewFileRepository(dir)
	require.NoError(t, err)

	got, err := reopened.GetDeploymentByAddress(ctx, domain.NetworkRinkeby, "0x5fbdb2315678afecb367f032d93f642f64180aa3")
	require.NoError(t, err)
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestFileRepository_SaveReplacesSameAddress(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileRepository(t.TempDir())
	require.NoError(t, err)

	first := sampleRecord(domain.NetworkRinkeby, "0x01")
	require.NoError(t, repo.SaveDeployment(ctx, first))

	second := sampleRecord(domain.NetworkRinkeby, "0x01")
	second.Verification.Status = domain.VerificationStatusVerified
	require.NoError(t, repo.SaveDeployment(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	all, err := repo.ListDeployments(ctx, domain.DeploymentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.VerificationStatusVerified, all[0].Verification.Status)
}

func TestFileRepository_NetworksAreSeparate(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileRepository(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, repo.SaveDeployment(ctx, sampleRecord(domain.NetworkHardhat, "0x01")))
	require.NoError(t, repo.SaveDeployment(ctx, sampleRecord(domain.NetworkRinkeby, "0x01")))

	local, err := repo.ListDeployments(ctx, domain.DeploymentFilter{Network: domain.NetworkHardhat})
	require.NoError(t, err)
	assert.Len(t, local, 1)

	_, err = repo.GetDeploymentByAddress(ctx, domain.NetworkRinkeby, "0x02")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileRepository(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, repo.SaveDeployment(ctx, sampleRecord(domain.NetworkRinkeby, "0x01")))

	got, err := repo.GetDeploymentByAddress(ctx, domain.NetworkRinkeby, "0x01")
	require.NoError(t, err)
	got.TxHash = "0xmutated"

	again, err := repo.GetDeploymentByAddress(ctx, domain.NetworkRinkeby, "0x01")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", again.TxHash)
}

func TestFileRepository_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DeploymentsFile), []byte("{not json"), 0644))

	_, err := NewFileRepository(dir)
	assert.Error(t, err)
}

func TestFileRepository_FailedSaveKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	require.NoError(t, err)

	original := sampleRecord(domain.NetworkRinkeby, "0x01")
	require.NoError(t, repo.SaveDeployment(ctx, original))

	// a directory in place of the temp file makes every write fail
	require.NoError(t, os.Mkdir(filepath.Join(dir, DeploymentsFile+".tmp"), 0755))

	updated := sampleRecord(domain.NetworkRinkeby, "0x01")
	updated.Verification.Status = domain.VerificationStatusVerified
	require.Error(t, repo.SaveDeployment(ctx, updated))

	got, err := repo.GetDeploymentByAddress(ctx, domain.NetworkRinkeby, "0x01")
	require.NoError(t, err)
	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, domain.VerificationStatusUnverified, got.Verification.Status)

	fresh := sampleRecord(domain.NetworkRinkeby, "0x02")
	require.Error(t, repo.SaveDeployment(ctx, fresh))
	assert.Empty(t, fresh.ID)

	_, err = repo.GetDeploymentByAddress(ctx, domain.NetworkRinkeby, "0x02")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := repo.ListDeployments(ctx, domain.DeploymentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

func TestSpinnerProgressReporter_NonInteractive(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := NewSpinnerProgressReporter(&buf, false)
	ctx := context.Background()

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageResolving, Message: "Resolving deployment parameters"})
	r.Info("Deploying contracts with the account: 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageDeploying, Message: "Deploying Splitter", Spinner: true})
	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageCompleted, Message: "Done"})

	out := buf.String()
	assert.Contains(t, out, "[Resolving] Resolving deployment parameters\n")
	assert.Contains(t, out, "Deploying contracts with the account: 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266\n")
	assert.Contains(t, out, "[Deploying] Deploying Splitter\n")
	assert.NotContains(t, out, "Done")

	assert.Equal(t, []usecase.ExecutionStage{
		usecase.StageResolving,
		usecase.StageDeploying,
		usecase.StageCompleted,
	}, r.Stages())
}

func TestNopSink(t *testing.T) {
	s := NewNopSink()
	assert.NotPanics(t, func() {
		s.OnProgress(context.Background(), usecase.ProgressEvent{Stage: usecase.StageDeploying})
		s.Info("x")
		s.Error("y")
	})
}

func TestNewProgressSink(t *testing.T) {
	assert.IsType(t, &NopSink{}, NewProgressSink(&config.RuntimeConfig{JSON: true}))

	reporter, ok := NewProgressSink(&config.RuntimeConfig{NonInteractive: true}).(*SpinnerProgressReporter)
	require.True(t, ok)
	assert.False(t, reporter.interactive)
}

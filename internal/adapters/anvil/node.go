package anvil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/trebuchet-org/splitter-cli/internal/adapters/blockchain"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
)

const (
	DefaultPort = "8545"
	PidFileName = "anvil.pid"
	LogFileName = "anvil.log"

	readyTimeout = 5 * time.Second
	stopTimeout  = 5 * time.Second
)

// Node describes the local anvil instance backing the hardhat profile
type Node struct {
	Port    string
	ChainID uint64
	PidFile string
	LogFile string
}

// RPCURL is the endpoint the node listens on
func (n *Node) RPCURL() string {
	return "http://127.0.0.1:" + n.Port
}

// NodeStatus is a point-in-time view of a node
type NodeStatus struct {
	Running bool
	PID     int
	RPCURL  string
	LogFile string
	// ChainID is reported by the node; zero when it did not answer
	ChainID   uint64
	HealthErr error
}

// Manager starts and stops a local anvil node with its state under the data dir
type Manager struct {
	dataDir string
	command string
	dial    blockchain.DialFunc
	log     *slog.Logger
}

// NewManager creates a node manager
func NewManager(cfg *config.RuntimeConfig, log *slog.Logger) *Manager {
	return &Manager{
		dataDir: cfg.DataDir,
		command: "anvil",
		dial:    blockchain.DialEthClient,
		log:     log.With("component", "anvil"),
	}
}

// Node returns the descriptor for a node on port
func (m *Manager) Node(port string) *Node {
	if strings.TrimSpace(port) == "" {
		port = DefaultPort
	}
	suffix := ""
	if port != DefaultPort {
		suffix = "-" + port
	}
	return &Node{
		Port:    port,
		ChainID: domain.LocalChainID,
		PidFile: filepath.Join(m.dataDir, strings.Replace(PidFileName, ".", suffix+".", 1)),
		LogFile: filepath.Join(m.dataDir, strings.Replace(LogFileName, ".", suffix+".", 1)),
	}
}

// Start launches anvil in the background and waits until it answers RPC
func (m *Manager) Start(ctx context.Context, node *Node) error {
	if pid, ok := isRunning(node); ok {
		return fmt.Errorf("anvil is already running on port %s (PID %d)", node.Port, pid)
	}
	if err := os.MkdirAll(m.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", m.dataDir, err)
	}

	logFile, err := os.Create(node.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(m.command, "--port", node.Port, "--chain-id", strconv.FormatUint(node.ChainID, 10))
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start anvil: %w", err)
	}

	if err := writePidFile(node.PidFile, cmd.Process.Pid); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	m.log.Debug("started anvil", "pid", cmd.Process.Pid, "port", node.Port)

	return m.waitReady(ctx, node)
}

// waitReady polls eth_chainId until the node answers or the ready timeout passes
func (m *Manager) waitReady(ctx context.Context, node *Node) error {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	var lastErr error
	for {
		if _, lastErr = m.chainID(ctx, node); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("anvil did not become ready (see %s): %w", node.LogFile, lastErr)
		case <-ticker.C:
		}
	}
}

// Stop terminates the node, escalating to SIGKILL after a grace period
func (m *Manager) Stop(_ context.Context, node *Node) error {
	pid, ok := isRunning(node)
	if !ok {
		_ = os.Remove(node.PidFile)
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	deadline := time.Now().Add(stopTimeout)
	for time.Now().Before(deadline) {
		if process.Signal(syscall.Signal(0)) != nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if process.Signal(syscall.Signal(0)) == nil {
		_ = process.Kill()
	}

	if err := os.Remove(node.PidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	m.log.Debug("stopped anvil", "pid", pid)
	return nil
}

// Status reports whether the node runs and whether it answers RPC
func (m *Manager) Status(ctx context.Context, node *Node) *NodeStatus {
	status := &NodeStatus{
		RPCURL:  node.RPCURL(),
		LogFile: node.LogFile,
	}
	status.PID, status.Running = isRunning(node)
	if !status.Running {
		return status
	}

	chainID, err := m.chainID(ctx, node)
	if err != nil {
		status.HealthErr = err
		return status
	}
	status.ChainID = chainID
	return status
}

func (m *Manager) chainID(ctx context.Context, node *Node) (uint64, error) {
	client, err := m.dial(ctx, node.RPCURL())
	if err != nil {
		return 0, err
	}
	defer client.Close()

	id, err := client.ChainID(ctx)
	if err != nil {
		return 0, err
	}
	return id.Uint64(), nil
}

// isRunning checks the PID file and whether that process is alive
func isRunning(node *Node) (int, bool) {
	pid, err := readPidFile(node.PidFile)
	if err != nil {
		return 0, false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return 0, false
	}
	return pid, process.Signal(syscall.Signal(0)) == nil
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %s", string(data))
	}
	return pid, nil
}

func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

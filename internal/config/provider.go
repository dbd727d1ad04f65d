package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
)

// DataDirName is the per-project state directory
const DataDirName = ".splitter"

// Viper keys, matching the CLI flag names
const (
	KeyProjectRoot         = "project-root"
	KeyNetwork             = "network"
	KeyVariant             = "variant"
	KeyArtifact            = "artifact"
	KeyContractPath        = "contract-path"
	KeyDebug               = "debug"
	KeyNonInteractive      = "non-interactive"
	KeyJSON                = "json"
	KeySkipVerify          = "skip-verify"
	KeyRequireVerification = "require-verification"
	KeyDeployTimeout       = "deploy-timeout"
	KeyVerifyTimeout       = "verify-timeout"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString(KeyProjectRoot)
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	env, err := LoadEnv(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	foundryConfig, err := loadFoundryConfig(projectRoot, env)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:         projectRoot,
		DataDir:             filepath.Join(projectRoot, DataDirName),
		NetworkName:         v.GetString(KeyNetwork),
		VariantName:         v.GetString(KeyVariant),
		ArtifactPath:        v.GetString(KeyArtifact),
		ContractPath:        v.GetString(KeyContractPath),
		Debug:               v.GetBool(KeyDebug),
		NonInteractive:      v.GetBool(KeyNonInteractive),
		JSON:                v.GetBool(KeyJSON),
		SkipVerify:          v.GetBool(KeySkipVerify),
		RequireVerification: v.GetBool(KeyRequireVerification),
		DeployTimeout:       v.GetDuration(KeyDeployTimeout),
		VerifyTimeout:       v.GetDuration(KeyVerifyTimeout),
		Env:                 env,
		FoundryConfig:       foundryConfig,
	}

	if cfg.ArtifactPath == "" {
		cfg.ArtifactPath = filepath.Join(outDir(foundryConfig), "Splitter.sol", "Splitter.json")
	}
	if !filepath.IsAbs(cfg.ArtifactPath) {
		cfg.ArtifactPath = filepath.Join(projectRoot, cfg.ArtifactPath)
	}
	if cfg.ContractPath == "" {
		cfg.ContractPath = filepath.Join(srcDir(foundryConfig), "Splitter.sol") + ":Splitter"
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory looking for foundry.toml,
// hardhat.config.js or a .env file. Falls back to the working directory.
func FindProjectRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	markers := []string{"foundry.toml", "hardhat.config.js", "hardhat.config.ts", ".env"}
	dir := wd
	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return wd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance.
// A missing config.local.json is fine; an unreadable one is an error.
func SetupViper(projectRoot string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	// Set up environment variables
	v.SetEnvPrefix("SPLITTER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault(KeyVariant, "relayer")
	v.SetDefault(KeyDeployTimeout, "5m")
	v.SetDefault(KeyVerifyTimeout, "3m")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyNonInteractive, false)
	v.SetDefault(KeyProjectRoot, projectRoot)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, domain.NewConfigurationError("read config file", err)
		}
	}

	if flags != nil {
		flags.VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(f.Name, f); err != nil {
				panic(err)
			}
		})
	}

	return v, nil
}

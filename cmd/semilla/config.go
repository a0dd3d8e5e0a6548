// Config loading for the semilla CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/semilla-app/semilla/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyOwnerID        = "owner_id"
	cfgKeyOwnerName      = "owner_name"
	cfgKeyChildName      = "child_name"
	cfgKeyChildBirthDate = "child_birth_date"
	cfgKeyPrices         = "prices"

	defaultBackend = "sqlite"
	defaultOwnerID = "local"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Semilla CLI configuration

# Backend selection
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Owner namespace for all records
owner_id: local
# owner_name: Familia

# Child the account belongs to; birth date drives chapter unlock ages
# child_name: Lucia
# child_birth_date: 2018-06-15

# Static instrument prices for the portfolio summary
# prices:
#   VWCE: "112.40"
#   MSFT: "415.20"
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on
// first run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyOwnerID, defaultOwnerID)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// configChild builds the child info from config. The birth date is
// optional; chapters with age gates stay locked without it.
func configChild(v *viper.Viper) (types.ChildInfo, error) {
	child := types.ChildInfo{Name: v.GetString(cfgKeyChildName)}
	raw := v.GetString(cfgKeyChildBirthDate)
	if raw == "" {
		return child, nil
	}
	t, err := types.ParseDate(raw)
	if err != nil {
		return child, fmt.Errorf("config %s: %w", cfgKeyChildBirthDate, err)
	}
	child.BirthDate = t
	return child, nil
}

// configPrices builds the static price table from the config prices map.
func configPrices(v *viper.Viper) (types.StaticPrices, error) {
	raw := v.GetStringMapString(cfgKeyPrices)
	prices := make(types.StaticPrices, len(raw))
	for ticker, val := range raw {
		d, err := decimal.NewFromString(val)
		if err != nil {
			return nil, fmt.Errorf("config price %s: %w", ticker, err)
		}
		prices[ticker] = d
	}
	return prices, nil
}

// Shared wiring for semilla CLI commands: config resolution, backend
// attachment, and construction of the record stores and engines.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/semilla-app/semilla/internal/export"
	"github.com/semilla-app/semilla/internal/logger"
	"github.com/semilla-app/semilla/internal/migrate"
	"github.com/semilla-app/semilla/internal/paths"
	"github.com/semilla-app/semilla/internal/records"
	"github.com/semilla-app/semilla/internal/sqlite"
	semillapkg "github.com/semilla-app/semilla/pkg/semilla"
	"github.com/semilla-app/semilla/pkg/types"
)

// app bundles everything a command needs once the backend is attached.
type app struct {
	cfg     *viper.Viper
	backend *sqlite.Backend
	ownerID string
	child   types.ChildInfo
	stores  *records.Stores
	migrate *migrate.Engine
	export  *export.Exporter
	log     zerolog.Logger
}

// openApp resolves directories, loads config, attaches the backend and
// wires the stores and engines. The caller must defer the returned close
// function.
func openApp() (*app, func(), error) {
	configDir := paths.ResolveConfigDir(flagConfigDir)
	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, nil, err
	}

	dataDir := paths.ResolveDataDir(flagDataDir, cfg.GetString(cfgKeyDataDir))

	backend := sqlite.NewBackend()
	if err := backend.Attach(types.Config{
		Backend: cfg.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}); err != nil {
		return nil, nil, fmt.Errorf("attach backend: %w", err)
	}
	closeFn := func() { _ = backend.Detach() }

	ownerID := cfg.GetString(cfgKeyOwnerID)
	identity := types.StaticIdentity{User: types.User{
		ID:   ownerID,
		Name: cfg.GetString(cfgKeyOwnerName),
	}}

	child, err := configChild(cfg)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	prices, err := configPrices(cfg)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	log := logger.New()
	stores := records.New(backend, identity)

	return &app{
		cfg:     cfg,
		backend: backend,
		ownerID: ownerID,
		child:   child,
		stores:  stores,
		migrate: migrate.New(backend, identity, log),
		export:  export.New(stores, prices, child, semillapkg.Version, log),
		log:     log,
	}, closeFn, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

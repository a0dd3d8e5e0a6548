// Package integration exercises the full stack in-process: backend,
// record stores, migration engine and exporter wired the way the CLI
// wires them.
package integration

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/semilla-app/semilla/internal/export"
	"github.com/semilla-app/semilla/internal/migrate"
	"github.com/semilla-app/semilla/internal/records"
	"github.com/semilla-app/semilla/internal/sqlite"
	"github.com/semilla-app/semilla/pkg/types"
)

const testOwner = "papa"

var testChild = types.ChildInfo{
	Name:      "Lucia",
	BirthDate: types.NewTime(time.Date(2019, 6, 12, 0, 0, 0, 0, time.UTC)),
}

// testEnv bundles one attached backend with everything built on top of it.
type testEnv struct {
	backend  *sqlite.Backend
	stores   *records.Stores
	migrate  *migrate.Engine
	exporter *export.Exporter
}

// newTestEnv attaches a backend to an isolated temp directory and wires
// the stores, migration engine and exporter for a fixed owner.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := sqlite.NewBackend()
	err := backend.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	})
	require.NoError(t, err, "Attach")
	t.Cleanup(func() { backend.Detach() })

	identity := types.StaticIdentity{User: types.User{ID: testOwner}}
	stores := records.New(backend, identity)
	prices := types.StaticPrices{
		"VWCE": decimal.NewFromInt(110),
		"MSFT": decimal.NewFromInt(400),
	}
	return &testEnv{
		backend:  backend,
		stores:   stores,
		migrate:  migrate.New(backend, identity, zerolog.Nop()),
		exporter: export.New(stores, prices, testChild, "test", zerolog.Nop()),
	}
}

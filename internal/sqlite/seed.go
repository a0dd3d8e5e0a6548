// This file implements demo seeding: a handful of legacy single-table
// investment records, so a fresh install has something to migrate and
// export. Seeding is idempotent by record ID.
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/semilla-app/semilla/pkg/types"
)

// demoLegacyRecords are the flat records seeded by SeedDemo. IDs are fixed
// so reseeding overwrites rather than duplicates.
var demoLegacyRecords = []types.LegacyInvestment{
	{
		ID:          "lg-0001",
		Date:        types.NewTime(time.Date(2019, 6, 12, 0, 0, 0, 0, time.UTC)),
		Kind:        types.TransactionContribution,
		TotalAmount: decimal.NewFromInt(500),
		Currency:    "EUR",
		Note:        "Primera aportacion, el dia que nacio",
		Milestone:   types.MilestoneFirstInvestment,
		CreatedAt:   types.NewTime(time.Date(2019, 6, 12, 9, 30, 0, 0, time.UTC)),
	},
	{
		ID:           "lg-0002",
		Date:         types.NewTime(time.Date(2020, 6, 12, 0, 0, 0, 0, time.UTC)),
		Kind:         types.TransactionBuy,
		Ticker:       "VWCE",
		Units:        decimal.RequireFromString("5.5"),
		PricePerUnit: decimal.RequireFromString("88.20"),
		TotalAmount:  decimal.RequireFromString("485.10"),
		Commission:   decimal.RequireFromString("1.50"),
		Currency:     "EUR",
		Note:         "Primer cumpleanos",
		Milestone:    types.MilestoneBirthday,
		CreatedAt:    types.NewTime(time.Date(2020, 6, 12, 10, 0, 0, 0, time.UTC)),
	},
	{
		ID:           "lg-0003",
		Date:         types.NewTime(time.Date(2021, 1, 8, 0, 0, 0, 0, time.UTC)),
		Kind:         types.TransactionBuy,
		Ticker:       "VWCE",
		Units:        decimal.RequireFromString("3.2"),
		PricePerUnit: decimal.RequireFromString("95.40"),
		TotalAmount:  decimal.RequireFromString("305.28"),
		Commission:   decimal.RequireFromString("1.50"),
		Currency:     "EUR",
		CreatedAt:    types.NewTime(time.Date(2021, 1, 8, 18, 15, 0, 0, time.UTC)),
	},
	{
		ID:           "lg-0004",
		Date:         types.NewTime(time.Date(2022, 9, 1, 0, 0, 0, 0, time.UTC)),
		Kind:         types.TransactionBuy,
		Ticker:       "MSFT",
		Units:        decimal.RequireFromString("1.0"),
		PricePerUnit: decimal.RequireFromString("255.00"),
		TotalAmount:  decimal.RequireFromString("255.00"),
		Commission:   decimal.RequireFromString("2.00"),
		Currency:     "EUR",
		Note:         "Empezo el colegio; su primera accion con nombre propio",
		Milestone:    types.MilestoneSchoolYear,
		PhotoURL:     "https://photos.example/semilla/colegio-2022.jpg",
		CreatedAt:    types.NewTime(time.Date(2022, 9, 1, 8, 45, 0, 0, time.UTC)),
	},
	{
		ID:          "lg-0005",
		Date:        types.NewTime(time.Date(2023, 6, 12, 0, 0, 0, 0, time.UTC)),
		Kind:        types.TransactionContribution,
		TotalAmount: decimal.NewFromInt(300),
		Currency:    "EUR",
		CreatedAt:   types.NewTime(time.Date(2023, 6, 12, 12, 0, 0, 0, time.UTC)),
	},
}

// SeedDemo writes the demo legacy records into the owner's legacy
// collection. Existing records with the same IDs are overwritten.
func (b *Backend) SeedDemo(ctx context.Context, ownerID string) error {
	coll, err := b.Collection(types.CollectionLegacy)
	if err != nil {
		return err
	}
	for _, rec := range demoLegacyRecords {
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling demo record %s: %w", rec.ID, err)
		}
		if err := coll.Put(ctx, ownerID, rec.ID, raw); err != nil {
			return fmt.Errorf("seeding demo record %s: %w", rec.ID, err)
		}
	}
	return nil
}

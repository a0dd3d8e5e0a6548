package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/semilla-app/semilla/pkg/types"
)

func TestFinancialCreate(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()

	tx, err := stores.Financial.Create(ctx, testOwner, buyFields("VWCE", "176.40"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tx.ID == "" {
		t.Fatal("expected assigned ID")
	}
	if _, err := uuid.Parse(tx.ID); err != nil {
		t.Fatalf("ID is not a UUID: %v", err)
	}
	if tx.OwnerID != testOwner {
		t.Fatalf("expected owner %q, got %q", testOwner, tx.OwnerID)
	}
	if tx.MetadataID != nil {
		t.Fatal("new transaction must not reference metadata")
	}

	got, err := stores.Financial.Get(ctx, testOwner, tx.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Ticker != "VWCE" || !got.TotalAmount.Equal(decimal.RequireFromString("176.40")) {
		t.Fatalf("fields did not round trip: %+v", got)
	}
}

func TestFinancialCreateValidation(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*types.TransactionFields)
	}{
		{"unknown kind", func(f *types.TransactionFields) { f.Kind = "gift" }},
		{"zero date", func(f *types.TransactionFields) { f.Date = types.Time{} }},
		{"missing currency", func(f *types.TransactionFields) { f.Currency = "" }},
		{"negative amount", func(f *types.TransactionFields) { f.TotalAmount = decimal.NewFromInt(-5) }},
		{"negative fees", func(f *types.TransactionFields) { f.Fees = decimal.NewFromInt(-1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := buyFields("VWCE", "100")
			tc.mutate(&fields)
			if _, err := stores.Financial.Create(ctx, testOwner, fields); !errors.Is(err, types.ErrInvalidData) {
				t.Fatalf("expected ErrInvalidData, got %v", err)
			}
		})
	}
}

func TestFinancialUpdateReplacesFacts(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()

	tx, err := stores.Financial.Create(ctx, testOwner, buyFields("VWCE", "100"))
	if err != nil {
		t.Fatal(err)
	}

	corrected := buyFields("VWCE", "101.50")
	if err := stores.Financial.Update(ctx, testOwner, tx.ID, corrected); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := stores.Financial.Get(ctx, testOwner, tx.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.TotalAmount.Equal(decimal.RequireFromString("101.50")) {
		t.Fatalf("expected corrected amount, got %s", got.TotalAmount)
	}
	if !got.CreatedAt.Equal(tx.CreatedAt) {
		t.Fatal("correction must preserve creation time")
	}
}

func TestFinancialDelete(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()

	tx, err := stores.Financial.Create(ctx, testOwner, buyFields("VWCE", "100"))
	if err != nil {
		t.Fatal(err)
	}
	if err := stores.Financial.Delete(ctx, testOwner, tx.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := stores.Financial.Get(ctx, testOwner, tx.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFinancialListFilter(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()

	if _, err := stores.Financial.Create(ctx, testOwner, buyFields("VWCE", "100")); err != nil {
		t.Fatal(err)
	}
	contribution := types.TransactionFields{
		Date:        types.NewTime(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)),
		Kind:        types.TransactionContribution,
		TotalAmount: decimal.NewFromInt(50),
		Currency:    "EUR",
	}
	if _, err := stores.Financial.Create(ctx, testOwner, contribution); err != nil {
		t.Fatal(err)
	}

	buys, err := stores.Financial.List(ctx, testOwner, map[string]any{"kind": types.TransactionBuy})
	if err != nil {
		t.Fatal(err)
	}
	if len(buys) != 1 || buys[0].Kind != types.TransactionBuy {
		t.Fatalf("expected one buy, got %+v", buys)
	}
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	date := func(y int) types.Time { return types.NewTime(time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)) }
	txs := []types.FinancialTransaction{
		{Date: date(2020), Kind: types.TransactionBuy, Ticker: "VWCE",
			Units: decimal.NewFromInt(5), TotalAmount: decimal.NewFromInt(500), Fees: decimal.NewFromInt(2), Currency: "EUR"},
		{Date: date(2021), Kind: types.TransactionBuy, Ticker: "VWCE",
			Units: decimal.NewFromInt(5), TotalAmount: decimal.NewFromInt(500), Currency: "EUR"},
		{Date: date(2022), Kind: types.TransactionBuy, Ticker: "MSFT",
			Units: decimal.NewFromInt(1), TotalAmount: decimal.NewFromInt(250), Currency: "EUR"},
		{Date: date(2019), Kind: types.TransactionContribution,
			TotalAmount: decimal.NewFromInt(100), Currency: "EUR"},
	}
	prices := types.StaticPrices{
		"VWCE": decimal.NewFromInt(110),
		"MSFT": decimal.NewFromInt(400),
	}

	summary, err := Summarize(ctx, txs, prices)
	if err != nil {
		t.Fatal(err)
	}

	if summary.TransactionCount != 4 {
		t.Fatalf("expected 4 transactions, got %d", summary.TransactionCount)
	}
	if !summary.TotalInvested.Equal(decimal.NewFromInt(1350)) {
		t.Fatalf("expected invested 1350, got %s", summary.TotalInvested)
	}
	if !summary.TotalFees.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("expected fees 2, got %s", summary.TotalFees)
	}
	if summary.FirstDate.Year() != 2019 || summary.LastDate.Year() != 2022 {
		t.Fatalf("unexpected date range: %v .. %v", summary.FirstDate, summary.LastDate)
	}

	// Instruments sorted by ticker: MSFT before VWCE.
	if len(summary.Instruments) != 2 {
		t.Fatalf("expected 2 instruments, got %d", len(summary.Instruments))
	}
	if summary.Instruments[0].Ticker != "MSFT" || summary.Instruments[1].Ticker != "VWCE" {
		t.Fatalf("instruments not sorted: %+v", summary.Instruments)
	}

	vwce := summary.Instruments[1]
	if !vwce.Units.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected 10 VWCE units, got %s", vwce.Units)
	}
	// 10 units * 110 = 1100 current on 1000 invested = 10% return.
	if !vwce.CurrentValue.Equal(decimal.NewFromInt(1100)) {
		t.Fatalf("expected current 1100, got %s", vwce.CurrentValue)
	}
	if !vwce.ReturnPercent.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected 10%% return, got %s", vwce.ReturnPercent)
	}
	// 1100 + 400 total current value.
	if !summary.CurrentValue.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected total current 1500, got %s", summary.CurrentValue)
	}
}

func TestSummarizeWithoutPrices(t *testing.T) {
	txs := []types.FinancialTransaction{
		{Date: types.Now(), Kind: types.TransactionBuy, Ticker: "VWCE",
			Units: decimal.NewFromInt(1), TotalAmount: decimal.NewFromInt(100), Currency: "EUR"},
	}
	summary, err := Summarize(context.Background(), txs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !summary.CurrentValue.IsZero() {
		t.Fatalf("expected zero current value without prices, got %s", summary.CurrentValue)
	}
	if !summary.Instruments[0].ReturnPercent.IsZero() {
		t.Fatal("expected zero return without prices")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary, err := Summarize(context.Background(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if summary.TransactionCount != 0 || len(summary.Instruments) != 0 {
		t.Fatalf("unexpected summary for no transactions: %+v", summary)
	}
	if summary.Instruments == nil {
		t.Fatal("instruments must serialize as [], not null")
	}
}

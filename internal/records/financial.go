// This file implements the financial transaction store. Transactions are
// hard facts and are not versioned; a correction replaces the record.
package records

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/semilla-app/semilla/pkg/types"
)

// FinancialStore is the record store for financial transactions.
type FinancialStore struct {
	base
}

// validateTransactionFields rejects transactions no store should accept.
func validateTransactionFields(f types.TransactionFields) error {
	if !types.ValidTransactionKind(f.Kind) {
		return fmt.Errorf("%w: unknown transaction kind %q", types.ErrInvalidData, f.Kind)
	}
	if f.Date.IsZero() {
		return fmt.Errorf("%w: transaction date is required", types.ErrInvalidData)
	}
	if f.Currency == "" {
		return fmt.Errorf("%w: currency is required", types.ErrInvalidData)
	}
	if f.TotalAmount.IsNegative() || f.Units.IsNegative() || f.Fees.IsNegative() {
		return fmt.Errorf("%w: amounts must not be negative", types.ErrInvalidData)
	}
	return nil
}

// Create persists a new transaction and returns it with its assigned ID.
func (s *FinancialStore) Create(ctx context.Context, ownerID string, fields types.TransactionFields) (*types.FinancialTransaction, error) {
	if err := s.authorize(ownerID); err != nil {
		return nil, err
	}
	if err := validateTransactionFields(fields); err != nil {
		return nil, err
	}

	now := types.Now()
	tx := &types.FinancialTransaction{
		ID:           newRecordID(),
		OwnerID:      ownerID,
		Date:         fields.Date,
		Kind:         fields.Kind,
		Ticker:       fields.Ticker,
		Units:        fields.Units,
		PricePerUnit: fields.PricePerUnit,
		TotalAmount:  fields.TotalAmount,
		Fees:         fields.Fees,
		Currency:     fields.Currency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.putJSON(ctx, types.CollectionFinancial, ownerID, tx.ID, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Get retrieves one transaction.
func (s *FinancialStore) Get(ctx context.Context, ownerID, id string) (*types.FinancialTransaction, error) {
	if err := s.authorize(ownerID); err != nil {
		return nil, err
	}
	var tx types.FinancialTransaction
	if err := s.getJSON(ctx, types.CollectionFinancial, ownerID, id, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// List returns the owner's transactions matching the equality filter,
// ordered by ID. Range and year filtering happen client-side post-fetch.
func (s *FinancialStore) List(ctx context.Context, ownerID string, filter map[string]any) ([]types.FinancialTransaction, error) {
	if err := s.authorize(ownerID); err != nil {
		return nil, err
	}
	return listJSON[types.FinancialTransaction](ctx, s.base, types.CollectionFinancial, ownerID, filter)
}

// Update replaces the fact fields of an existing transaction. The record's
// identity, back-reference and creation time are preserved.
func (s *FinancialStore) Update(ctx context.Context, ownerID, id string, fields types.TransactionFields) error {
	if err := s.authorize(ownerID); err != nil {
		return err
	}
	if err := validateTransactionFields(fields); err != nil {
		return err
	}

	tx, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	tx.Date = fields.Date
	tx.Kind = fields.Kind
	tx.Ticker = fields.Ticker
	tx.Units = fields.Units
	tx.PricePerUnit = fields.PricePerUnit
	tx.TotalAmount = fields.TotalAmount
	tx.Fees = fields.Fees
	tx.Currency = fields.Currency
	tx.UpdatedAt = types.Now()

	return s.putJSON(ctx, types.CollectionFinancial, ownerID, id, tx)
}

// Delete removes a transaction.
func (s *FinancialStore) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.authorize(ownerID); err != nil {
		return err
	}
	return s.deleteDoc(ctx, types.CollectionFinancial, ownerID, id)
}

// Summary computes the portfolio aggregate over all of the owner's
// transactions. prices may be nil; current values are then omitted and
// return percentages reported as zero.
func (s *FinancialStore) Summary(ctx context.Context, ownerID string, prices types.PriceSource) (*types.PortfolioSummary, error) {
	if err := s.authorize(ownerID); err != nil {
		return nil, err
	}
	txs, err := s.List(ctx, ownerID, nil)
	if err != nil {
		return nil, err
	}
	return Summarize(ctx, txs, prices)
}

// Summarize aggregates a transaction slice into a PortfolioSummary. Split
// out of Summary so the export engine can aggregate an already-fetched
// layer without a second read.
func Summarize(ctx context.Context, txs []types.FinancialTransaction, prices types.PriceSource) (*types.PortfolioSummary, error) {
	summary := &types.PortfolioSummary{
		TransactionCount: len(txs),
		Instruments:      []types.InstrumentSummary{},
	}

	perTicker := make(map[string]*types.InstrumentSummary)
	for _, tx := range txs {
		summary.TotalInvested = summary.TotalInvested.Add(tx.TotalAmount)
		summary.TotalFees = summary.TotalFees.Add(tx.Fees)

		if summary.FirstDate.IsZero() || tx.Date.Before(summary.FirstDate.Time) {
			summary.FirstDate = tx.Date
		}
		if summary.LastDate.IsZero() || tx.Date.After(summary.LastDate.Time) {
			summary.LastDate = tx.Date
		}

		if tx.Ticker == "" {
			continue
		}
		inst, ok := perTicker[tx.Ticker]
		if !ok {
			inst = &types.InstrumentSummary{Ticker: tx.Ticker}
			perTicker[tx.Ticker] = inst
		}
		inst.Units = inst.Units.Add(tx.Units)
		inst.Invested = inst.Invested.Add(tx.TotalAmount)
		inst.Transactions++
	}

	var priceTable map[string]decimal.Decimal
	if prices != nil && len(perTicker) > 0 {
		tickers := make([]string, 0, len(perTicker))
		for t := range perTicker {
			tickers = append(tickers, t)
		}
		sort.Strings(tickers)
		table, err := prices.Prices(ctx, tickers)
		if err != nil {
			return nil, fmt.Errorf("looking up prices: %w", err)
		}
		priceTable = table
	}

	for _, inst := range perTicker {
		if price, ok := priceTable[inst.Ticker]; ok {
			inst.CurrentValue = inst.Units.Mul(price)
			if inst.Invested.IsPositive() {
				inst.ReturnPercent = inst.CurrentValue.Sub(inst.Invested).
					Div(inst.Invested).Mul(decimal.NewFromInt(100)).Round(2)
			}
			summary.CurrentValue = summary.CurrentValue.Add(inst.CurrentValue)
		}
		summary.Instruments = append(summary.Instruments, *inst)
	}

	// Sorted by ticker: the aggregate must serialize deterministically
	// because export checksums cover it.
	sort.Slice(summary.Instruments, func(i, j int) bool {
		return summary.Instruments[i].Ticker < summary.Instruments[j].Ticker
	})

	return summary, nil
}

// This file implements independent migration verification: it re-derives
// the idempotence invariant from the stored data instead of trusting the
// recorded status.
package migrate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/semilla-app/semilla/internal/retry"
	"github.com/semilla-app/semilla/pkg/types"
)

// Verify compares the legacy ID set against the financial ID set and checks
// that metadata back-references resolve. It assumes legacy IDs are never
// reused across unrelated records; a collision is reported as an issue, not
// repaired.
func (e *Engine) Verify(ctx context.Context, ownerID string) (*types.VerifyResult, error) {
	if err := e.authorize(ownerID); err != nil {
		return nil, err
	}
	result := &types.VerifyResult{}

	legacyIDs, err := e.idSet(ctx, ownerID, types.CollectionLegacy)
	if err != nil {
		return nil, err
	}
	financialIDs, err := e.idSet(ctx, ownerID, types.CollectionFinancial)
	if err != nil {
		return nil, err
	}

	for id := range legacyIDs {
		if !financialIDs[id] {
			result.Issues = append(result.Issues,
				fmt.Sprintf("legacy record %s has no financial record", id))
		}
	}

	// Back-references must resolve in both directions.
	financialColl, err := e.store.Collection(types.CollectionFinancial)
	if err != nil {
		return nil, err
	}
	var financialDocs []*types.Document
	if err := retry.Read.Do(ctx, func() error {
		docs, err := financialColl.List(ctx, ownerID, nil)
		if err != nil {
			return err
		}
		financialDocs = docs
		return nil
	}); err != nil {
		return nil, err
	}
	metaIDs, err := e.idSet(ctx, ownerID, types.CollectionTransactionMeta)
	if err != nil {
		return nil, err
	}
	referenced := make(map[string]bool)
	for _, doc := range financialDocs {
		var tx types.FinancialTransaction
		if err := json.Unmarshal(doc.Data, &tx); err != nil {
			result.Issues = append(result.Issues,
				fmt.Sprintf("financial record %s is undecodable: %v", doc.ID, err))
			continue
		}
		if tx.MetadataID == nil {
			continue
		}
		if referenced[*tx.MetadataID] {
			result.Issues = append(result.Issues,
				fmt.Sprintf("metadata %s is referenced by more than one transaction", *tx.MetadataID))
		}
		referenced[*tx.MetadataID] = true
		if !metaIDs[*tx.MetadataID] {
			result.Issues = append(result.Issues,
				fmt.Sprintf("transaction %s references missing metadata %s", tx.ID, *tx.MetadataID))
		}
	}

	result.IsValid = len(result.Issues) == 0
	return result, nil
}

// idSet fetches the set of record IDs in one collection.
func (e *Engine) idSet(ctx context.Context, ownerID, collName string) (map[string]bool, error) {
	coll, err := e.store.Collection(collName)
	if err != nil {
		return nil, err
	}
	var docs []*types.Document
	if err := retry.Read.Do(ctx, func() error {
		d, err := coll.List(ctx, ownerID, nil)
		if err != nil {
			return err
		}
		docs = d
		return nil
	}); err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(docs))
	for _, doc := range docs {
		ids[doc.ID] = true
	}
	return ids, nil
}

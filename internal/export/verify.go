// This file implements the import path: parse a bundle's data.json and
// verify its integrity without trusting the writer.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/semilla-app/semilla/pkg/types"
)

// requiredKeys are the top-level keys every bundle must carry.
var requiredKeys = []string{
	"exportDate",
	"exportVersion",
	"childInfo",
	"financial",
	"metadata",
	"emotional",
	"checksums",
}

// ParseAndVerify parses a bundle's JSON and recomputes every layer
// checksum against the stored map. Checksum mismatches are reported in the
// report as possible corruption — never raised, never auto-repaired; the
// caller decides what to do with a damaged bundle. data is nil only when
// the JSON itself is unusable.
func ParseAndVerify(raw []byte) (*types.FullExportData, *types.VerifyReport) {
	report := &types.VerifyReport{}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("invalid JSON: %v", err))
		return nil, report
	}
	missing := false
	for _, key := range requiredKeys {
		if _, ok := keys[key]; !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("missing required key %q", key))
			missing = true
		}
	}
	if missing {
		return nil, report
	}

	var data types.FullExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("decoding bundle: %v", err))
		return nil, report
	}

	for _, layer := range []struct {
		name string
		data any
	}{
		{types.LayerFinancial, data.Financial},
		{types.LayerMetadata, data.Metadata},
		{types.LayerEmotional, data.Emotional},
	} {
		stored, ok := data.Checksums[layer.name]
		if !ok {
			report.Errors = append(report.Errors,
				fmt.Sprintf("layer %q has no stored checksum", layer.name))
			continue
		}
		computed, err := Checksum(layer.data)
		if err != nil {
			report.Errors = append(report.Errors,
				fmt.Sprintf("layer %q: recomputing checksum: %v", layer.name, err))
			continue
		}
		if computed != stored {
			report.Errors = append(report.Errors,
				fmt.Sprintf("layer %q: %v", layer.name, types.ErrChecksumMismatch))
		}
	}

	report.IsValid = len(report.Errors) == 0
	return &data, report
}

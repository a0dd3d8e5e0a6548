package versioning

import (
	"fmt"
	"reflect"
	"time"

	"github.com/shopspring/decimal"

	"github.com/semilla-app/semilla/pkg/types"
)

// FieldChange records one differing field between two snapshots.
type FieldChange struct {
	Field string `json:"field"`
	From  any    `json:"from"`
	To    any    `json:"to"`
}

// Diff is the result of comparing two snapshots over a field list.
type Diff struct {
	Differences []FieldChange `json:"differences"`
	HasChanges  bool          `json:"hasChanges"`
}

// Compare performs a field-wise deep comparison of two snapshots of the
// same struct type, restricted to the named fields; fields outside the list
// are ignored. Times compare at millisecond granularity, slices compare
// element-wise in order, and nil equals only nil. Unknown field names are
// an error.
func Compare(a, b any, fields []string) (Diff, error) {
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if !av.IsValid() || !bv.IsValid() {
		return Diff{}, fmt.Errorf("comparing nil snapshots")
	}
	if av.Kind() == reflect.Pointer {
		av = av.Elem()
	}
	if bv.Kind() == reflect.Pointer {
		bv = bv.Elem()
	}
	if av.Type() != bv.Type() {
		return Diff{}, fmt.Errorf("comparing mismatched types %s and %s", av.Type(), bv.Type())
	}
	if av.Kind() != reflect.Struct {
		return Diff{}, fmt.Errorf("snapshots must be structs, got %s", av.Kind())
	}

	var diff Diff
	for _, name := range fields {
		af := av.FieldByName(name)
		bf := bv.FieldByName(name)
		if !af.IsValid() {
			return Diff{}, fmt.Errorf("unknown field %q on %s", name, av.Type())
		}
		if !deepEqual(af, bf) {
			diff.Differences = append(diff.Differences, FieldChange{
				Field: name,
				From:  af.Interface(),
				To:    bf.Interface(),
			})
		}
	}
	diff.HasChanges = len(diff.Differences) > 0
	return diff, nil
}

// deepEqual implements the comparison rules: date-aware, order-sensitive
// for slices, recursive for structs, maps and pointers.
func deepEqual(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	// Known value types first: their unexported internals must not be
	// walked by reflection.
	switch a.Type() {
	case reflect.TypeOf(types.Time{}):
		return a.Interface().(types.Time).Equal(b.Interface().(types.Time))
	case reflect.TypeOf(time.Time{}):
		return a.Interface().(time.Time).UnixMilli() == b.Interface().(time.Time).UnixMilli()
	case reflect.TypeOf(decimal.Decimal{}):
		return a.Interface().(decimal.Decimal).Equal(b.Interface().(decimal.Decimal))
	}

	switch a.Kind() {
	case reflect.Pointer, reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return deepEqual(a.Elem(), b.Elem())

	case reflect.Slice, reflect.Array:
		if a.Kind() == reflect.Slice && (a.IsNil() || b.IsNil()) {
			// A nil slice and an empty slice carry the same data.
			return a.Len() == 0 && b.Len() == 0
		}
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !deepEqual(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true

	case reflect.Map:
		if a.IsNil() || b.IsNil() {
			return a.Len() == 0 && b.Len() == 0
		}
		if a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			bval := b.MapIndex(iter.Key())
			if !bval.IsValid() || !deepEqual(iter.Value(), bval) {
				return false
			}
		}
		return true

	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !a.Type().Field(i).IsExported() {
				continue
			}
			if !deepEqual(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true

	default:
		return a.Interface() == b.Interface()
	}
}

package property

import (
	"fmt"

	"github.com/mosaicui/mosaic/backend/internal/domain/meta"
	"github.com/mosaicui/mosaic/backend/internal/shared/wire"
)

// Collection operation names. Only Array-kind fields support these; sets and
// maps are mutated by whole-value replacement through a normal field set.
const (
	OpClear    = "clear"
	OpSet      = "set"
	OpAppend   = "append"
	OpInsert   = "insert"
	OpUpdateAt = "updateAt"
	OpRemoveAt = "removeAt"
)

// CollectionOp describes one mutation of an array field
type CollectionOp struct {
	Op    string
	Index *int
}

// ApplyCollection mutates the array field addressed by the target. Per-
// element conversion happens before any mutation, so a mid-array conversion
// failure leaves the field untouched. Returns the new length and a short
// human-readable note.
func ApplyCollection(cat *meta.Catalog, t *Target, op CollectionOp, v wire.Value) (int, string, *Error) {
	if t.Field == nil || t.Field.Kind != meta.KindArray || t.Elem != nil || t.Container == nil {
		return 0, "", Errorf(ErrNotApplicable,
			"collection operations apply to whole array properties only")
	}
	if t.Field.ReadOnly {
		return 0, "", Errorf(ErrNotApplicable, "property %q is read-only", t.Field.Name)
	}

	cur, _ := t.Container.Get(t.Field.Name)
	arr, _ := cur.([]interface{})

	switch op.Op {
	case OpClear:
		t.Container.Set(t.Field.Name, []interface{}{})
		return 0, "cleared", nil

	case OpSet:
		elems, err := convertElements(cat, t.Field, v)
		if err != nil {
			return 0, "", err
		}
		t.Container.Set(t.Field.Name, elems)
		return len(elems), fmt.Sprintf("replaced with %d element(s)", len(elems)), nil

	case OpAppend:
		elems, err := convertElements(cat, t.Field, v)
		if err != nil {
			return 0, "", err
		}
		arr = append(arr, elems...)
		t.Container.Set(t.Field.Name, arr)
		return len(arr), fmt.Sprintf("appended %d element(s)", len(elems)), nil

	case OpInsert:
		if op.Index == nil {
			return 0, "", Errorf(ErrValueRequired, "operation %q requires an index", OpInsert)
		}
		if *op.Index < 0 {
			return 0, "", Errorf(ErrIndexOutOfRange,
				"index %d out of range for %q (length %d)", *op.Index, t.Field.Name, len(arr))
		}
		elem, err := convertOne(cat, t.Field, v, OpInsert)
		if err != nil {
			return 0, "", err
		}
		// Clamp to [0, length]: inserting at length is an append
		idx := *op.Index
		if idx > len(arr) {
			idx = len(arr)
		}
		arr = append(arr, nil)
		copy(arr[idx+1:], arr[idx:])
		arr[idx] = elem
		t.Container.Set(t.Field.Name, arr)
		return len(arr), fmt.Sprintf("inserted at index %d", idx), nil

	case OpUpdateAt:
		if op.Index == nil {
			return 0, "", Errorf(ErrValueRequired, "operation %q requires an index", OpUpdateAt)
		}
		if *op.Index < 0 || *op.Index >= len(arr) {
			return 0, "", Errorf(ErrIndexOutOfRange,
				"index %d out of range for %q (length %d)", *op.Index, t.Field.Name, len(arr))
		}
		elem, err := convertOne(cat, t.Field, v, OpUpdateAt)
		if err != nil {
			return 0, "", err
		}
		arr[*op.Index] = elem
		t.Container.Set(t.Field.Name, arr)
		return len(arr), fmt.Sprintf("updated index %d", *op.Index), nil

	case OpRemoveAt:
		if op.Index == nil {
			return 0, "", Errorf(ErrValueRequired, "operation %q requires an index", OpRemoveAt)
		}
		if *op.Index < 0 || *op.Index >= len(arr) {
			return 0, "", Errorf(ErrIndexOutOfRange,
				"index %d out of range for %q (length %d)", *op.Index, t.Field.Name, len(arr))
		}
		arr = append(arr[:*op.Index], arr[*op.Index+1:]...)
		t.Container.Set(t.Field.Name, arr)
		return len(arr), fmt.Sprintf("removed index %d", *op.Index), nil
	}

	return 0, "", Errorf(ErrNotApplicable,
		"unknown collection operation %q; supported: clear, set, append, insert, updateAt, removeAt", op.Op)
}

// convertElements converts every element of a wire array before anything is
// applied. The whole batch fails if any element fails.
func convertElements(cat *meta.Catalog, fd *meta.Field, v wire.Value) ([]interface{}, *Error) {
	v = reparseOnce(v)
	if v.Kind != wire.KindArray {
		return nil, Errorf(ErrValueRequired,
			"operation requires a JSON array of %s elements", fd.Elem.TypeName())
	}
	out := make([]interface{}, len(v.Arr))
	for i, e := range v.Arr {
		n, err := ToNative(cat, e, fd.Elem)
		if err != nil {
			return nil, Errorf(err.Kind, "element %d: %s", i, err.Message)
		}
		out[i] = n
	}
	return out, nil
}

func convertOne(cat *meta.Catalog, fd *meta.Field, v wire.Value, op string) (interface{}, *Error) {
	if v.IsNull() {
		return nil, Errorf(ErrValueRequired, "operation %q requires a value", op)
	}
	n, err := ToNative(cat, v, fd.Elem)
	if err != nil {
		return nil, err
	}
	return n, nil
}

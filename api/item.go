package api

import (
	"encoding/json"
	"fmt"

	"github.com/samber/mo"
)

// Item is one post or media object as returned by the listing endpoint.
// No schema is enforced: absent or mistyped fields simply read as missing.
type Item map[string]any

// Lookup walks nested objects along path.
func (i Item) Lookup(path ...string) (any, bool) {
	var current any = map[string]any(i)
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// String returns the string at path, if any.
func (i Item) String(path ...string) mo.Option[string] {
	v, ok := i.Lookup(path...)
	if !ok {
		return mo.None[string]()
	}

	s, ok := v.(string)
	if !ok {
		return mo.None[string]()
	}

	return mo.Some(s)
}

// Items returns the object elements of the array at path. Elements that are
// not objects are skipped.
func (i Item) Items(path ...string) []Item {
	v, ok := i.Lookup(path...)
	if !ok {
		return nil
	}

	arr, ok := v.([]any)
	if !ok {
		return nil
	}

	items := make([]Item, 0, len(arr))
	for _, el := range arr {
		if obj, ok := el.(map[string]any); ok {
			items = append(items, obj)
		}
	}

	return items
}

// ID returns the numeric WordPress id of the item, or 0.
func (i Item) ID() uint64 {
	v, ok := i.Lookup("id")
	if !ok {
		return 0
	}

	f, ok := v.(float64)
	if !ok || f < 0 {
		return 0
	}

	return uint64(f)
}

// ParseItems decodes a listing body. The body must be a JSON array; elements
// that are not objects become empty items.
func ParseItems(body []byte) ([]Item, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: listing body is not a JSON array: %w", ErrProtocol, err)
	}

	// a literal null decodes without error into a nil slice
	if raw == nil {
		return nil, fmt.Errorf("%w: listing body is not a JSON array", ErrProtocol)
	}

	items := make([]Item, len(raw))
	for n, r := range raw {
		var obj map[string]any
		if err := json.Unmarshal(r, &obj); err != nil || obj == nil {
			items[n] = Item{}
			continue
		}
		items[n] = obj
	}

	return items, nil
}

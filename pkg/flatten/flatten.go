// Package flatten normalizes decoded JSON values into flat,
// column-oriented records. Nested objects are joined with a separator
// ("a.b"), arrays inside records are indexed ("tags.0"), so arbitrarily
// nested documents land in rectangular tables.
package flatten

import (
	"sort"
	"strconv"

	"github.com/dataforge-io/tabconnect/pkg/errors"
)

// Options control the normalization.
type Options struct {
	// Sep joins nested path segments; defaults to "."
	Sep string

	// RecordPath descends into the document to the record list before
	// normalizing, one map key per element.
	RecordPath []string
}

// Flatten normalizes a decoded JSON value into flat records plus the
// column order of first appearance. A top-level object yields one
// record; a top-level array yields one record per element. Scalars
// cannot be normalized and fail with a data error.
//
// Go maps do not preserve document key order, so keys within each
// nesting level are emitted in lexicographic order; across records the
// column order is first-seen.
func Flatten(value interface{}, opts Options) ([]map[string]interface{}, []string, error) {
	sep := opts.Sep
	if sep == "" {
		sep = "."
	}

	value, err := descend(value, opts.RecordPath)
	if err != nil {
		return nil, nil, err
	}

	var elements []interface{}
	switch v := value.(type) {
	case map[string]interface{}:
		elements = []interface{}{v}
	case []interface{}:
		elements = v
	default:
		return nil, nil, errors.Newf(errors.ErrorTypeData,
			"cannot normalize JSON value of type %T into records", value)
	}

	records := make([]map[string]interface{}, 0, len(elements))
	var order []string
	seen := make(map[string]bool)

	for i, elem := range elements {
		m, ok := elem.(map[string]interface{})
		if !ok {
			return nil, nil, errors.Newf(errors.ErrorTypeData,
				"record %d is not a JSON object (got %T)", i, elem)
		}

		record := make(map[string]interface{})
		var local []string
		flattenInto("", m, sep, record, &local)

		for _, name := range local {
			if !seen[name] {
				seen[name] = true
				order = append(order, name)
			}
		}
		records = append(records, record)
	}

	return records, order, nil
}

// descend walks the record path into nested objects.
func descend(value interface{}, path []string) (interface{}, error) {
	for _, key := range path {
		m, ok := value.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeData,
				"record path segment %q does not address an object (got %T)", key, value)
		}
		next, ok := m[key]
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeData, "record path segment %q not found", key)
		}
		value = next
	}
	return value, nil
}

func flattenInto(prefix string, value interface{}, sep string, record map[string]interface{}, order *[]string) {
	switch v := value.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flattenInto(join(prefix, k, sep), v[k], sep, record, order)
		}
	case []interface{}:
		for i, item := range v {
			flattenInto(join(prefix, strconv.Itoa(i), sep), item, sep, record, order)
		}
	default:
		record[prefix] = v
		*order = append(*order, prefix)
	}
}

func join(prefix, key, sep string) string {
	if prefix == "" {
		return key
	}
	return prefix + sep + key
}

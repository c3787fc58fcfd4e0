package flatten

import (
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataforge-io/tabconnect/pkg/errors"
)

func decode(t *testing.T, doc string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, gojson.Unmarshal([]byte(doc), &v))
	return v
}

func TestFlattenSingleObject(t *testing.T) {
	v := decode(t, `{"fruit": "Apple", "size": "Large", "color": "Red"}`)

	records, order, err := Flatten(v, Options{})
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, []string{"color", "fruit", "size"}, order)
	assert.Equal(t, "Apple", records[0]["fruit"])
	assert.Equal(t, "Large", records[0]["size"])
	assert.Equal(t, "Red", records[0]["color"])
}

func TestFlattenArrayOfObjects(t *testing.T) {
	v := decode(t, `[{"a": 1, "b": 2}, {"a": 3, "c": 4}]`)

	records, order, err := Flatten(v, Options{})
	require.NoError(t, err)

	require.Len(t, records, 2)
	// First-seen column order across records.
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 3.0, records[1]["a"])
	assert.NotContains(t, records[1], "b")
}

func TestFlattenNestedObject(t *testing.T) {
	v := decode(t, `{"id": 1, "address": {"city": "Riverside", "zip": "08075"}}`)

	records, order, err := Flatten(v, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"address.city", "address.zip", "id"}, order)
	assert.Equal(t, "Riverside", records[0]["address.city"])
}

func TestFlattenArrayIndexing(t *testing.T) {
	v := decode(t, `{"name": "Ada", "tags": ["math", "engine"]}`)

	records, order, err := Flatten(v, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "tags.0", "tags.1"}, order)
	assert.Equal(t, "engine", records[0]["tags.1"])
}

func TestFlattenCustomSeparator(t *testing.T) {
	v := decode(t, `{"a": {"b": 1}}`)

	records, order, err := Flatten(v, Options{Sep: "_"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a_b"}, order)
	assert.Equal(t, 1.0, records[0]["a_b"])
}

func TestFlattenRecordPath(t *testing.T) {
	v := decode(t, `{"meta": {"count": 2}, "data": {"items": [{"x": 1}, {"x": 2}]}}`)

	records, order, err := Flatten(v, Options{RecordPath: []string{"data", "items"}})
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, []string{"x"}, order)
	assert.Equal(t, 2.0, records[1]["x"])
}

func TestFlattenRecordPathMissing(t *testing.T) {
	v := decode(t, `{"data": {}}`)

	_, _, err := Flatten(v, Options{RecordPath: []string{"data", "items"}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestFlattenRecordPathThroughScalar(t *testing.T) {
	v := decode(t, `{"data": 5}`)

	_, _, err := Flatten(v, Options{RecordPath: []string{"data", "items"}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestFlattenScalarFails(t *testing.T) {
	_, _, err := Flatten(42.0, Options{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestFlattenArrayElementNotObject(t *testing.T) {
	v := decode(t, `[1, 2, 3]`)

	_, _, err := Flatten(v, Options{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestFlattenNullValue(t *testing.T) {
	v := decode(t, `{"a": null}`)

	records, order, err := Flatten(v, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, order)
	assert.Nil(t, records[0]["a"])
}

package jsonfile

import (
	"github.com/dataforge-io/tabconnect/pkg/connector/registry"
)

func init() {
	// Register the JSON connector; JSONL is the same variant with the
	// lines flag set.
	_ = registry.Register("json", New)
}

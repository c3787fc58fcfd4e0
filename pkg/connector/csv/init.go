package csv

import (
	"github.com/dataforge-io/tabconnect/pkg/connector/registry"
)

func init() {
	// Register the CSV connector
	_ = registry.Register("csv", New)
}

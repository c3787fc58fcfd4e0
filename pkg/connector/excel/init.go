package excel

import (
	"github.com/dataforge-io/tabconnect/pkg/connector/registry"
)

func init() {
	// Register the Excel connector
	_ = registry.Register("excel", New)
}

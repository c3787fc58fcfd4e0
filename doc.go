// Package tabconnect is a thin adaptation layer that loads tabular data
// files (CSV, Excel, JSON/JSONL) into a common in-memory table through a
// uniform connector interface, so pipeline code can swap input formats
// without changing anything downstream.
//
// # Architecture
//
// One abstraction, three variants. A Connector wraps a configured source
// file and exposes two operations: a whole-file load into a
// table.Table, and a lazy pull-based sequence of table chunks. Each
// format package normalizes its reader's quirks before the table leaves
// the package: Excel sheets are concatenated and headerless columns
// dropped, JSON documents are flattened into dotted/indexed columns.
//
// # Quick Start
//
// Load a CSV file through the registry:
//
//	import (
//	    "context"
//
//	    "github.com/dataforge-io/tabconnect/pkg/config"
//	    "github.com/dataforge-io/tabconnect/pkg/connector/registry"
//	    _ "github.com/dataforge-io/tabconnect/pkg/connector/csv"
//	)
//
//	cfg := config.New("orders", "csv", "/data/orders.csv")
//	cfg.CSV.Delimiter = ";"
//
//	conn, err := registry.Open(cfg)
//	if err != nil {
//	    return err
//	}
//	tbl, err := conn.Load(context.Background())
//
// Bound memory on large files with chunked loads:
//
//	it, err := conn.LoadChunks(ctx, 10_000)
//	if err != nil {
//	    return err
//	}
//	defer it.Close()
//	for it.Next(ctx) {
//	    process(it.Chunk())
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
//
// # Key Packages
//
//	pkg/connector/core     - Connector and ChunkIterator contracts
//	pkg/connector/csv      - CSV variant with native chunked reads
//	pkg/connector/excel    - Excel variant (excelize)
//	pkg/connector/jsonfile - JSON/JSONL variant with flattening
//	pkg/connector/registry - Factory registry for format discovery
//	pkg/table              - The shared in-memory tabular result
//	pkg/flatten            - JSON normalization into flat columns
//	pkg/config             - Connector configuration and YAML loading
package tabconnect

package migrations

import "embed"

// PostgresFS holds the schema for the relational snapshot stores
// (channels, touchpoints, exposure buckets).
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS holds the schema for the series stores (spend, outcome,
// co-exposure, hourly performance).
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS

// Package query reads emitted feature datasets back out of ClickHouse for
// the HTTP API.
package query

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"QuicSieve/internal/config"
	"QuicSieve/internal/writer"
)

// VariantSummary aggregates one dataset variant.
type VariantSummary struct {
	Variant     string  `json:"variant"`
	Flows       uint64  `json:"flows"`
	SourceFiles uint64  `json:"source_files"`
	AvgDuration float64 `json:"avg_duration"`
	AvgPackets  float64 `json:"avg_packets"`
}

// FlowRecord is one emitted record of a flow, as stored.
type FlowRecord struct {
	File       string             `json:"file"`
	FlowKey    string             `json:"flow_id"`
	Variant    string             `json:"window_size"`
	ClientIP   string             `json:"client_ip"`
	ClientPort uint16             `json:"client_port"`
	ServerIP   string             `json:"server_ip"`
	ServerPort uint16             `json:"server_port"`
	Features   map[string]float64 `json:"features"`
}

// Querier defines the read side over the flow_features table.
type Querier interface {
	SummarizeVariant(ctx context.Context, variant string) (*VariantSummary, error)
	TraceFlow(ctx context.Context, flowKey string) ([]FlowRecord, error)
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn driver.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := writer.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

// SummarizeVariant aggregates flow counts and mean features for one dataset
// variant.
func (q *clickhouseQuerier) SummarizeVariant(ctx context.Context, variant string) (*VariantSummary, error) {
	const queryStr = `
		SELECT
			count() AS Flows,
			uniqExact(File) AS SourceFiles,
			avg(Features['duration']) AS AvgDuration,
			avg(Features['total_packets']) AS AvgPackets
		FROM flow_features
		WHERE Variant = ?
	`

	row := q.conn.QueryRow(ctx, queryStr, variant)

	summary := &VariantSummary{Variant: variant}
	if err := row.Scan(&summary.Flows, &summary.SourceFiles, &summary.AvgDuration, &summary.AvgPackets); err != nil {
		return nil, fmt.Errorf("failed to scan variant summary: %w", err)
	}
	return summary, nil
}

// TraceFlow returns every stored record of a flow across files and
// variants.
func (q *clickhouseQuerier) TraceFlow(ctx context.Context, flowKey string) ([]FlowRecord, error) {
	const queryStr = `
		SELECT File, FlowKey, Variant, ClientIP, ClientPort, ServerIP, ServerPort, Features
		FROM flow_features
		WHERE FlowKey = ?
		ORDER BY File, Variant
	`

	rows, err := q.conn.Query(ctx, queryStr, flowKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query flow records: %w", err)
	}
	defer rows.Close()

	var records []FlowRecord
	for rows.Next() {
		var rec FlowRecord
		if err := rows.Scan(
			&rec.File, &rec.FlowKey, &rec.Variant,
			&rec.ClientIP, &rec.ClientPort, &rec.ServerIP, &rec.ServerPort,
			&rec.Features,
		); err != nil {
			return nil, fmt.Errorf("failed to scan flow record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Package sqlbatch groups generated SQL statements per table and flushes them
// in the order the tables were first seen.
package sqlbatch

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type FlushOptions struct {
	MaxStatementsPerChunk int
	MaxBytesPerChunk      int
}

type Batch struct {
	tables map[string][]string
	order  []string
}

func New() *Batch {
	return &Batch{
		tables: make(map[string][]string),
		order:  make([]string, 0, 8),
	}
}

// Add queues stmt under table. Blank statements are dropped.
func (b *Batch) Add(table, stmt string) {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return
	}
	if _, ok := b.tables[table]; !ok {
		b.order = append(b.order, table)
	}
	b.tables[table] = append(b.tables[table], stmt)
}

func (b *Batch) Empty() bool {
	return len(b.order) == 0
}

func (b *Batch) Count(table string) int {
	return len(b.tables[table])
}

func (b *Batch) TotalStatementCount() int {
	total := 0
	for _, table := range b.order {
		total += len(b.tables[table])
	}
	return total
}

func (b *Batch) TotalByteSize() int {
	total := 0
	for _, table := range b.order {
		for _, stmt := range b.tables[table] {
			total += len(stmt) + 2
		}
	}
	return total
}

func (b *Batch) Tables() []string {
	return append([]string(nil), b.order...)
}

// FlushInOrder executes every table's statements, joined into chunks bounded by opts.
func (b *Batch) FlushInOrder(ctx context.Context, execer Execer, opts FlushOptions) error {
	for _, table := range b.order {
		for _, chunk := range chunkStatements(b.tables[table], opts) {
			if _, err := execer.ExecContext(ctx, strings.Join(chunk, ";\n")+";"); err != nil {
				return fmt.Errorf("flush table %s: %w", table, err)
			}
		}
	}
	return nil
}

func chunkStatements(stmts []string, opts FlushOptions) [][]string {
	maxStatements := opts.MaxStatementsPerChunk
	maxBytes := opts.MaxBytesPerChunk
	if maxStatements <= 0 {
		maxStatements = len(stmts)
	}
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}

	var chunks [][]string
	var current []string
	currentBytes := 0
	for _, stmt := range stmts {
		stmtBytes := len(stmt) + 2
		if len(current) > 0 && (len(current) >= maxStatements || currentBytes+stmtBytes > maxBytes) {
			chunks = append(chunks, current)
			current = nil
			currentBytes = 0
		}
		current = append(current, stmt)
		currentBytes += stmtBytes
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

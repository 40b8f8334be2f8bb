package sqlbatch

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecer struct {
	queries []string
	failOn  int
}

func (r *recordingExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	r.queries = append(r.queries, query)
	if r.failOn > 0 && len(r.queries) == r.failOn {
		return nil, errors.New("disk full")
	}
	return nil, nil
}

func TestBatchKeepsTableOrder(t *testing.T) {
	b := New()
	assert.True(t, b.Empty())

	b.Add("subjects", "INSERT INTO subjects VALUES (1)")
	b.Add("grades", "  INSERT INTO grades VALUES (10)  ")
	b.Add("subjects", "INSERT INTO subjects VALUES (2)")
	b.Add("grades", "   ")

	assert.False(t, b.Empty())
	assert.Equal(t, []string{"subjects", "grades"}, b.Tables())
	assert.Equal(t, 2, b.Count("subjects"))
	assert.Equal(t, 1, b.Count("grades"))
	assert.Equal(t, 0, b.Count("users"))
	assert.Equal(t, 3, b.TotalStatementCount())

	exec := &recordingExecer{}
	require.NoError(t, b.FlushInOrder(context.Background(), exec, FlushOptions{}))
	assert.Equal(t, []string{
		"INSERT INTO subjects VALUES (1);\nINSERT INTO subjects VALUES (2);",
		"INSERT INTO grades VALUES (10);",
	}, exec.queries)
}

func TestChunkStatements(t *testing.T) {
	stmts := []string{"a", "b", "c", "d", "e"}

	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}},
		chunkStatements(stmts, FlushOptions{MaxStatementsPerChunk: 2}))
	assert.Equal(t, [][]string{{"a", "b", "c", "d", "e"}},
		chunkStatements(stmts, FlushOptions{}))
	// each statement costs len+2 = 3 bytes
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}},
		chunkStatements(stmts, FlushOptions{MaxBytesPerChunk: 6}))
	assert.Nil(t, chunkStatements(nil, FlushOptions{}))
}

func TestFlushStopsOnError(t *testing.T) {
	b := New()
	b.Add("users", "INSERT 1")
	b.Add("grades", "INSERT 2")
	b.Add("comments", "INSERT 3")

	exec := &recordingExecer{failOn: 2}
	err := b.FlushInOrder(context.Background(), exec, FlushOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flush table grades")
	assert.Len(t, exec.queries, 2)
}

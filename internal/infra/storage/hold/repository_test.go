package hold

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// Фейковая транзакция перехватывает итоговый SQL, не выполняя его

var errQueryCaptured = errors.New("query captured")

type capturingTx struct {
	queries []string
}

func (c *capturingTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	c.queries = append(c.queries, query)
	return nil, errQueryCaptured
}

func (c *capturingTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	c.queries = append(c.queries, query)
	return nil, errQueryCaptured
}

func (c *capturingTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	c.queries = append(c.queries, query)
	return nil
}

func (c *capturingTx) Commit() error   { return nil }
func (c *capturingTx) Rollback() error { return nil }

type capturingTxBeginner struct {
	tx       *capturingTx
	lastOpts *sql.TxOptions
}

func (b *capturingTxBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.lastOpts = opts
	return b.tx, nil
}

func TestFindActiveOverlap_NoRowLockInReadOnlyTx(t *testing.T) {
	t.Parallel()

	tx := &capturingTx{}
	beginner := &capturingTxBeginner{tx: tx}
	txm := txmanager.NewTransactionManager(beginner)
	repo := NewRepository(tx)

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	err := txm.DoReadOnly(context.Background(), func(txCtx context.Context) error {
		_, scanErr := repo.FindActiveOverlap(txCtx, 1, 10, now, now.Add(time.Hour), now)
		assert.Error(t, scanErr)
		return nil
	})
	require.NoError(t, err)

	require.NotNil(t, beginner.lastOpts)
	assert.True(t, beginner.lastOpts.ReadOnly)

	// В read-only транзакции Postgres отклоняет FOR UPDATE (ошибка 25006),
	// поэтому блокировка строк здесь недопустима
	require.Len(t, tx.queries, 1)
	assert.NotContains(t, tx.queries[0], "FOR UPDATE")
}

func TestFindActiveOverlap_RowLockInWriteTx(t *testing.T) {
	t.Parallel()

	tx := &capturingTx{}
	beginner := &capturingTxBeginner{tx: tx}
	txm := txmanager.NewTransactionManager(beginner)
	repo := NewRepository(tx)

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	err := txm.DoSerializable(context.Background(), func(txCtx context.Context) error {
		_, scanErr := repo.FindActiveOverlap(txCtx, 1, 10, now, now.Add(time.Hour), now)
		assert.Error(t, scanErr)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, tx.queries, 1)
	assert.Contains(t, tx.queries[0], "FOR UPDATE")
}

func TestFindActiveOverlap_NoRowLockOutsideTx(t *testing.T) {
	t.Parallel()

	tx := &capturingTx{}
	repo := NewRepository(tx)

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	_, err := repo.FindActiveOverlap(context.Background(), 1, 10, now, now.Add(time.Hour), now)
	assert.Error(t, err)

	require.Len(t, tx.queries, 1)
	assert.NotContains(t, tx.queries[0], "FOR UPDATE")
}

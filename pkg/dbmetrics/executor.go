package dbmetrics

import (
	"context"
	"database/sql"
)

// DBExecutor общий интерфейс для выполнения запросов
// Реализуется *sql.DB, *sql.Tx, *dbmetrics.DB и *dbmetrics.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor интерфейс транзакции
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

type ctxKey struct{}

type readOnlyCtxKey struct{}

// WithExecutor кладет транзакцию в контекст
// Репозитории подхватывают её через GetExecutor, не зная о менеджере транзакций
func WithExecutor(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, ctxKey{}, tx)
}

// WithReadOnlyExecutor кладет read-only транзакцию в контекст
// В такой транзакции блокирующие суффиксы (FOR UPDATE) недопустимы:
// Postgres отклоняет их с ошибкой 25006
func WithReadOnlyExecutor(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(WithExecutor(ctx, tx), readOnlyCtxKey{}, true)
}

// GetExecutor возвращает транзакцию из контекста, если она там есть,
// иначе переданный по умолчанию executor
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(ctxKey{}).(TxExecutor); ok {
		return tx
	}
	return fallback
}

// IsInTransaction сообщает, выполняется ли запрос внутри транзакции
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(ctxKey{}).(TxExecutor)
	return ok
}

// IsInWriteTransaction сообщает, выполняется ли запрос внутри пишущей транзакции
// Только в ней репозитории могут брать блокировки строк
func IsInWriteTransaction(ctx context.Context) bool {
	if !IsInTransaction(ctx) {
		return false
	}
	readOnly, _ := ctx.Value(readOnlyCtxKey{}).(bool)
	return !readOnly
}

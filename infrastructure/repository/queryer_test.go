package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
)

var errQueryCaptured = errors.New("query captured")

// fakeQueryer guarda a última query para conferir o SQL gerado pelo squirrel
type fakeQueryer struct {
	query    string
	args     []any
	affected int64
	err      error
}

func (f *fakeQueryer) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.query, f.args = query, args
	if f.err != nil {
		return nil, f.err
	}
	return driver.RowsAffected(f.affected), nil
}

func (f *fakeQueryer) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	f.query, f.args = query, args
	return nil, errQueryCaptured
}

func (f *fakeQueryer) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	f.query, f.args = query, args
	return nil
}

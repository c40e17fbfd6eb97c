package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Tx is the subset of pgx.Tx that repositories rely on. Both pgx.Tx and
// *pgxpool.Pool satisfy it, so reads can run outside an explicit transaction.
type Tx interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// BatchInsertQueryN renders a multi-row VALUES clause for the given base
// INSERT statement, numbering placeholders from $1.
//
//	BatchInsertQueryN("INSERT INTO t (a, b) VALUES", [][]interface{}{{1, 2}, {3, 4}})
//	  -> "INSERT INTO t (a, b) VALUES ($1, $2), ($3, $4)", [1 2 3 4]
func BatchInsertQueryN(baseQuery string, rows [][]interface{}) (string, []interface{}) {
	if len(rows) == 0 {
		return baseQuery, nil
	}

	width := len(rows[0])
	args := make([]interface{}, 0, len(rows)*width)
	groups := make([]string, 0, len(rows))
	n := 1
	for _, row := range rows {
		placeholders := make([]string, len(row))
		for i, v := range row {
			placeholders[i] = fmt.Sprintf("$%d", n)
			args = append(args, v)
			n++
		}
		groups = append(groups, "("+strings.Join(placeholders, ", ")+")")
	}

	return baseQuery + " " + strings.Join(groups, ", "), args
}

// Join concatenates query fragments with single spaces, skipping empties.
func Join(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// JoinWhere renders a WHERE clause from the given conditions joined with AND.
func JoinWhere(conditions ...string) string {
	if len(conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conditions, " AND ")
}

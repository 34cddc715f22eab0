// Package sqlxrepos implements the repositories over PostgreSQL with sqlx,
// building dynamic queries with squirrel.
package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/storage/database"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type base struct {
	db *sqlx.DB
}

func (b base) conn(ctx context.Context) database.Executor {
	return database.Conn(ctx, b.db)
}

func (b base) get(ctx context.Context, dest interface{}, q sq.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return b.conn(ctx).GetContext(ctx, dest, query, args...)
}

func (b base) selectAll(ctx context.Context, dest interface{}, q sq.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return b.conn(ctx).SelectContext(ctx, dest, query, args...)
}

// exec runs q and returns the number of affected rows.
func (b base) exec(ctx context.Context, q sq.Sqlizer) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building query")
	}
	res, err := b.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// execOne is exec failing with notFound when no row was affected.
func (b base) execOne(ctx context.Context, q sq.Sqlizer, msg string, notFound error) error {
	n, err := b.exec(ctx, q)
	if err != nil {
		return database.MapError(err, msg, notFound)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func (b base) exists(ctx context.Context, q sq.SelectBuilder) (bool, error) {
	var found bool
	err := b.get(ctx, &found, q.Prefix("SELECT EXISTS (").Suffix(")"))
	return found, err
}

// page counts the rows matching q then selects one page of columns into dest.
// q must not have columns yet.
func (b base) page(ctx context.Context, dest interface{}, q sq.SelectBuilder, columns []string, opts core.ListOptions) (int, error) {
	var total int
	if err := b.get(ctx, &total, q.Columns("COUNT(*)")); err != nil {
		return 0, errors.Wrap(err, "counting rows")
	}

	q = q.Columns(columns...)
	for _, ord := range opts.Ordering {
		q = q.OrderBy(ord.String())
	}
	q = q.OrderBy("id ASC").
		Limit(uint64(opts.Pagination.Limit)).
		Offset(uint64(opts.Pagination.Skip))
	if err := b.selectAll(ctx, dest, q); err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return total, nil
}

func ilike(value string, columns ...string) sq.Or {
	pattern := "%" + value + "%"
	or := make(sq.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, sq.ILike{col: pattern})
	}
	return or
}

// sub queries
const (
	enrolledCourses  = "SELECT course_id FROM enrollments WHERE student_id = ?"
	enrolledStudents = "SELECT student_id FROM enrollments WHERE course_id = ?"
	teacherCourses   = "SELECT id FROM courses WHERE teacher_id = ?"
	teacherStudents  = "SELECT e.student_id FROM enrollments e JOIN courses c ON c.id = e.course_id WHERE c.teacher_id = ?"
	studentTeachers  = "SELECT c.teacher_id FROM courses c JOIN enrollments e ON e.course_id = c.id WHERE e.student_id = ?"
)

func in(column, subQuery string, args ...interface{}) sq.Sqlizer {
	return sq.Expr(column+" IN ("+subQuery+")", args...)
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

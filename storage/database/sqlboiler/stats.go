// Package boiledrepos reads the dashboard statistics with sqlboiler raw queries.
package boiledrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries"

	"github.com/sudais-khan12/LMS-sub002/core/leave"
	"github.com/sudais-khan12/LMS-sub002/core/report"
	"github.com/sudais-khan12/LMS-sub002/storage/database"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type statsReader struct {
	db *sqlx.DB
}

var _ report.StatsReader = (*statsReader)(nil) // interface compliance check

func NewStatsReader(db *sqlx.DB) *statsReader {
	return &statsReader{db: db}
}

func (r statsReader) exec(ctx context.Context) boil.ContextExecutor {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return r.db
}

func (r statsReader) bind(ctx context.Context, dest interface{}, q sq.Sqlizer, msg string) error {
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return errors.Wrap(queries.Raw(query, args...).Bind(ctx, r.exec(ctx), dest), msg)
}

func (r statsReader) Totals(ctx context.Context) (report.Totals, error) {
	var row struct {
		Users       int `boil:"users"`
		Admins      int `boil:"admins"`
		Teachers    int `boil:"teachers"`
		Students    int `boil:"students"`
		Courses     int `boil:"courses"`
		Assignments int `boil:"assignments"`
		Submissions int `boil:"submissions"`
		Reports     int `boil:"reports"`
	}
	q := psql.Select(
		"(SELECT COUNT(*) FROM users) AS users",
		"(SELECT COUNT(*) FROM users WHERE role = 'ADMIN') AS admins",
		"(SELECT COUNT(*) FROM teachers) AS teachers",
		"(SELECT COUNT(*) FROM students) AS students",
		"(SELECT COUNT(*) FROM courses) AS courses",
		"(SELECT COUNT(*) FROM assignments) AS assignments",
		"(SELECT COUNT(*) FROM submissions) AS submissions",
		"(SELECT COUNT(*) FROM reports) AS reports",
	)
	if err := r.bind(ctx, &row, q, "counting totals"); err != nil {
		return report.Totals{}, err
	}
	return report.Totals(row), nil
}

func (r statsReader) LeaveCounts(ctx context.Context, teacherID string) (map[string]int, error) {
	var rows []struct {
		Status string `boil:"status"`
		N      int    `boil:"n"`
	}
	q := psql.Select("status", "COUNT(*) AS n").From("leave_requests").GroupBy("status")
	if teacherID != "" {
		q = q.Where(sq.Expr("student_id IN (SELECT e.student_id FROM enrollments e JOIN courses c ON c.id = e.course_id WHERE c.teacher_id = ?)", teacherID))
	}
	if err := r.bind(ctx, &rows, q, "counting leave requests"); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(leave.AllStatuses))
	for _, s := range leave.AllStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}

func (r statsReader) AttendanceStatuses(ctx context.Context, scope report.Scope) ([]string, error) {
	var rows []struct {
		Status string `boil:"status"`
	}
	q := psql.Select("status").From("attendance")
	if scope.CourseID != "" {
		q = q.Where(sq.Eq{"course_id": scope.CourseID})
	}
	if scope.StudentID != "" {
		q = q.Where(sq.Eq{"student_id": scope.StudentID})
	}
	if err := r.bind(ctx, &rows, q, "reading attendance statuses"); err != nil {
		return nil, err
	}

	statuses := make([]string, 0, len(rows))
	for _, row := range rows {
		statuses = append(statuses, row.Status)
	}
	return statuses, nil
}

func (r statsReader) SubmissionGrades(ctx context.Context, scope report.Scope) ([]float64, int, error) {
	var rows []struct {
		Grade null.Float64 `boil:"grade"`
	}
	q := psql.Select("s.grade").From("submissions s").Join("assignments a ON a.id = s.assignment_id")
	if scope.CourseID != "" {
		q = q.Where(sq.Eq{"a.course_id": scope.CourseID})
	}
	if scope.StudentID != "" {
		q = q.Where(sq.Eq{"s.student_id": scope.StudentID})
	}
	if err := r.bind(ctx, &rows, q, "reading submission grades"); err != nil {
		return nil, 0, err
	}

	grades := make([]float64, 0, len(rows))
	for _, row := range rows {
		if row.Grade.Valid {
			grades = append(grades, row.Grade.Float64)
		}
	}
	return grades, len(rows), nil
}

func (r statsReader) AssignmentCount(ctx context.Context, courseID string) (int, error) {
	var row struct {
		N int `boil:"n"`
	}
	q := psql.Select("COUNT(*) AS n").From("assignments")
	if courseID != "" {
		q = q.Where(sq.Eq{"course_id": courseID})
	}
	err := r.bind(ctx, &row, q, "counting assignments")
	return row.N, err
}

type courseRow struct {
	ID    string `boil:"id"`
	Title string `boil:"title"`
	Code  string `boil:"code"`
}

func (r statsReader) courses(ctx context.Context, q sq.SelectBuilder) ([]report.CourseRef, error) {
	var rows []courseRow
	if err := r.bind(ctx, &rows, q.OrderBy("c.title"), "finding courses"); err != nil {
		return nil, err
	}
	refs := make([]report.CourseRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, report.CourseRef(row))
	}
	return refs, nil
}

func (r statsReader) TeacherCourses(ctx context.Context, teacherID string) ([]report.CourseRef, error) {
	return r.courses(ctx, psql.Select("c.id", "c.title", "c.code").From("courses c").
		Where(sq.Eq{"c.teacher_id": teacherID}))
}

func (r statsReader) StudentCourses(ctx context.Context, studentID string) ([]report.CourseRef, error) {
	return r.courses(ctx, psql.Select("c.id", "c.title", "c.code").From("courses c").
		Join("enrollments e ON e.course_id = c.id").
		Where(sq.Eq{"e.student_id": studentID}))
}

func (r statsReader) CourseStudents(ctx context.Context, courseID string) ([]report.StudentRef, error) {
	var rows []struct {
		ID           string `boil:"id"`
		Name         string `boil:"name"`
		EnrollmentNo string `boil:"enrollment_no"`
	}
	q := psql.Select("sp.id", "sp.name", "sp.enrollment_no").
		From("student_profiles sp").
		Join("enrollments e ON e.student_id = sp.id").
		Where(sq.Eq{"e.course_id": courseID}).
		OrderBy("sp.name")
	if err := r.bind(ctx, &rows, q, "finding course students"); err != nil {
		return nil, err
	}

	refs := make([]report.StudentRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, report.StudentRef(row))
	}
	return refs, nil
}

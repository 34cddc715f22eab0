package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/attendance"
	"github.com/sudais-khan12/LMS-sub002/storage/database"
)

var attendanceColumns = []string{"id", "student_id", "course_id", "date", "status", "created_at", "updated_at"}

type attendanceRepository struct {
	base
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{base{db: db}}
}

func (repo attendanceRepository) UpsertAttendance(ctx context.Context, a attendance.Attendance) (attendance.Attendance, bool, error) {
	var row struct {
		attendance.Attendance
		Created bool `db:"created"`
	}
	// xmax is 0 on freshly inserted rows
	q := psql.Insert("attendance").Columns(attendanceColumns...).
		Values(a.ID, a.StudentID, a.CourseID, a.Date, a.Status, a.CreatedAt, a.UpdatedAt).
		Suffix("ON CONFLICT (student_id, course_id, date) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at").
		Suffix("RETURNING " + joinColumns(attendanceColumns) + ", (xmax = 0) AS created")
	if err := repo.get(ctx, &row, q); err != nil {
		return attendance.Attendance{}, false, database.MapError(err, "upserting attendance", attendance.ErrNotFound)
	}
	return row.Attendance, row.Created, nil
}

func (repo attendanceRepository) GetAttendance(ctx context.Context, id string) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := repo.get(ctx, &a, psql.Select(attendanceColumns...).From("attendance").Where(sq.Eq{"id": id}))
	return a, database.MapError(err, "finding attendance", attendance.ErrNotFound)
}

func (repo attendanceRepository) CourseExists(ctx context.Context, courseID string) (bool, error) {
	return repo.exists(ctx, psql.Select("1").From("courses").Where(sq.Eq{"id": courseID}))
}

func (repo attendanceRepository) StudentExists(ctx context.Context, studentID string) (bool, error) {
	return repo.exists(ctx, psql.Select("1").From("students").Where(sq.Eq{"id": studentID}))
}

func (repo attendanceRepository) QueryAttendance(ctx context.Context, filter attendance.QueryFilter, opts core.ListOptions) ([]attendance.Attendance, int, error) {
	q := psql.Select().From("attendance")
	if filter.CourseID != "" {
		q = q.Where(sq.Eq{"course_id": filter.CourseID})
	}
	if filter.StudentID != "" {
		q = q.Where(sq.Eq{"student_id": filter.StudentID})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": filter.Status})
	}
	if !filter.From.IsZero() {
		q = q.Where(sq.GtOrEq{"date": filter.From})
	}
	if !filter.To.IsZero() {
		q = q.Where(sq.LtOrEq{"date": filter.To})
	}
	if filter.TeacherID != "" {
		q = q.Where(in("course_id", teacherCourses, filter.TeacherID))
	}

	records := []attendance.Attendance{}
	total, err := repo.page(ctx, &records, q, attendanceColumns, opts)
	if err != nil {
		return nil, 0, database.MapError(err, "querying attendance", attendance.ErrNotFound)
	}
	return records, total, nil
}

func (repo attendanceRepository) UpdateAttendance(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := psql.Update("attendance").
		Set("status", a.Status).
		Set("updated_at", a.UpdatedAt).
		Where(sq.Eq{"id": a.ID})
	if err := repo.execOne(ctx, q, "updating attendance", attendance.ErrNotFound); err != nil {
		return attendance.Attendance{}, err
	}
	return a, nil
}

func (repo attendanceRepository) DeleteAttendance(ctx context.Context, id string) error {
	q := psql.Delete("attendance").Where(sq.Eq{"id": id})
	return repo.execOne(ctx, q, "deleting attendance", attendance.ErrNotFound)
}

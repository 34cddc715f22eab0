package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/report"
	"github.com/sudais-khan12/LMS-sub002/storage/database"
)

var reportColumns = []string{
	"id", "student_id", "semester", "gpa", "credits", "remarks", "created_at", "updated_at", "student_name", "enrollment_no",
}

type reportRepository struct {
	base
}

var _ report.Repository = (*reportRepository)(nil)

func NewReportRepository(db *sqlx.DB) *reportRepository {
	return &reportRepository{base{db: db}}
}

func (repo reportRepository) CreateReport(ctx context.Context, r report.Report) (report.Report, error) {
	q := psql.Insert("reports").
		Columns("id", "student_id", "semester", "gpa", "credits", "remarks", "created_at", "updated_at").
		Values(r.ID, r.StudentID, r.Semester, r.GPA, r.Credits, r.Remarks, r.CreatedAt, r.UpdatedAt)
	if _, err := repo.exec(ctx, q); err != nil {
		return report.Report{}, database.MapError(err, "inserting report", report.ErrNotFound)
	}
	return repo.GetReport(ctx, r.ID)
}

func (repo reportRepository) GetReport(ctx context.Context, id string) (report.Report, error) {
	var r report.Report
	err := repo.get(ctx, &r, psql.Select(reportColumns...).From("report_details").Where(sq.Eq{"id": id}))
	return r, database.MapError(err, "finding report", report.ErrNotFound)
}

func (repo reportRepository) StudentExists(ctx context.Context, studentID string) (bool, error) {
	return repo.exists(ctx, psql.Select("1").From("students").Where(sq.Eq{"id": studentID}))
}

func (repo reportRepository) QueryReports(ctx context.Context, filter report.QueryFilter, opts core.ListOptions) ([]report.Report, int, error) {
	q := psql.Select().From("report_details")
	if filter.StudentID != "" {
		q = q.Where(sq.Eq{"student_id": filter.StudentID})
	}
	if filter.Semester > 0 {
		q = q.Where(sq.Eq{"semester": filter.Semester})
	}
	if filter.TeacherID != "" {
		q = q.Where(in("student_id", teacherStudents, filter.TeacherID))
	}

	reports := []report.Report{}
	total, err := repo.page(ctx, &reports, q, reportColumns, opts)
	if err != nil {
		return nil, 0, database.MapError(err, "querying reports", report.ErrNotFound)
	}
	return reports, total, nil
}

func (repo reportRepository) UpdateReport(ctx context.Context, r report.Report) (report.Report, error) {
	q := psql.Update("reports").SetMap(map[string]interface{}{
		"semester":   r.Semester,
		"gpa":        r.GPA,
		"credits":    r.Credits,
		"remarks":    r.Remarks,
		"updated_at": r.UpdatedAt,
	}).Where(sq.Eq{"id": r.ID})
	if err := repo.execOne(ctx, q, "updating report", report.ErrNotFound); err != nil {
		return report.Report{}, err
	}
	return r, nil
}

func (repo reportRepository) DeleteReport(ctx context.Context, id string) error {
	return repo.execOne(ctx, psql.Delete("reports").Where(sq.Eq{"id": id}), "deleting report", report.ErrNotFound)
}

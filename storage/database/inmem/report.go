package inmemdb

import (
	"context"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/report"
)

type reportRepository struct {
	db *DB
}

func NewReportRepository(db *DB) report.Repository {
	return &reportRepository{db: db}
}

// reportDetails must be called holding a lock.
func (db *DB) reportDetails(r report.Report) report.Report {
	s := db.studentWithUser(db.students[r.StudentID])
	r.StudentName, r.EnrollmentNo = s.Name, s.EnrollmentNo
	return r
}

func (repo *reportRepository) CreateReport(ctx context.Context, r report.Report) (report.Report, error) {
	err := repo.db.write(ctx, func() error {
		if _, ok := repo.db.students[r.StudentID]; !ok {
			return report.ErrStudentNotFound
		}
		repo.db.reports[r.ID] = r
		r = repo.db.reportDetails(r)
		return nil
	})
	return r, err
}

func (repo *reportRepository) GetReport(_ context.Context, id string) (r report.Report, err error) {
	err = repo.db.read(func() error {
		var ok bool
		if r, ok = repo.db.reports[id]; !ok {
			return report.ErrNotFound
		}
		r = repo.db.reportDetails(r)
		return nil
	})
	return r, err
}

func (repo *reportRepository) StudentExists(_ context.Context, studentID string) (bool, error) {
	var ok bool
	_ = repo.db.read(func() error {
		_, ok = repo.db.students[studentID]
		return nil
	})
	return ok, nil
}

func reportField(r report.Report, column string) interface{} {
	switch column {
	case "semester":
		return r.Semester
	case "gpa":
		return r.GPA
	case "created_at":
		return r.CreatedAt
	case "enrollment_no":
		return r.EnrollmentNo
	}
	return r.ID
}

func (repo *reportRepository) QueryReports(_ context.Context, filter report.QueryFilter, opts core.ListOptions) ([]report.Report, int, error) {
	var reports []report.Report
	_ = repo.db.read(func() error {
		var taught map[string]bool
		if filter.TeacherID != "" {
			taught = repo.db.teacherStudents(filter.TeacherID)
		}
		for _, r := range repo.db.reports {
			if filter.StudentID != "" && r.StudentID != filter.StudentID {
				continue
			}
			if filter.Semester > 0 && r.Semester != filter.Semester {
				continue
			}
			if taught != nil && !taught[r.StudentID] {
				continue
			}
			reports = append(reports, repo.db.reportDetails(r))
		}
		return nil
	})
	page, total := list(reports, opts, reportField)
	return page, total, nil
}

func (repo *reportRepository) UpdateReport(ctx context.Context, r report.Report) (report.Report, error) {
	err := repo.db.write(ctx, func() error {
		orig, ok := repo.db.reports[r.ID]
		if !ok {
			return report.ErrNotFound
		}
		r.StudentID, r.CreatedAt = orig.StudentID, orig.CreatedAt
		repo.db.reports[r.ID] = r
		r = repo.db.reportDetails(r)
		return nil
	})
	return r, err
}

func (repo *reportRepository) DeleteReport(ctx context.Context, id string) error {
	return repo.db.write(ctx, func() error {
		if _, ok := repo.db.reports[id]; !ok {
			return report.ErrNotFound
		}
		delete(repo.db.reports, id)
		return nil
	})
}

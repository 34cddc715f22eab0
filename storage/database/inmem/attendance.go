package inmemdb

import (
	"context"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) UpsertAttendance(ctx context.Context, a attendance.Attendance) (rec attendance.Attendance, created bool, err error) {
	err = repo.db.write(ctx, func() error {
		if _, ok := repo.db.courses[a.CourseID]; !ok {
			return attendance.ErrCourseNotFound
		}
		if _, ok := repo.db.students[a.StudentID]; !ok {
			return attendance.ErrStudentNotFound
		}
		for id, existing := range repo.db.attendance {
			if existing.StudentID == a.StudentID && existing.CourseID == a.CourseID && existing.Date.Equal(a.Date.Time) {
				existing.Status, existing.UpdatedAt = a.Status, a.UpdatedAt
				repo.db.attendance[id] = existing
				rec = existing
				return nil
			}
		}
		repo.db.attendance[a.ID] = a
		rec, created = a, true
		return nil
	})
	return rec, created, err
}

func (repo *attendanceRepository) GetAttendance(_ context.Context, id string) (a attendance.Attendance, err error) {
	err = repo.db.read(func() error {
		var ok bool
		if a, ok = repo.db.attendance[id]; !ok {
			return attendance.ErrNotFound
		}
		return nil
	})
	return a, err
}

func (repo *attendanceRepository) CourseExists(_ context.Context, courseID string) (bool, error) {
	var ok bool
	_ = repo.db.read(func() error {
		_, ok = repo.db.courses[courseID]
		return nil
	})
	return ok, nil
}

func (repo *attendanceRepository) StudentExists(_ context.Context, studentID string) (bool, error) {
	var ok bool
	_ = repo.db.read(func() error {
		_, ok = repo.db.students[studentID]
		return nil
	})
	return ok, nil
}

func attendanceField(a attendance.Attendance, column string) interface{} {
	switch column {
	case "date":
		return a.Date
	case "status":
		return a.Status
	case "created_at":
		return a.CreatedAt
	}
	return a.ID
}

func (repo *attendanceRepository) QueryAttendance(_ context.Context, filter attendance.QueryFilter, opts core.ListOptions) ([]attendance.Attendance, int, error) {
	var records []attendance.Attendance
	_ = repo.db.read(func() error {
		var taught map[string]bool
		if filter.TeacherID != "" {
			taught = repo.db.teacherCourses(filter.TeacherID)
		}
		for _, a := range repo.db.attendance {
			if filter.CourseID != "" && a.CourseID != filter.CourseID {
				continue
			}
			if filter.StudentID != "" && a.StudentID != filter.StudentID {
				continue
			}
			if filter.Status != "" && a.Status != filter.Status {
				continue
			}
			if !filter.From.IsZero() && a.Date.Before(filter.From) {
				continue
			}
			if !filter.To.IsZero() && a.Date.After(filter.To) {
				continue
			}
			if taught != nil && !taught[a.CourseID] {
				continue
			}
			records = append(records, a)
		}
		return nil
	})
	page, total := list(records, opts, attendanceField)
	return page, total, nil
}

func (repo *attendanceRepository) UpdateAttendance(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	err := repo.db.write(ctx, func() error {
		orig, ok := repo.db.attendance[a.ID]
		if !ok {
			return attendance.ErrNotFound
		}
		orig.Status, orig.UpdatedAt = a.Status, a.UpdatedAt
		repo.db.attendance[a.ID] = orig
		a = orig
		return nil
	})
	return a, err
}

func (repo *attendanceRepository) DeleteAttendance(ctx context.Context, id string) error {
	return repo.db.write(ctx, func() error {
		if _, ok := repo.db.attendance[id]; !ok {
			return attendance.ErrNotFound
		}
		delete(repo.db.attendance, id)
		return nil
	})
}

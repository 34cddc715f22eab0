package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/sudais-khan12/LMS-sub002/core"
)

var (
	ErrNotFound        = core.NewNotFoundError("attendance")
	ErrCourseNotFound  = core.NewNotFoundError("course")
	ErrStudentNotFound = core.NewNotFoundError("student")
)

type (
	Repository interface {
		// UpsertAttendance inserts a or, when the student already has a record for the
		// course and date, replaces its status. created reports which one happened.
		UpsertAttendance(ctx context.Context, a Attendance) (rec Attendance, created bool, err error)
		GetAttendance(ctx context.Context, id string) (Attendance, error)
		CourseExists(ctx context.Context, courseID string) (bool, error)
		StudentExists(ctx context.Context, studentID string) (bool, error)
		QueryAttendance(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Attendance, int, error)
		UpdateAttendance(ctx context.Context, a Attendance) (Attendance, error)
		DeleteAttendance(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Mark upserts the attendance status of a student for a course day; ma must have been validated.
func (svc *Service) Mark(ctx context.Context, ma MarkAttendance) (Attendance, bool, error) {
	ok, err := svc.repo.CourseExists(ctx, ma.CourseID)
	if err != nil {
		return Attendance{}, false, errors.Wrap(err, "finding course")
	}
	if !ok {
		return Attendance{}, false, ErrCourseNotFound
	}
	if ok, err = svc.repo.StudentExists(ctx, ma.StudentID); err != nil {
		return Attendance{}, false, errors.Wrap(err, "finding student")
	}
	if !ok {
		return Attendance{}, false, ErrStudentNotFound
	}

	now := time.Now().UTC()
	return svc.repo.UpsertAttendance(ctx, Attendance{
		ID:        core.NewID(),
		StudentID: ma.StudentID,
		CourseID:  ma.CourseID,
		Date:      ma.Date,
		Status:    ma.Status,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Attendance, error) {
	if !core.IsValidID(id) {
		return Attendance{}, ErrNotFound
	}
	return svc.repo.GetAttendance(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Attendance, int, error) {
	opts.Ordering = core.CleanOrdering(opts.Ordering, OrderingFields)
	if len(opts.Ordering) == 0 {
		opts.Ordering = []core.DBOrdering{{Field: "date"}}
	}
	return svc.repo.QueryAttendance(ctx, filter, opts)
}

func (svc *Service) Update(ctx context.Context, a Attendance, ua UpdateAttendance) (Attendance, error) {
	a.Status = ua.Status
	a.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAttendance(ctx, a)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if !core.IsValidID(id) {
		return ErrNotFound
	}
	return svc.repo.DeleteAttendance(ctx, id)
}

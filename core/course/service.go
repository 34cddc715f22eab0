package course

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/sudais-khan12/LMS-sub002/core"
)

var (
	ErrNotFound        = core.NewNotFoundError("course")
	ErrTeacherNotFound = core.NewNotFoundError("teacher")
	ErrStudentNotFound = core.NewNotFoundError("student")
	ErrCodeExists      = core.NewConflictError("a course with this code already exists")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, c Course) (Course, error)
		GetCourse(ctx context.Context, id string) (Course, error)
		CodeExists(ctx context.Context, code, excludedID string) (bool, error)
		TeacherExists(ctx context.Context, teacherID string) (bool, error)
		StudentExists(ctx context.Context, studentID string) (bool, error)
		QueryCourses(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Course, int, error)
		UpdateCourse(ctx context.Context, c Course) (Course, error)
		DeleteCourse(ctx context.Context, id string) error
		// DeleteStudentRecords removes the student's attendance and submissions in the course.
		DeleteStudentRecords(ctx context.Context, courseID, studentID string) (Unenrollment, error)
	}

	Service struct {
		repo Repository
		tx   core.Transactor
	}
)

// Unenrollment reports what removing a student from a course deleted.
type Unenrollment struct {
	CourseID    string `json:"courseId"`
	StudentID   string `json:"studentId"`
	Attendance  int    `json:"attendance"`
	Submissions int    `json:"submissions"`
}

func NewService(repo Repository, tx core.Transactor) *Service {
	return &Service{repo: repo, tx: tx}
}

func (svc *Service) checkCode(ctx context.Context, code, excludedID string) error {
	exists, err := svc.repo.CodeExists(ctx, code, excludedID)
	if err != nil {
		return errors.Wrap(err, "checking course code uniqueness")
	}
	if exists {
		return ErrCodeExists
	}
	return nil
}

func (svc *Service) checkTeacher(ctx context.Context, teacherID string) error {
	ok, err := svc.repo.TeacherExists(ctx, teacherID)
	if err != nil {
		return errors.Wrap(err, "finding teacher")
	}
	if !ok {
		return ErrTeacherNotFound
	}
	return nil
}

// Create persists nc; nc must have been validated.
func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	if err := svc.checkCode(ctx, nc.Code, ""); err != nil {
		return Course{}, err
	}
	c := Course{
		ID:          core.NewID(),
		Title:       nc.Title,
		Code:        nc.Code,
		Description: nc.Description,
	}
	if nc.TeacherID != "" {
		if err := svc.checkTeacher(ctx, nc.TeacherID); err != nil {
			return Course{}, err
		}
		c.TeacherID = null.StringFrom(nc.TeacherID)
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	return svc.repo.CreateCourse(ctx, c)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	if !core.IsValidID(id) {
		return Course{}, ErrNotFound
	}
	return svc.repo.GetCourse(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Course, int, error) {
	opts.Ordering = core.CleanOrdering(opts.Ordering, OrderingFields)
	return svc.repo.QueryCourses(ctx, filter, opts)
}

// Update saves uc on c; uc must have been validated.
func (svc *Service) Update(ctx context.Context, c Course, uc UpdateCourse) (Course, error) {
	if uc.Code != nil && *uc.Code != c.Code {
		if err := svc.checkCode(ctx, *uc.Code, c.ID); err != nil {
			return Course{}, err
		}
		c.Code = *uc.Code
	}
	if uc.Title != nil {
		c.Title = *uc.Title
	}
	if uc.Description != nil {
		c.Description = *uc.Description
	}
	if uc.TeacherID != nil {
		switch tid := *uc.TeacherID; {
		case tid == "":
			c.TeacherID = null.String{}
		case tid != c.TeacherID.String:
			if err := svc.checkTeacher(ctx, tid); err != nil {
				return Course{}, err
			}
			c.TeacherID = null.StringFrom(tid)
		}
	}
	c.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, c)
}

// Delete removes the course with its assignments, submissions and attendance.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if !core.IsValidID(id) {
		return ErrNotFound
	}
	return svc.repo.DeleteCourse(ctx, id)
}

// RemoveStudent deletes, atomically, the student's attendance and submissions in the course
// and nothing else.
func (svc *Service) RemoveStudent(ctx context.Context, courseID, studentID string) (Unenrollment, error) {
	if !core.IsValidID(studentID) {
		return Unenrollment{}, ErrStudentNotFound
	}
	var res Unenrollment
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := svc.repo.GetCourse(ctx, courseID); err != nil {
			return err
		}
		ok, err := svc.repo.StudentExists(ctx, studentID)
		if err != nil {
			return errors.Wrap(err, "finding student")
		}
		if !ok {
			return ErrStudentNotFound
		}
		res, err = svc.repo.DeleteStudentRecords(ctx, courseID, studentID)
		return errors.Wrap(err, "deleting student records")
	})
	return res, err
}

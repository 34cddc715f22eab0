package student

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

var (
	ErrNotFound         = core.NewNotFoundError("student")
	ErrEnrollmentExists = core.NewConflictError("a student with this enrollment number already exists")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		GetStudentByUser(ctx context.Context, userID string) (Student, error)
		EnrollmentNoExists(ctx context.Context, enrollmentNo, excludedID string) (bool, error)
		QueryStudents(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Student, int, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
	}

	UserService interface {
		Create(ctx context.Context, nu user.NewUser) (user.User, error)
		GetByID(ctx context.Context, id string) (user.User, error)
		Update(ctx context.Context, usr user.User, uu user.UpdateUser) (user.User, error)
		Delete(ctx context.Context, id string) error
	}

	Service struct {
		repo  Repository
		users UserService
		tx    core.Transactor
	}
)

func NewService(repo Repository, users UserService, tx core.Transactor) *Service {
	return &Service{repo: repo, users: users, tx: tx}
}

func (svc *Service) checkEnrollmentNo(ctx context.Context, no, excludedID string) error {
	exists, err := svc.repo.EnrollmentNoExists(ctx, no, excludedID)
	if err != nil {
		return errors.Wrap(err, "checking enrollment number uniqueness")
	}
	if exists {
		return ErrEnrollmentExists
	}
	return nil
}

// Create adds a STUDENT user and its profile in one transaction.
func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	var s Student
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := svc.checkEnrollmentNo(ctx, ns.EnrollmentNo, ""); err != nil {
			return err
		}
		usr, err := svc.users.Create(ctx, ns.NewUser)
		if err != nil {
			return err
		}
		s, err = svc.repo.CreateStudent(ctx, Student{
			ID:           core.NewID(),
			UserID:       usr.ID,
			EnrollmentNo: ns.EnrollmentNo,
			Semester:     ns.Semester,
			Section:      ns.Section,
		})
		return errors.Wrap(err, "creating student")
	})
	return s, err
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	if !core.IsValidID(id) {
		return Student{}, ErrNotFound
	}
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) GetByUser(ctx context.Context, userID string) (Student, error) {
	return svc.repo.GetStudentByUser(ctx, userID)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Student, int, error) {
	opts.Ordering = core.CleanOrdering(opts.Ordering, OrderingFields)
	return svc.repo.QueryStudents(ctx, filter, opts)
}

func (svc *Service) User(ctx context.Context, s Student) (user.User, error) {
	return svc.users.GetByID(ctx, s.UserID)
}

// Update saves us on s and its user; us must have been validated against that user.
func (svc *Service) Update(ctx context.Context, s Student, usr user.User, us UpdateStudent) (Student, error) {
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if us.EnrollmentNo != nil && *us.EnrollmentNo != s.EnrollmentNo {
			if err := svc.checkEnrollmentNo(ctx, *us.EnrollmentNo, s.ID); err != nil {
				return err
			}
			s.EnrollmentNo = *us.EnrollmentNo
		}
		if _, err := svc.users.Update(ctx, usr, us.UpdateUser); err != nil {
			return err
		}
		if us.Semester != nil {
			s.Semester = *us.Semester
		}
		if us.Section != nil {
			s.Section = *us.Section
		}
		var err error
		s, err = svc.repo.UpdateStudent(ctx, s)
		return errors.Wrap(err, "updating student")
	})
	return s, err
}

// Delete removes the student with its user and everything recorded for them.
func (svc *Service) Delete(ctx context.Context, id string) error {
	s, err := svc.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return svc.users.Delete(ctx, s.UserID)
}

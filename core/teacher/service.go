package teacher

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

var ErrNotFound = core.NewNotFoundError("teacher")

type (
	Repository interface {
		CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		GetTeacher(ctx context.Context, id string) (Teacher, error)
		GetTeacherByUser(ctx context.Context, userID string) (Teacher, error)
		QueryTeachers(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Teacher, int, error)
		UpdateTeacher(ctx context.Context, t Teacher) (Teacher, error)
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

// Create adds a TEACHER user and its profile in one transaction.
func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	var t Teacher
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		usr, err := svc.users.Create(ctx, nt.NewUser)
		if err != nil {
			return err
		}
		t, err = svc.repo.CreateTeacher(ctx, Teacher{
			ID:             core.NewID(),
			UserID:         usr.ID,
			Specialization: nt.Specialization,
			Contact:        nt.Contact,
			IsActive:       true,
		})
		return errors.Wrap(err, "creating teacher")
	})
	return t, err
}

func (svc *Service) GetByID(ctx context.Context, id string) (Teacher, error) {
	if !core.IsValidID(id) {
		return Teacher{}, ErrNotFound
	}
	return svc.repo.GetTeacher(ctx, id)
}

func (svc *Service) GetByUser(ctx context.Context, userID string) (Teacher, error) {
	return svc.repo.GetTeacherByUser(ctx, userID)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Teacher, int, error) {
	opts.Ordering = core.CleanOrdering(opts.Ordering, OrderingFields)
	return svc.repo.QueryTeachers(ctx, filter, opts)
}

// User returns the user t belongs to.
func (svc *Service) User(ctx context.Context, t Teacher) (user.User, error) {
	return svc.users.GetByID(ctx, t.UserID)
}

// Update saves ut on t and its user; ut must have been validated against that user.
func (svc *Service) Update(ctx context.Context, t Teacher, usr user.User, ut UpdateTeacher) (Teacher, error) {
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := svc.users.Update(ctx, usr, ut.UpdateUser); err != nil {
			return err
		}
		if ut.Specialization != nil {
			t.Specialization = *ut.Specialization
		}
		if ut.Contact != nil {
			t.Contact = *ut.Contact
		}
		if ut.IsActive != nil {
			t.IsActive = *ut.IsActive
		}
		var err error
		t, err = svc.repo.UpdateTeacher(ctx, t)
		return errors.Wrap(err, "updating teacher")
	})
	return t, err
}

// Delete removes the teacher with its user. Their courses are kept without a teacher.
func (svc *Service) Delete(ctx context.Context, id string) error {
	t, err := svc.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return svc.users.Delete(ctx, t.UserID)
}

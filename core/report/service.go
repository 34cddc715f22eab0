package report

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/sudais-khan12/LMS-sub002/core"
)

var (
	ErrNotFound        = core.NewNotFoundError("report")
	ErrStudentNotFound = core.NewNotFoundError("student")
)

type (
	Repository interface {
		CreateReport(ctx context.Context, r Report) (Report, error)
		GetReport(ctx context.Context, id string) (Report, error)
		StudentExists(ctx context.Context, studentID string) (bool, error)
		QueryReports(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Report, int, error)
		UpdateReport(ctx context.Context, r Report) (Report, error)
		DeleteReport(ctx context.Context, id string) error
	}

	// UnreadCounter counts a user's unread notifications.
	UnreadCounter interface {
		CountUnread(ctx context.Context, userID string) (int, error)
	}

	Service struct {
		repo   Repository
		stats  StatsReader
		unread UnreadCounter
	}
)

func NewService(repo Repository, stats StatsReader, unread UnreadCounter) *Service {
	return &Service{repo: repo, stats: stats, unread: unread}
}

// Create persists nr; nr must have been validated.
func (svc *Service) Create(ctx context.Context, nr NewReport) (Report, error) {
	ok, err := svc.repo.StudentExists(ctx, nr.StudentID)
	if err != nil {
		return Report{}, errors.Wrap(err, "finding student")
	}
	if !ok {
		return Report{}, ErrStudentNotFound
	}

	now := time.Now().UTC()
	return svc.repo.CreateReport(ctx, Report{
		ID:        core.NewID(),
		StudentID: nr.StudentID,
		Semester:  nr.Semester,
		GPA:       *nr.GPA,
		Credits:   nr.Credits,
		Remarks:   nr.Remarks,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Report, error) {
	if !core.IsValidID(id) {
		return Report{}, ErrNotFound
	}
	return svc.repo.GetReport(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Report, int, error) {
	opts.Ordering = core.CleanOrdering(opts.Ordering, OrderingFields)
	if len(opts.Ordering) == 0 {
		opts.Ordering = []core.DBOrdering{{Field: "semester", Ascending: true}}
	}
	return svc.repo.QueryReports(ctx, filter, opts)
}

func (svc *Service) Update(ctx context.Context, r Report, ur UpdateReport) (Report, error) {
	if ur.Semester != nil {
		r.Semester = *ur.Semester
	}
	if ur.GPA != nil {
		r.GPA = *ur.GPA
	}
	if ur.Credits != nil {
		r.Credits = *ur.Credits
	}
	if ur.Remarks != nil {
		r.Remarks = *ur.Remarks
	}
	r.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateReport(ctx, r)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if !core.IsValidID(id) {
		return ErrNotFound
	}
	return svc.repo.DeleteReport(ctx, id)
}

// all pages through every report matching filter.
func (svc *Service) all(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Report, error) {
	var reports []Report
	for skip := 0; ; skip += core.MaxLimit {
		opts := core.ListOptions{Pagination: core.NewPagination(core.MaxLimit, skip), Ordering: ordering}
		page, total, err := svc.repo.QueryReports(ctx, filter, opts)
		if err != nil {
			return nil, err
		}
		reports = append(reports, page...)
		if len(page) == 0 || len(reports) >= total {
			return reports, nil
		}
	}
}

package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/core/notification"
)

var (
	ErrNotFound       = core.NewNotFoundError("leave request")
	ErrTooManyPending = core.NewConflictError(fmt.Sprintf("at most %d leave requests may be pending at once", MaxPending))
	ErrOverlap        = core.NewConflictError("the requested dates overlap another pending or approved leave request")
	ErrNotPending     = core.NewConflictError("only pending leave requests can be changed")
)

type (
	Repository interface {
		// LockRequester serializes leave creation per requester until the transaction ends.
		LockRequester(ctx context.Context, requesterID string) error
		CountPending(ctx context.Context, requesterID string) (int, error)
		// HasOverlap reports whether the requester has a PENDING or APPROVED request
		// intersecting [from, to].
		HasOverlap(ctx context.Context, requesterID string, from, to core.Date) (bool, error)
		CreateLeave(ctx context.Context, l Leave) (Leave, error)
		GetLeave(ctx context.Context, id string) (Leave, error)
		// GetLeaveForUpdate is GetLeave holding a row lock until the transaction ends.
		GetLeaveForUpdate(ctx context.Context, id string) (Leave, error)
		QueryLeaves(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Leave, int, error)
		UpdateLeave(ctx context.Context, l Leave) (Leave, error)
		DeleteLeave(ctx context.Context, id string) error
	}

	AdminFinder interface {
		AdminIDs(ctx context.Context) ([]string, error)
	}

	Service struct {
		repo     Repository
		tx       core.Transactor
		admins   AdminFinder
		notifier notification.Notifier
		logger   core.Logger
	}
)

func NewService(repo Repository, tx core.Transactor, admins AdminFinder, notifier notification.Notifier, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		tx:       tx,
		admins:   admins,
		notifier: notifier,
		logger:   logger,
	}
}

// Create files a PENDING leave request for requester; nl must have been validated.
// Admins are notified once the request is saved.
func (svc *Service) Create(ctx context.Context, requester access.Actor, nl NewLeave) (Leave, error) {
	var l Leave
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := svc.repo.LockRequester(ctx, requester.UserID); err != nil {
			return errors.Wrap(err, "locking requester")
		}

		pending, err := svc.repo.CountPending(ctx, requester.UserID)
		if err != nil {
			return errors.Wrap(err, "counting pending requests")
		}
		if pending >= MaxPending {
			return ErrTooManyPending
		}

		overlap, err := svc.repo.HasOverlap(ctx, requester.UserID, nl.FromDate, nl.ToDate)
		if err != nil {
			return errors.Wrap(err, "checking overlapping requests")
		}
		if overlap {
			return ErrOverlap
		}

		now := time.Now().UTC()
		l = Leave{
			ID:          core.NewID(),
			RequesterID: requester.UserID,
			Type:        nl.Type,
			FromDate:    nl.FromDate,
			ToDate:      nl.ToDate,
			Reason:      nl.Reason,
			Status:      StatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if requester.StudentID != "" {
			l.StudentID = null.StringFrom(requester.StudentID)
		}
		l, err = svc.repo.CreateLeave(ctx, l)
		return errors.Wrap(err, "creating leave request")
	})
	if err != nil {
		return Leave{}, err
	}

	adminIDs, err := svc.admins.AdminIDs(ctx)
	if err != nil {
		svc.logger.Error("finding admins to notify", err)
		return l, nil
	}
	notification.Deliver(ctx, svc.notifier, svc.logger, adminIDs, notification.Message{
		Title:    "New leave request",
		Body:     fmt.Sprintf("%s requested %s leave from %s to %s", requester.Name, l.Type, l.FromDate, l.ToDate),
		Link:     "/admin/leaves/" + l.ID,
		Category: notification.CategoryLeave,
		Data:     map[string]interface{}{"leaveId": l.ID},
	})
	return l, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Leave, error) {
	if !core.IsValidID(id) {
		return Leave{}, ErrNotFound
	}
	return svc.repo.GetLeave(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Leave, int, error) {
	opts.Ordering = core.CleanOrdering(opts.Ordering, OrderingFields)
	if len(opts.Ordering) == 0 {
		opts.Ordering = []core.DBOrdering{{Field: "created_at"}}
	}
	return svc.repo.QueryLeaves(ctx, filter, opts)
}

func (svc *Service) Approve(ctx context.Context, id string, approver access.Actor) (Leave, error) {
	return svc.decide(ctx, id, approver, StatusApproved)
}

func (svc *Service) Reject(ctx context.Context, id string, approver access.Actor) (Leave, error) {
	return svc.decide(ctx, id, approver, StatusRejected)
}

// decide moves a PENDING request to status and notifies the requester.
func (svc *Service) decide(ctx context.Context, id string, approver access.Actor, status string) (Leave, error) {
	if !core.IsValidID(id) {
		return Leave{}, ErrNotFound
	}

	var l Leave
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if l, err = svc.repo.GetLeaveForUpdate(ctx, id); err != nil {
			return err
		}
		if !l.IsPending() {
			return ErrNotPending
		}
		l.Status = status
		l.ApproverID = null.StringFrom(approver.UserID)
		l.UpdatedAt = time.Now().UTC()
		l, err = svc.repo.UpdateLeave(ctx, l)
		return errors.Wrap(err, "updating leave request")
	})
	if err != nil {
		return Leave{}, err
	}

	verb := "approved"
	if status == StatusRejected {
		verb = "rejected"
	}
	notification.Deliver(ctx, svc.notifier, svc.logger, []string{l.RequesterID}, notification.Message{
		Title:    "Leave request " + verb,
		Body:     fmt.Sprintf("Your %s leave from %s to %s was %s by %s", l.Type, l.FromDate, l.ToDate, verb, approver.Name),
		Link:     "/api/leaves/" + l.ID,
		Category: notification.CategoryLeave,
		Data:     map[string]interface{}{"leaveId": l.ID, "status": l.Status},
	})
	return l, nil
}

// Delete withdraws a PENDING request.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if !core.IsValidID(id) {
		return ErrNotFound
	}
	return svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		l, err := svc.repo.GetLeaveForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !l.IsPending() {
			return ErrNotPending
		}
		return svc.repo.DeleteLeave(ctx, id)
	})
}

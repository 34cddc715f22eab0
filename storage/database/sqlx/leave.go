package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/leave"
	"github.com/sudais-khan12/LMS-sub002/core/user"
	"github.com/sudais-khan12/LMS-sub002/storage/database"
)

var leaveColumns = []string{
	"id", "requester_id", "student_id", "type", "from_date", "to_date", "reason", "status", "approver_id", "created_at", "updated_at",
}

type leaveRepository struct {
	base
}

var _ leave.Repository = (*leaveRepository)(nil)

func NewLeaveRepository(db *sqlx.DB) *leaveRepository {
	return &leaveRepository{base{db: db}}
}

// LockRequester must run inside a transaction to have any effect.
func (repo leaveRepository) LockRequester(ctx context.Context, requesterID string) error {
	var id string
	q := psql.Select("id").From("users").Where(sq.Eq{"id": requesterID}).Suffix("FOR UPDATE")
	return database.MapError(repo.get(ctx, &id, q), "locking requester", user.ErrNotFound)
}

func (repo leaveRepository) CountPending(ctx context.Context, requesterID string) (int, error) {
	var n int
	q := psql.Select("COUNT(*)").From("leave_requests").
		Where(sq.Eq{"requester_id": requesterID, "status": leave.StatusPending})
	return n, database.MapError(repo.get(ctx, &n, q), "counting pending leave requests", leave.ErrNotFound)
}

func (repo leaveRepository) HasOverlap(ctx context.Context, requesterID string, from, to core.Date) (bool, error) {
	return repo.exists(ctx, psql.Select("1").From("leave_requests").
		Where(sq.Eq{"requester_id": requesterID, "status": []string{leave.StatusPending, leave.StatusApproved}}).
		Where(sq.LtOrEq{"from_date": to}).
		Where(sq.GtOrEq{"to_date": from}))
}

func (repo leaveRepository) CreateLeave(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := psql.Insert("leave_requests").Columns(leaveColumns...).Values(
		l.ID, l.RequesterID, l.StudentID, l.Type, l.FromDate, l.ToDate, l.Reason, l.Status, l.ApproverID,
		l.CreatedAt, l.UpdatedAt,
	)
	if _, err := repo.exec(ctx, q); err != nil {
		return leave.Leave{}, database.MapError(err, "inserting leave request", leave.ErrNotFound)
	}
	return l, nil
}

func (repo leaveRepository) getLeave(ctx context.Context, id string, lock bool) (leave.Leave, error) {
	var l leave.Leave
	q := psql.Select(leaveColumns...).From("leave_requests").Where(sq.Eq{"id": id})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}
	err := repo.get(ctx, &l, q)
	return l, database.MapError(err, "finding leave request", leave.ErrNotFound)
}

func (repo leaveRepository) GetLeave(ctx context.Context, id string) (leave.Leave, error) {
	return repo.getLeave(ctx, id, false)
}

func (repo leaveRepository) GetLeaveForUpdate(ctx context.Context, id string) (leave.Leave, error) {
	return repo.getLeave(ctx, id, true)
}

func (repo leaveRepository) QueryLeaves(ctx context.Context, filter leave.QueryFilter, opts core.ListOptions) ([]leave.Leave, int, error) {
	q := psql.Select().From("leave_requests")
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": filter.Status})
	}
	if filter.RequesterID != "" {
		q = q.Where(sq.Eq{"requester_id": filter.RequesterID})
	}
	if filter.StudentID != "" {
		q = q.Where(sq.Eq{"student_id": filter.StudentID})
	}
	if filter.TeacherID != "" {
		scope := sq.Or{in("student_id", teacherStudents, filter.TeacherID)}
		if filter.TeacherUserID != "" {
			scope = append(scope, sq.Eq{"requester_id": filter.TeacherUserID})
		}
		q = q.Where(scope)
	}

	leaves := []leave.Leave{}
	total, err := repo.page(ctx, &leaves, q, leaveColumns, opts)
	if err != nil {
		return nil, 0, database.MapError(err, "querying leave requests", leave.ErrNotFound)
	}
	return leaves, total, nil
}

func (repo leaveRepository) UpdateLeave(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := psql.Update("leave_requests").SetMap(map[string]interface{}{
		"status":      l.Status,
		"approver_id": l.ApproverID,
		"updated_at":  l.UpdatedAt,
	}).Where(sq.Eq{"id": l.ID})
	if err := repo.execOne(ctx, q, "updating leave request", leave.ErrNotFound); err != nil {
		return leave.Leave{}, err
	}
	return l, nil
}

func (repo leaveRepository) DeleteLeave(ctx context.Context, id string) error {
	q := psql.Delete("leave_requests").Where(sq.Eq{"id": id})
	return repo.execOne(ctx, q, "deleting leave request", leave.ErrNotFound)
}

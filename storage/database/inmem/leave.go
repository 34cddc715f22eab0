package inmemdb

import (
	"context"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/leave"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

type leaveRepository struct {
	db *DB
}

func NewLeaveRepository(db *DB) leave.Repository {
	return &leaveRepository{db: db}
}

// LockRequester only checks the requester exists: transactions are already serialized.
func (repo *leaveRepository) LockRequester(_ context.Context, requesterID string) error {
	return repo.db.read(func() error {
		if _, ok := repo.db.users[requesterID]; !ok {
			return user.ErrNotFound
		}
		return nil
	})
}

func (repo *leaveRepository) CountPending(_ context.Context, requesterID string) (int, error) {
	var n int
	_ = repo.db.read(func() error {
		for _, l := range repo.db.leaves {
			if l.RequesterID == requesterID && l.IsPending() {
				n++
			}
		}
		return nil
	})
	return n, nil
}

func (repo *leaveRepository) HasOverlap(_ context.Context, requesterID string, from, to core.Date) (bool, error) {
	var overlap bool
	_ = repo.db.read(func() error {
		for _, l := range repo.db.leaves {
			if l.RequesterID != requesterID || (l.Status != leave.StatusPending && l.Status != leave.StatusApproved) {
				continue
			}
			if core.RangesOverlap(l.FromDate, l.ToDate, from, to) {
				overlap = true
				break
			}
		}
		return nil
	})
	return overlap, nil
}

func (repo *leaveRepository) CreateLeave(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	err := repo.db.write(ctx, func() error {
		if _, ok := repo.db.users[l.RequesterID]; !ok {
			return user.ErrNotFound
		}
		repo.db.leaves[l.ID] = l
		return nil
	})
	return l, err
}

func (repo *leaveRepository) GetLeave(_ context.Context, id string) (l leave.Leave, err error) {
	err = repo.db.read(func() error {
		var ok bool
		if l, ok = repo.db.leaves[id]; !ok {
			return leave.ErrNotFound
		}
		return nil
	})
	return l, err
}

func (repo *leaveRepository) GetLeaveForUpdate(ctx context.Context, id string) (leave.Leave, error) {
	return repo.GetLeave(ctx, id)
}

func leaveField(l leave.Leave, column string) interface{} {
	switch column {
	case "from_date":
		return l.FromDate
	case "to_date":
		return l.ToDate
	case "status":
		return l.Status
	case "created_at":
		return l.CreatedAt
	}
	return l.ID
}

func (repo *leaveRepository) QueryLeaves(_ context.Context, filter leave.QueryFilter, opts core.ListOptions) ([]leave.Leave, int, error) {
	var leaves []leave.Leave
	_ = repo.db.read(func() error {
		var taught map[string]bool
		if filter.TeacherID != "" {
			taught = repo.db.teacherStudents(filter.TeacherID)
		}
		for _, l := range repo.db.leaves {
			if filter.Status != "" && l.Status != filter.Status {
				continue
			}
			if filter.RequesterID != "" && l.RequesterID != filter.RequesterID {
				continue
			}
			if filter.StudentID != "" && l.StudentID.String != filter.StudentID {
				continue
			}
			if taught != nil {
				own := filter.TeacherUserID != "" && l.RequesterID == filter.TeacherUserID
				if !own && !(l.StudentID.Valid && taught[l.StudentID.String]) {
					continue
				}
			}
			leaves = append(leaves, l)
		}
		return nil
	})
	page, total := list(leaves, opts, leaveField)
	return page, total, nil
}

func (repo *leaveRepository) UpdateLeave(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	err := repo.db.write(ctx, func() error {
		if _, ok := repo.db.leaves[l.ID]; !ok {
			return leave.ErrNotFound
		}
		repo.db.leaves[l.ID] = l
		return nil
	})
	return l, err
}

func (repo *leaveRepository) DeleteLeave(ctx context.Context, id string) error {
	return repo.db.write(ctx, func() error {
		if _, ok := repo.db.leaves[id]; !ok {
			return leave.ErrNotFound
		}
		delete(repo.db.leaves, id)
		return nil
	})
}

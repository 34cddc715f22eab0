package inmemdb

import (
	"context"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/notification"
)

type notificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotifications(ctx context.Context, ns []notification.Notification) error {
	return repo.db.write(ctx, func() error {
		for _, n := range ns {
			repo.db.notifications[n.ID] = n
		}
		return nil
	})
}

func (repo *notificationRepository) GetNotification(_ context.Context, id string) (n notification.Notification, err error) {
	err = repo.db.read(func() error {
		var ok bool
		if n, ok = repo.db.notifications[id]; !ok {
			return notification.ErrNotFound
		}
		return nil
	})
	return n, err
}

func notificationField(n notification.Notification, column string) interface{} {
	switch column {
	case "created_at":
		return n.CreatedAt
	case "category":
		return n.Category
	case "is_read":
		return n.IsRead
	}
	return n.ID
}

func (repo *notificationRepository) QueryNotifications(_ context.Context, filter notification.QueryFilter, opts core.ListOptions) ([]notification.Notification, int, error) {
	var ns []notification.Notification
	_ = repo.db.read(func() error {
		for _, n := range repo.db.notifications {
			if filter.UserID != "" && n.UserID != filter.UserID {
				continue
			}
			if filter.Category != "" && n.Category != filter.Category {
				continue
			}
			if filter.IsRead != nil && n.IsRead != *filter.IsRead {
				continue
			}
			ns = append(ns, n)
		}
		return nil
	})
	page, total := list(ns, opts, notificationField)
	return page, total, nil
}

func (repo *notificationRepository) CountUnread(_ context.Context, userID string) (int, error) {
	var count int
	_ = repo.db.read(func() error {
		for _, n := range repo.db.notifications {
			if n.UserID == userID && !n.IsRead {
				count++
			}
		}
		return nil
	})
	return count, nil
}

func (repo *notificationRepository) MarkRead(ctx context.Context, id string) (n notification.Notification, err error) {
	err = repo.db.write(ctx, func() error {
		var ok bool
		if n, ok = repo.db.notifications[id]; !ok {
			return notification.ErrNotFound
		}
		n.IsRead = true
		repo.db.notifications[id] = n
		return nil
	})
	return n, err
}

func (repo *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	var count int
	err := repo.db.write(ctx, func() error {
		for id, n := range repo.db.notifications {
			if n.UserID == userID && !n.IsRead {
				n.IsRead = true
				repo.db.notifications[id] = n
				count++
			}
		}
		return nil
	})
	return count, err
}

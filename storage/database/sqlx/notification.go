package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/notification"
	"github.com/sudais-khan12/LMS-sub002/storage/database"
)

var notificationColumns = []string{"id", "user_id", "title", "body", "link", "category", "is_read", "data", "created_at"}

type notificationRepository struct {
	base
}

var _ notification.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(db *sqlx.DB) *notificationRepository {
	return &notificationRepository{base{db: db}}
}

func (repo notificationRepository) CreateNotifications(ctx context.Context, ns []notification.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	q := psql.Insert("notifications").Columns(notificationColumns...)
	for _, n := range ns {
		q = q.Values(n.ID, n.UserID, n.Title, n.Body, n.Link, n.Category, n.IsRead, n.Data, n.CreatedAt)
	}
	_, err := repo.exec(ctx, q)
	return database.MapError(err, "inserting notifications", notification.ErrNotFound)
}

func (repo notificationRepository) GetNotification(ctx context.Context, id string) (notification.Notification, error) {
	var n notification.Notification
	err := repo.get(ctx, &n, psql.Select(notificationColumns...).From("notifications").Where(sq.Eq{"id": id}))
	return n, database.MapError(err, "finding notification", notification.ErrNotFound)
}

func (repo notificationRepository) QueryNotifications(ctx context.Context, filter notification.QueryFilter, opts core.ListOptions) ([]notification.Notification, int, error) {
	q := psql.Select().From("notifications")
	if filter.UserID != "" {
		q = q.Where(sq.Eq{"user_id": filter.UserID})
	}
	if filter.Category != "" {
		q = q.Where(sq.Eq{"category": filter.Category})
	}
	if filter.IsRead != nil {
		q = q.Where(sq.Eq{"is_read": *filter.IsRead})
	}

	ns := []notification.Notification{}
	total, err := repo.page(ctx, &ns, q, notificationColumns, opts)
	if err != nil {
		return nil, 0, database.MapError(err, "querying notifications", notification.ErrNotFound)
	}
	return ns, total, nil
}

func (repo notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	q := psql.Select("COUNT(*)").From("notifications").Where(sq.Eq{"user_id": userID, "is_read": false})
	return n, database.MapError(repo.get(ctx, &n, q), "counting unread notifications", notification.ErrNotFound)
}

func (repo notificationRepository) MarkRead(ctx context.Context, id string) (notification.Notification, error) {
	var n notification.Notification
	q := psql.Update("notifications").Set("is_read", true).Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(notificationColumns))
	err := repo.get(ctx, &n, q)
	return n, database.MapError(err, "marking notification read", notification.ErrNotFound)
}

func (repo notificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	n, err := repo.exec(ctx, psql.Update("notifications").Set("is_read", true).
		Where(sq.Eq{"user_id": userID, "is_read": false}))
	if err != nil {
		return 0, database.MapError(err, "marking notifications read", notification.ErrNotFound)
	}
	return int(n), nil
}

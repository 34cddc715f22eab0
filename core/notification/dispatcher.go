package notification

import (
	"context"
	"encoding/json"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

var ErrNotFound = core.NewNotFoundError("notification")

type (
	Repository interface {
		CreateNotifications(ctx context.Context, ns []Notification) error
		GetNotification(ctx context.Context, id string) (Notification, error)
		QueryNotifications(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Notification, int, error)
		CountUnread(ctx context.Context, userID string) (int, error)
		MarkRead(ctx context.Context, id string) (Notification, error)
		MarkAllRead(ctx context.Context, userID string) (int, error)
	}

	// Recipients looks up the users notifications are sent to.
	Recipients interface {
		GetMany(ctx context.Context, ids []string) ([]user.User, error)
		IDsByRole(ctx context.Context, role string) ([]string, error)
	}

	SettingsReader interface {
		NotifyByEmail() bool
	}

	// Notifier delivers a message to a set of users.
	Notifier interface {
		Notify(ctx context.Context, userIDs []string, msg Message) ([]Notification, error)
	}

	Dispatcher struct {
		repo     Repository
		users    Recipients
		mailSvc  core.EmailService
		settings SettingsReader
		logger   core.Logger
	}
)

var _ Notifier = (*Dispatcher)(nil)

func NewDispatcher(repo Repository, users Recipients, mailSvc core.EmailService, settings SettingsReader, logger core.Logger) *Dispatcher {
	return &Dispatcher{
		repo:     repo,
		users:    users,
		mailSvc:  mailSvc,
		settings: settings,
		logger:   logger,
	}
}

// Notify creates one notification per distinct user id.
func (d *Dispatcher) Notify(ctx context.Context, userIDs []string, msg Message) ([]Notification, error) {
	ids := core.UniqueStrings(userIDs)
	if len(ids) == 0 {
		return []Notification{}, nil
	}

	category := msg.Category
	if category == "" {
		category = CategoryGeneral
	}
	var data null.JSON
	if msg.Data != nil {
		raw, err := json.Marshal(msg.Data)
		if err != nil {
			return nil, errors.Wrap(err, "encoding notification data")
		}
		data = null.JSONFrom(raw)
	}

	now := time.Now().UTC()
	ns := make([]Notification, 0, len(ids))
	for _, id := range ids {
		ns = append(ns, Notification{
			ID:        core.NewID(),
			UserID:    id,
			Title:     msg.Title,
			Body:      msg.Body,
			Link:      msg.Link,
			Category:  category,
			Data:      data,
			CreatedAt: now,
		})
	}

	if err := d.repo.CreateNotifications(ctx, ns); err != nil {
		notificationFailures.WithLabelValues(category).Inc()
		return nil, errors.Wrap(err, "creating notifications")
	}
	notificationsSent.WithLabelValues(category).Add(float64(len(ns)))

	if d.settings != nil && d.settings.NotifyByEmail() {
		d.email(ctx, ids, msg)
	}
	return ns, nil
}

// email sends a copy of msg to every recipient; failures are only logged.
func (d *Dispatcher) email(ctx context.Context, ids []string, msg Message) {
	users, err := d.users.GetMany(ctx, ids)
	if err != nil {
		d.logger.Error("finding notification recipients", err)
		return
	}

	messages := make([]*core.EmailMessage, 0, len(users))
	for _, usr := range users {
		if usr.Email == "" || !usr.IsActive {
			continue
		}
		messages = append(messages, &core.EmailMessage{
			To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
			Subject:      msg.Title,
			TemplateName: "notification",
			TemplateData: msg,
		})
	}
	d.mailSvc.SendMessages(messages...)
}

// Broadcast notifies b.UserIDs and every user holding b.Role.
func (d *Dispatcher) Broadcast(ctx context.Context, b Broadcast) ([]Notification, error) {
	ids := append([]string{}, b.UserIDs...)
	if b.Role != "" {
		roleIDs, err := d.users.IDsByRole(ctx, b.Role)
		if err != nil {
			return nil, errors.Wrap(err, "finding users by role")
		}
		ids = append(ids, roleIDs...)
	}

	// only existing users
	users, err := d.users.GetMany(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "finding users")
	}
	ids = ids[:0]
	for _, usr := range users {
		ids = append(ids, usr.ID)
	}

	return d.Notify(ctx, ids, Message{Title: b.Title, Body: b.Body, Link: b.Link, Category: b.Category})
}

func (d *Dispatcher) Get(ctx context.Context, id string) (Notification, error) {
	if !core.IsValidID(id) {
		return Notification{}, ErrNotFound
	}
	return d.repo.GetNotification(ctx, id)
}

func (d *Dispatcher) Query(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Notification, int, error) {
	opts.Ordering = core.CleanOrdering(opts.Ordering, OrderingFields)
	if len(opts.Ordering) == 0 {
		opts.Ordering = []core.DBOrdering{{Field: "created_at"}}
	}
	return d.repo.QueryNotifications(ctx, filter, opts)
}

func (d *Dispatcher) CountUnread(ctx context.Context, userID string) (int, error) {
	return d.repo.CountUnread(ctx, userID)
}

func (d *Dispatcher) MarkRead(ctx context.Context, id string) (Notification, error) {
	return d.repo.MarkRead(ctx, id)
}

func (d *Dispatcher) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return d.repo.MarkAllRead(ctx, userID)
}

// Deliver notifies userIDs on a best-effort basis: a failure is logged and never returned.
// It is called once the triggering write has been committed.
func Deliver(ctx context.Context, n Notifier, logger core.Logger, userIDs []string, msg Message) {
	if n == nil {
		return
	}
	if _, err := n.Notify(ctx, userIDs, msg); err != nil {
		logger.Error("delivering notification: "+msg.Title, err, map[string]interface{}{
			"category":   msg.Category,
			"recipients": userIDs,
		})
	}
}

var OrderingFields = map[string]string{
	"createdat": "created_at",
	"category":  "category",
	"isread":    "is_read",
}

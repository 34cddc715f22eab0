package notification_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/notification"
	"github.com/sudais-khan12/LMS-sub002/core/settings"
	"github.com/sudais-khan12/LMS-sub002/core/user"
	"github.com/sudais-khan12/LMS-sub002/testutil"
)

func TestDispatcher_Notify(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	admin := env.CreateAdmin(t, "admin")
	tchr := env.CreateTeacher(t, "tom")

	ns, err := env.Dispatcher.Notify(ctx, []string{admin.ID, tchr.UserID, admin.ID, ""}, notification.Message{
		Title: "Welcome", Body: "Term starts on Monday", Data: map[string]int{"week": 1},
	})
	require.NoError(t, err)
	require.Len(t, ns, 2)
	for _, n := range ns {
		assert.Equal(t, notification.CategoryGeneral, n.Category)
		assert.False(t, n.IsRead)
		assert.JSONEq(t, `{"week":1}`, string(n.Data.JSON))
	}
	assert.Len(t, env.Notifications(t, admin.ID), 1)
	assert.Empty(t, env.Mail.SentMessages())

	ns, err = env.Dispatcher.Notify(ctx, nil, notification.Message{Title: "Nobody"})
	require.NoError(t, err)
	assert.Empty(t, ns)
}

func TestDispatcher_NotifyByEmail(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	testutil.ParseTemplates(env.Conf, env.Logger)
	active := env.CreateAdmin(t, "admin")
	inactive := testutil.CreateUser(t, env.UserRepo, "Ghost", "ghost", "ghost@test.lms", testutil.Password, user.RoleAdmin, false)

	on := true
	env.Settings.Update(settings.Patch{NotifyByEmail: &on})

	_, err := env.Dispatcher.Notify(ctx, []string{active.ID, inactive.ID}, notification.Message{
		Title: "Leave approved", Body: "Enjoy", Link: "/leaves/1", Category: notification.CategoryLeave,
	})
	require.NoError(t, err)

	sent := env.Mail.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, active.Email, sent[0].To[0].Address)
	assert.Equal(t, "Leave approved", sent[0].Subject)
	assert.Contains(t, sent[0].TextContent, "Enjoy")
	assert.Contains(t, sent[0].TextContent, "/leaves/1")
}

func TestDispatcher_Broadcast(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	admin := env.CreateAdmin(t, "admin")
	tom := env.CreateTeacher(t, "tom")
	ann := env.CreateTeacher(t, "ann")
	stdt := env.CreateStudent(t, "amina", "ENR-001")

	tests := []struct {
		name string
		b    notification.Broadcast
		want []string
	}{
		{
			name: "role",
			b:    notification.Broadcast{Role: user.RoleTeacher, Title: "Staff meeting"},
			want: []string{tom.UserID, ann.UserID},
		},
		{
			name: "role and users, deduplicated",
			b:    notification.Broadcast{Role: user.RoleTeacher, UserIDs: []string{tom.UserID, stdt.UserID}, Title: "Exams"},
			want: []string{tom.UserID, ann.UserID, stdt.UserID},
		},
		{
			name: "unknown users are skipped",
			b:    notification.Broadcast{UserIDs: []string{admin.ID, core.NewID()}, Title: "Audit"},
			want: []string{admin.ID},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns, err := env.Dispatcher.Broadcast(ctx, tt.b)
			require.NoError(t, err)
			got := make([]string, 0, len(ns))
			for _, n := range ns {
				got = append(got, n.UserID)
				assert.Equal(t, tt.b.Title, n.Title)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestDispatcher_MarkRead(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	admin := env.CreateAdmin(t, "admin")

	for _, title := range []string{"one", "two", "three"} {
		_, err := env.Dispatcher.Notify(ctx, []string{admin.ID}, notification.Message{Title: title})
		require.NoError(t, err)
	}
	ns := env.Notifications(t, admin.ID)
	require.Len(t, ns, 3)

	n, err := env.Dispatcher.MarkRead(ctx, ns[0].ID)
	require.NoError(t, err)
	assert.True(t, n.IsRead)

	unread, err := env.Dispatcher.CountUnread(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	isRead := false
	_, total, err := env.Dispatcher.Query(ctx, notification.QueryFilter{UserID: admin.ID, IsRead: &isRead}, core.DefaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	count, err := env.Dispatcher.MarkAllRead(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	count, err = env.Dispatcher.MarkAllRead(ctx, admin.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = env.Dispatcher.MarkRead(ctx, core.NewID())
	assert.Equal(t, notification.ErrNotFound, err)
}

func TestBroadcast_Validate(t *testing.T) {
	validate, _ := testutil.NewValidator()
	tests := []struct {
		name    string
		b       notification.Broadcast
		wantErr bool
	}{
		{name: "role", b: notification.Broadcast{Role: user.RoleStudent, Title: "Hi"}},
		{name: "users", b: notification.Broadcast{UserIDs: []string{core.NewID()}, Title: "Hi"}},
		{name: "no recipients", b: notification.Broadcast{Title: "Hi"}, wantErr: true},
		{name: "bad role", b: notification.Broadcast{Role: "JANITOR", Title: "Hi"}, wantErr: true},
		{name: "bad id", b: notification.Broadcast{UserIDs: []string{"1"}, Title: "Hi"}, wantErr: true},
		{name: "no title", b: notification.Broadcast{Role: user.RoleStudent, Title: "  "}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.b.Validate(validate); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

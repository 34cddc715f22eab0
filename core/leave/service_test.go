package leave_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/leave"
	"github.com/sudais-khan12/LMS-sub002/core/notification"
	"github.com/sudais-khan12/LMS-sub002/testutil"
)

func day(d int) core.Date {
	return core.NewDate(2025, time.March, d)
}

func sick(from, to int) leave.NewLeave {
	return leave.NewLeave{Type: "SICK", FromDate: day(from), ToDate: day(to), Reason: "flu"}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	admin := env.CreateAdmin(t, "admin")
	stdt := testutil.StudentActor(env.CreateStudent(t, "amina", "ENR-001"))

	first, err := env.Leaves.Create(ctx, stdt, sick(1, 3))
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, first.Status)
	assert.Equal(t, stdt.UserID, first.RequesterID)
	assert.Equal(t, stdt.StudentID, first.StudentID.String)
	assert.False(t, first.ApproverID.Valid)

	tests := []struct {
		name    string
		nl      leave.NewLeave
		wantErr error
	}{
		{name: "overlaps start", nl: sick(3, 5), wantErr: leave.ErrOverlap},
		{name: "inside", nl: sick(2, 2), wantErr: leave.ErrOverlap},
		{name: "covers", nl: sick(1, 10), wantErr: leave.ErrOverlap},
		{name: "adjacent", nl: sick(4, 5)},
		{name: "later", nl: sick(10, 12)},
		{name: "fourth pending", nl: sick(20, 21), wantErr: leave.ErrTooManyPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Leaves.Create(ctx, stdt, tt.nl)
			assert.Equal(t, tt.wantErr, err)
		})
	}

	ns := env.Notifications(t, admin.ID)
	if assert.Len(t, ns, 3) {
		assert.Equal(t, notification.CategoryLeave, ns[0].Category)
		assert.Equal(t, "New leave request", ns[0].Title)
	}
	assert.True(t, core.IsConflict(leave.ErrTooManyPending))
	assert.True(t, core.IsConflict(leave.ErrOverlap))
}

func TestService_Create_Concurrent(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	env.CreateAdmin(t, "admin")
	stdt := testutil.StudentActor(env.CreateStudent(t, "amina", "ENR-001"))

	const n = 10
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.Leaves.Create(ctx, stdt, sick(2*i+1, 2*i+1))
		}(i)
	}
	wg.Wait()

	var created, rejected int
	for _, err := range errs {
		switch err {
		case nil:
			created++
		case leave.ErrTooManyPending:
			rejected++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, leave.MaxPending, created)
	assert.Equal(t, n-leave.MaxPending, rejected)

	_, total, err := env.Leaves.Query(ctx, leave.QueryFilter{RequesterID: stdt.UserID}, core.DefaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, leave.MaxPending, total)
}

func TestService_Create_RejectedDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	admin := testutil.AdminActor(env.CreateAdmin(t, "admin"))
	tchr := testutil.TeacherActor(env.CreateTeacher(t, "tom"))

	l, err := env.Leaves.Create(ctx, tchr, sick(1, 3))
	require.NoError(t, err)
	assert.False(t, l.StudentID.Valid)

	_, err = env.Leaves.Reject(ctx, l.ID, admin)
	require.NoError(t, err)

	_, err = env.Leaves.Create(ctx, tchr, sick(2, 3))
	assert.NoError(t, err)
}

func TestService_Decide(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	admin := testutil.AdminActor(env.CreateAdmin(t, "admin"))
	stdt := testutil.StudentActor(env.CreateStudent(t, "amina", "ENR-001"))

	l, err := env.Leaves.Create(ctx, stdt, sick(1, 3))
	require.NoError(t, err)

	approved, err := env.Leaves.Approve(ctx, l.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)
	assert.Equal(t, admin.UserID, approved.ApproverID.String)

	ns := env.Notifications(t, stdt.UserID)
	if assert.Len(t, ns, 1) {
		assert.Equal(t, "Leave request approved", ns[0].Title)
		assert.Equal(t, "Your SICK leave from 2025-03-01 to 2025-03-03 was approved by Admin", ns[0].Body)
	}

	tests := []struct {
		name    string
		decide  func(ctx context.Context, id string) (leave.Leave, error)
		id      string
		wantErr error
	}{
		{
			name:    "approve twice",
			decide:  func(ctx context.Context, id string) (leave.Leave, error) { return env.Leaves.Approve(ctx, id, admin) },
			id:      l.ID,
			wantErr: leave.ErrNotPending,
		},
		{
			name:    "reject approved",
			decide:  func(ctx context.Context, id string) (leave.Leave, error) { return env.Leaves.Reject(ctx, id, admin) },
			id:      l.ID,
			wantErr: leave.ErrNotPending,
		},
		{
			name:    "unknown id",
			decide:  func(ctx context.Context, id string) (leave.Leave, error) { return env.Leaves.Approve(ctx, id, admin) },
			id:      core.NewID(),
			wantErr: leave.ErrNotFound,
		},
		{
			name:    "invalid id",
			decide:  func(ctx context.Context, id string) (leave.Leave, error) { return env.Leaves.Approve(ctx, id, admin) },
			id:      "lol",
			wantErr: leave.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.decide(ctx, tt.id)
			assert.Equal(t, tt.wantErr, err)
		})
	}

	got, err := env.Leaves.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, got.Status)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	admin := testutil.AdminActor(env.CreateAdmin(t, "admin"))
	stdt := testutil.StudentActor(env.CreateStudent(t, "amina", "ENR-001"))

	pending, err := env.Leaves.Create(ctx, stdt, sick(1, 1))
	require.NoError(t, err)
	decided, err := env.Leaves.Create(ctx, stdt, sick(5, 5))
	require.NoError(t, err)
	_, err = env.Leaves.Approve(ctx, decided.ID, admin)
	require.NoError(t, err)

	assert.NoError(t, env.Leaves.Delete(ctx, pending.ID))
	assert.Equal(t, leave.ErrNotFound, env.Leaves.Delete(ctx, pending.ID))
	assert.Equal(t, leave.ErrNotPending, env.Leaves.Delete(ctx, decided.ID))
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	tchr := env.CreateTeacher(t, "tom")
	mine := env.CreateStudent(t, "amina", "ENR-001")
	other := env.CreateStudent(t, "bilal", "ENR-002")
	c := env.CreateCourse(t, "MTH101", "Calculus", tchr.ID)
	env.Enroll(t, mine.ID, c.ID, day(1), "PRESENT")

	_, err := env.Leaves.Create(ctx, testutil.StudentActor(mine), sick(1, 1))
	require.NoError(t, err)
	_, err = env.Leaves.Create(ctx, testutil.StudentActor(other), sick(1, 1))
	require.NoError(t, err)
	own, err := env.Leaves.Create(ctx, testutil.TeacherActor(tchr), sick(2, 2))
	require.NoError(t, err)

	filter := leave.QueryFilter{TeacherID: tchr.ID, TeacherUserID: tchr.UserID}
	leaves, total, err := env.Leaves.Query(ctx, filter, core.DefaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	requesters := []string{leaves[0].RequesterID, leaves[1].RequesterID}
	assert.ElementsMatch(t, []string{mine.UserID, own.RequesterID}, requesters)

	_, total, err = env.Leaves.Query(ctx, leave.QueryFilter{Status: leave.StatusApproved}, core.DefaultListOptions())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestNewLeave_Validate(t *testing.T) {
	validate, _ := testutil.NewValidator()

	tests := []struct {
		name    string
		nl      leave.NewLeave
		wantErr bool
	}{
		{name: "valid", nl: sick(1, 2)},
		{name: "single day", nl: sick(2, 2)},
		{name: "lowercase type", nl: leave.NewLeave{Type: "casual", FromDate: day(1), ToDate: day(1)}},
		{name: "reversed range", nl: sick(3, 2), wantErr: true},
		{name: "unknown type", nl: leave.NewLeave{Type: "HOLIDAY", FromDate: day(1), ToDate: day(1)}, wantErr: true},
		{name: "missing dates", nl: leave.NewLeave{Type: "SICK"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nl.Validate(validate)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

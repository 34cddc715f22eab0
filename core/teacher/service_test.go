package teacher_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/attendance"
	"github.com/sudais-khan12/LMS-sub002/core/teacher"
	"github.com/sudais-khan12/LMS-sub002/core/user"
	"github.com/sudais-khan12/LMS-sub002/testutil"
)

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	env.CreateTeacher(t, "tom")

	nt := teacher.NewTeacher{
		NewUser: user.NewUser{
			Name: "Tom Again", Email: "tom@test.lms", Username: "tom2",
			Password: testutil.Password, PasswordConfirm: testutil.Password, Role: user.RoleTeacher,
		},
		Specialization: "Physics",
	}
	_, err := env.Teachers.Create(ctx, nt)
	assert.Equal(t, user.ErrEmailExists, err)

	// nothing is left behind by the failed transaction
	_, total, err := env.Teachers.Query(ctx, teacher.QueryFilter{}, core.DefaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	nt.Email = "tom2@test.lms"
	got, err := env.Teachers.Create(ctx, nt)
	require.NoError(t, err)
	assert.Equal(t, "Tom Again", got.Name)
	assert.Equal(t, "Physics", got.Specialization)
	assert.True(t, got.IsActive)

	usr, err := env.Teachers.User(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, user.RoleTeacher, usr.Role)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	validate, _ := testutil.NewValidator()
	tchr := env.CreateTeacher(t, "tom")
	usr, err := env.Teachers.User(ctx, tchr)
	require.NoError(t, err)

	field, inactive := "Statistics", false
	ut := teacher.UpdateTeacher{UpdateUser: user.UpdateUser{Name: "Thomas", IsActive: &inactive}, Specialization: &field}
	require.NoError(t, ut.Validate(usr, validate))

	got, err := env.Teachers.Update(ctx, tchr, usr, ut)
	require.NoError(t, err)
	assert.Equal(t, "Statistics", got.Specialization)
	assert.False(t, got.IsActive)

	got, err = env.Teachers.GetByID(ctx, tchr.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thomas", got.Name)
	assert.Equal(t, "tom@test.lms", got.Email)
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	tom := env.CreateTeacher(t, "tom")
	ann := env.CreateTeacher(t, "ann")
	stdt := env.CreateStudent(t, "amina", "ENR-001")
	c := env.CreateCourse(t, "MTH101", "Calculus", ann.ID)
	env.Enroll(t, stdt.ID, c.ID, core.NewDate(2025, time.March, 1), attendance.StatusPresent)

	tests := []struct {
		name   string
		filter teacher.QueryFilter
		want   []string
	}{
		{name: "all", want: []string{tom.ID, ann.ID}},
		{name: "search", filter: teacher.QueryFilter{Search: "ANN@"}, want: []string{ann.ID}},
		{name: "student teachers", filter: teacher.QueryFilter{StudentID: stdt.ID}, want: []string{ann.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, _, err := env.Teachers.Query(ctx, tt.filter, core.DefaultListOptions())
			require.NoError(t, err)
			ids := make([]string, 0, len(items))
			for _, it := range items {
				ids = append(ids, it.ID)
			}
			assert.ElementsMatch(t, tt.want, ids)
		})
	}
}

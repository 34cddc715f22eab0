package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/user"
	"github.com/sudais-khan12/LMS-sub002/testutil"
)

func newUser(name, uname, role string) user.NewUser {
	return user.NewUser{
		Name:            name,
		Email:           uname + "@test.lms",
		Username:        uname,
		Password:        testutil.Password,
		PasswordConfirm: testutil.Password,
		Role:            role,
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	env.CreateAdmin(t, "admin")

	tests := []struct {
		name    string
		nu      user.NewUser
		wantErr error
	}{
		{name: "ok", nu: newUser("Jane", "jane", user.RoleAdmin)},
		{
			name:    "email taken",
			nu:      user.NewUser{Name: "X", Email: "admin@test.lms", Username: "other", Password: testutil.Password, Role: user.RoleAdmin},
			wantErr: user.ErrEmailExists,
		},
		{
			name:    "username taken",
			nu:      user.NewUser{Name: "X", Email: "other@test.lms", Username: "admin", Password: testutil.Password, Role: user.RoleAdmin},
			wantErr: user.ErrUsernameExists,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := env.Users.Create(ctx, tt.nu)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, usr.IsActive)
			assert.NotEqual(t, tt.nu.Password, string(usr.PasswordHash))
			assert.NoError(t, usr.CheckPassword(tt.nu.Password))
		})
	}
}

func TestService_GetByLogin(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	admin := env.CreateAdmin(t, "admin")

	for _, login := range []string{"admin", " ADMIN ", "admin@test.lms", "Admin@Test.lms"} {
		usr, err := env.Users.GetByLogin(ctx, login)
		if assert.NoError(t, err, login) {
			assert.Equal(t, admin.ID, usr.ID)
		}
	}
	_, err := env.Users.GetByLogin(ctx, "nobody")
	assert.Equal(t, user.ErrNotFound, err)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	validate, _ := testutil.NewValidator()
	admin := env.CreateAdmin(t, "admin")
	env.CreateAdmin(t, "other")

	uu := user.UpdateUser{Name: "Boss"}
	require.NoError(t, uu.Validate(admin, validate))
	got, err := env.Users.Update(ctx, admin, uu)
	require.NoError(t, err)
	assert.Equal(t, "Boss", got.Name)
	assert.Equal(t, admin.Email, got.Email)
	assert.Equal(t, admin.Username, got.Username)

	uu = user.UpdateUser{Email: "other@test.lms"}
	require.NoError(t, uu.Validate(got, validate))
	_, err = env.Users.Update(ctx, got, uu)
	assert.Equal(t, user.ErrEmailExists, err)

	inactive := false
	uu = user.UpdateUser{IsActive: &inactive, Password: "N3w!secret", PasswordConfirm: "N3w!secret"}
	require.NoError(t, uu.Validate(got, validate))
	got, err = env.Users.Update(ctx, got, uu)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.NoError(t, got.CheckPassword("N3w!secret"))
}

func TestService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	testutil.ParseTemplates(env.Conf, env.Logger)
	admin := env.CreateAdmin(t, "admin")
	testutil.CreateUser(t, env.UserRepo, "Ghost", "ghost", "ghost@test.lms", testutil.Password, user.RoleAdmin, false)

	assert.Equal(t, user.ErrNotFound, env.Users.RequestPasswordReset(ctx, "nobody@test.lms"))
	assert.Equal(t, user.ErrNotFound, env.Users.RequestPasswordReset(ctx, "ghost@test.lms"))
	require.NoError(t, env.Users.RequestPasswordReset(ctx, "ADMIN@test.lms"))

	sent := env.Mail.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, admin.Email, sent[0].To[0].Address)
	data := sent[0].TemplateData.(map[string]interface{})
	uid, token := data["UID"].(string), data["Token"].(string)
	assert.Contains(t, sent[0].TextContent, token)

	reset := user.ResetUserPassword{UID: uid, Token: "bad-token", Password: "N3w!secret", PasswordConfirm: "N3w!secret"}
	err := env.Users.ResetPassword(ctx, reset)
	assert.True(t, core.IsValidationError(err), "ResetPassword() error = %v", err)

	reset.Token = token
	require.NoError(t, env.Users.ResetPassword(ctx, reset))
	usr, err := env.Users.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.NoError(t, usr.CheckPassword("N3w!secret"))

	// a changed password invalidates the token
	err = env.Users.ResetPassword(ctx, reset)
	assert.True(t, core.IsValidationError(err), "ResetPassword() error = %v", err)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	tchr := env.CreateTeacher(t, "tom")
	c := env.CreateCourse(t, "MTH101", "Calculus", tchr.ID)

	require.NoError(t, env.Users.Delete(ctx, tchr.UserID))

	_, err := env.Teachers.GetByID(ctx, tchr.ID)
	assert.Equal(t, core.NewNotFoundError("teacher"), err)
	got, err := env.Courses.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.TeacherID.Valid)

	assert.Equal(t, user.ErrNotFound, env.Users.Delete(ctx, tchr.UserID))
}

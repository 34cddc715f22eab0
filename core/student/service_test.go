package student_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/assignment"
	"github.com/sudais-khan12/LMS-sub002/core/attendance"
	"github.com/sudais-khan12/LMS-sub002/core/student"
	"github.com/sudais-khan12/LMS-sub002/core/user"
	"github.com/sudais-khan12/LMS-sub002/testutil"
)

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	env.CreateStudent(t, "amina", "ENR-001")

	ns := student.NewStudent{
		NewUser: user.NewUser{
			Name: "Bilal", Email: "bilal@test.lms", Username: "bilal",
			Password: testutil.Password, PasswordConfirm: testutil.Password, Role: user.RoleStudent,
		},
		EnrollmentNo: "ENR-001",
		Semester:     2,
	}
	_, err := env.Students.Create(ctx, ns)
	assert.Equal(t, student.ErrEnrollmentExists, err)
	_, err = env.Users.GetByLogin(ctx, "bilal")
	assert.Equal(t, user.ErrNotFound, err)

	ns.EnrollmentNo = "ENR-002"
	got, err := env.Students.Create(ctx, ns)
	require.NoError(t, err)
	assert.Equal(t, "Bilal", got.Name)
	assert.Equal(t, 2, got.Semester)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	validate, _ := testutil.NewValidator()
	env.CreateStudent(t, "amina", "ENR-001")
	stdt := env.CreateStudent(t, "bilal", "ENR-002")
	usr, err := env.Students.User(ctx, stdt)
	require.NoError(t, err)

	taken := "ENR-001"
	us := student.UpdateStudent{EnrollmentNo: &taken}
	require.NoError(t, us.Validate(usr, validate))
	_, err = env.Students.Update(ctx, stdt, usr, us)
	assert.Equal(t, student.ErrEnrollmentExists, err)

	no, sem, section := "ENR-003", 3, "B"
	us = student.UpdateStudent{UpdateUser: user.UpdateUser{Name: "Bilal K"}, EnrollmentNo: &no, Semester: &sem, Section: &section}
	require.NoError(t, us.Validate(usr, validate))
	got, err := env.Students.Update(ctx, stdt, usr, us)
	require.NoError(t, err)
	assert.Equal(t, "ENR-003", got.EnrollmentNo)
	assert.Equal(t, 3, got.Semester)
	assert.Equal(t, "B", got.Section)
	assert.Equal(t, "Bilal K", got.Name)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	tchr := env.CreateTeacher(t, "tom")
	stdt := env.CreateStudent(t, "amina", "ENR-001")
	c := env.CreateCourse(t, "MTH101", "Calculus", tchr.ID)
	env.Enroll(t, stdt.ID, c.ID, core.NewDate(2025, time.March, 1), attendance.StatusPresent)
	a := env.CreateAssignment(t, c.ID, "Limits", time.Now().Add(time.Hour))
	sub, err := env.Assignments.Submit(ctx, stdt.ID, assignment.NewSubmission{AssignmentID: a.ID, FileURL: "https://files.test/l.pdf"})
	require.NoError(t, err)

	require.NoError(t, env.Students.Delete(ctx, stdt.ID))

	_, err = env.Users.GetByID(ctx, stdt.UserID)
	assert.Equal(t, user.ErrNotFound, err)
	_, err = env.Assignments.GetSubmission(ctx, sub.ID)
	assert.Equal(t, assignment.ErrSubmissionNotFound, err)
	_, total, err := env.Attendance.Query(ctx, attendance.QueryFilter{CourseID: c.ID}, core.DefaultListOptions())
	require.NoError(t, err)
	assert.Zero(t, total)

	assert.Equal(t, student.ErrNotFound, env.Students.Delete(ctx, stdt.ID))
}

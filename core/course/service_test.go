package course_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/assignment"
	"github.com/sudais-khan12/LMS-sub002/core/attendance"
	"github.com/sudais-khan12/LMS-sub002/core/course"
	"github.com/sudais-khan12/LMS-sub002/testutil"
)

func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	tchr := env.CreateTeacher(t, "tom")
	env.CreateCourse(t, "MTH101", "Calculus", tchr.ID)

	tests := []struct {
		name    string
		nc      course.NewCourse
		wantErr error
	}{
		{name: "unassigned", nc: course.NewCourse{Title: "Algebra", Code: "MTH102"}},
		{name: "with teacher", nc: course.NewCourse{Title: "Geometry", Code: "MTH103", TeacherID: tchr.ID}},
		{name: "code taken", nc: course.NewCourse{Title: "Calculus II", Code: "MTH101"}, wantErr: course.ErrCodeExists},
		{name: "unknown teacher", nc: course.NewCourse{Title: "Topology", Code: "MTH104", TeacherID: core.NewID()}, wantErr: course.ErrTeacherNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := env.Courses.Create(ctx, tt.nc)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.nc.Code, c.Code)
			assert.Equal(t, tt.nc.TeacherID != "", c.TeacherID.Valid)
		})
	}
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	tom := env.CreateTeacher(t, "tom")
	ann := env.CreateTeacher(t, "ann")
	env.CreateCourse(t, "BIO101", "Biology", ann.ID)
	c := env.CreateCourse(t, "MTH101", "Calculus", tom.ID)

	got, err := env.Courses.Update(ctx, c, course.UpdateCourse{TeacherID: strPtr(ann.ID), Title: strPtr("Calculus I")})
	require.NoError(t, err)
	assert.Equal(t, ann.ID, got.TeacherID.String)
	assert.Equal(t, "Calculus I", got.Title)
	assert.Equal(t, c.CreatedAt, got.CreatedAt)

	got, err = env.Courses.Update(ctx, got, course.UpdateCourse{TeacherID: strPtr("")})
	require.NoError(t, err)
	assert.False(t, got.TeacherID.Valid)

	// keeping its own code is not a conflict
	_, err = env.Courses.Update(ctx, got, course.UpdateCourse{Code: strPtr("MTH101")})
	assert.NoError(t, err)

	_, err = env.Courses.Update(ctx, got, course.UpdateCourse{Code: strPtr("BIO101")})
	assert.Equal(t, course.ErrCodeExists, err)

	_, err = env.Courses.Update(ctx, got, course.UpdateCourse{TeacherID: strPtr(core.NewID())})
	assert.Equal(t, course.ErrTeacherNotFound, err)
}

func TestService_RemoveStudent(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	tchr := env.CreateTeacher(t, "tom")
	amina := env.CreateStudent(t, "amina", "ENR-001")
	bilal := env.CreateStudent(t, "bilal", "ENR-002")
	calc := env.CreateCourse(t, "MTH101", "Calculus", tchr.ID)
	bio := env.CreateCourse(t, "BIO101", "Biology", tchr.ID)

	for d := 1; d <= 3; d++ {
		env.Enroll(t, amina.ID, calc.ID, core.NewDate(2025, time.March, d), attendance.StatusPresent)
	}
	env.Enroll(t, amina.ID, bio.ID, core.NewDate(2025, time.March, 1), attendance.StatusPresent)
	env.Enroll(t, bilal.ID, calc.ID, core.NewDate(2025, time.March, 1), attendance.StatusAbsent)

	a := env.CreateAssignment(t, calc.ID, "Limits", time.Now().Add(24*time.Hour))
	for _, s := range []string{amina.ID, bilal.ID} {
		_, err := env.Assignments.Submit(ctx, s, assignment.NewSubmission{AssignmentID: a.ID, FileURL: "https://files.test/limits.pdf"})
		require.NoError(t, err)
	}

	res, err := env.Courses.RemoveStudent(ctx, calc.ID, amina.ID)
	require.NoError(t, err)
	assert.Equal(t, course.Unenrollment{CourseID: calc.ID, StudentID: amina.ID, Attendance: 3, Submissions: 1}, res)

	enrolled, err := env.Resolver.IsEnrolled(ctx, amina.ID, calc.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)
	enrolled, err = env.Resolver.IsEnrolled(ctx, amina.ID, bio.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	_, total, err := env.Assignments.QuerySubmissions(ctx, assignment.SubmissionFilter{AssignmentID: a.ID}, core.DefaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	// the course, the assignment and the student are untouched
	_, err = env.Courses.GetByID(ctx, calc.ID)
	assert.NoError(t, err)
	_, err = env.Assignments.GetByID(ctx, a.ID)
	assert.NoError(t, err)
	_, err = env.Students.GetByID(ctx, amina.ID)
	assert.NoError(t, err)

	_, err = env.Courses.RemoveStudent(ctx, core.NewID(), amina.ID)
	assert.Equal(t, course.ErrNotFound, err)
	_, err = env.Courses.RemoveStudent(ctx, calc.ID, core.NewID())
	assert.Equal(t, course.ErrStudentNotFound, err)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	tchr := env.CreateTeacher(t, "tom")
	stdt := env.CreateStudent(t, "amina", "ENR-001")
	c := env.CreateCourse(t, "MTH101", "Calculus", tchr.ID)
	env.Enroll(t, stdt.ID, c.ID, core.NewDate(2025, time.March, 1), attendance.StatusPresent)
	a := env.CreateAssignment(t, c.ID, "Limits", time.Now().Add(24*time.Hour))

	require.NoError(t, env.Courses.Delete(ctx, c.ID))

	_, err := env.Assignments.GetByID(ctx, a.ID)
	assert.Equal(t, assignment.ErrNotFound, err)
	_, total, err := env.Attendance.Query(ctx, attendance.QueryFilter{StudentID: stdt.ID}, core.DefaultListOptions())
	require.NoError(t, err)
	assert.Zero(t, total)
	_, err = env.Teachers.GetByID(ctx, tchr.ID)
	assert.NoError(t, err)

	assert.Equal(t, course.ErrNotFound, env.Courses.Delete(ctx, c.ID))
}

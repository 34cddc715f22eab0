package assignment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/assignment"
	"github.com/sudais-khan12/LMS-sub002/core/notification"
	"github.com/sudais-khan12/LMS-sub002/core/settings"
	"github.com/sudais-khan12/LMS-sub002/testutil"
)

func fptr(f float64) *float64 { return &f }

func TestService_Submit(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	tchr := env.CreateTeacher(t, "tom")
	stdt := env.CreateStudent(t, "amina", "ENR-001")
	c := env.CreateCourse(t, "MTH101", "Calculus", tchr.ID)

	due := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)
	open := env.CreateAssignment(t, c.ID, "Limits", due)
	closed := env.CreateAssignment(t, c.ID, "Derivatives", due)

	restore := assignment.SetNow(func() time.Time { return due.Add(-time.Hour) })
	sub, err := env.Assignments.Submit(ctx, stdt.ID, assignment.NewSubmission{AssignmentID: open.ID, FileURL: "https://files.test/limits.pdf"})
	restore()
	require.NoError(t, err)
	assert.Equal(t, stdt.ID, sub.StudentID)
	assert.False(t, sub.IsGraded())

	late := false
	env.Settings.Update(settings.Patch{AllowLateSubmissions: &late})
	defer assignment.SetNow(func() time.Time { return due.Add(time.Hour) })()

	tests := []struct {
		name    string
		ns      assignment.NewSubmission
		wantErr error
	}{
		{name: "past due, already submitted", ns: assignment.NewSubmission{AssignmentID: open.ID, FileURL: "https://files.test/again.pdf"}, wantErr: assignment.ErrPastDue},
		{name: "past due", ns: assignment.NewSubmission{AssignmentID: closed.ID, FileURL: "https://files.test/late.pdf"}, wantErr: assignment.ErrPastDue},
		{name: "unknown assignment", ns: assignment.NewSubmission{AssignmentID: core.NewID(), FileURL: "https://files.test/x.pdf"}, wantErr: assignment.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Assignments.Submit(ctx, stdt.ID, tt.ns)
			assert.Equal(t, tt.wantErr, err)
		})
	}

	lateOK := true
	env.Settings.Update(settings.Patch{AllowLateSubmissions: &lateOK})

	_, err = env.Assignments.Submit(ctx, stdt.ID, assignment.NewSubmission{AssignmentID: open.ID, FileURL: "https://files.test/again.pdf"})
	assert.Equal(t, assignment.ErrAlreadySubmitted, err)

	lateSub, err := env.Assignments.Submit(ctx, stdt.ID, assignment.NewSubmission{AssignmentID: closed.ID, FileURL: "https://files.test/late.pdf"})
	require.NoError(t, err)
	assert.Equal(t, due.Add(time.Hour), lateSub.SubmittedAt)
}

func TestService_Grade(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	tchr := env.CreateTeacher(t, "tom")
	stdt := env.CreateStudent(t, "amina", "ENR-001")
	c := env.CreateCourse(t, "MTH101", "Calculus", tchr.ID)
	a := env.CreateAssignment(t, c.ID, "Limits", time.Now().Add(24*time.Hour))

	sub, err := env.Assignments.Submit(ctx, stdt.ID, assignment.NewSubmission{AssignmentID: a.ID, FileURL: "https://files.test/limits.pdf"})
	require.NoError(t, err)

	graded, err := env.Assignments.Grade(ctx, sub.ID, assignment.GradeSubmission{Grade: fptr(85)})
	require.NoError(t, err)
	assert.Equal(t, null.Float64From(85), graded.Grade)
	assert.True(t, graded.GradedAt.Valid)

	ns := env.Notifications(t, stdt.UserID)
	if assert.Len(t, ns, 1) {
		assert.Equal(t, notification.CategoryAssignment, ns[0].Category)
		assert.Equal(t, `Your submission for "Limits" was graded: 85/100`, ns[0].Body)
		assert.False(t, ns[0].IsRead)
	}

	// regrading overwrites
	graded, err = env.Assignments.Grade(ctx, sub.ID, assignment.GradeSubmission{Grade: fptr(92.5)})
	require.NoError(t, err)
	assert.Equal(t, 92.5, graded.Grade.Float64)
	ns = env.Notifications(t, stdt.UserID)
	if assert.Len(t, ns, 2) {
		assert.Contains(t, []string{ns[0].Body, ns[1].Body}, `Your submission for "Limits" was graded: 92.5/100`)
	}

	_, err = env.Assignments.Grade(ctx, core.NewID(), assignment.GradeSubmission{Grade: fptr(50)})
	assert.Equal(t, assignment.ErrSubmissionNotFound, err)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	tchr := env.CreateTeacher(t, "tom")
	stdt := env.CreateStudent(t, "amina", "ENR-001")
	c := env.CreateCourse(t, "MTH101", "Calculus", tchr.ID)
	a := env.CreateAssignment(t, c.ID, "Limits", time.Now().Add(24*time.Hour))

	sub, err := env.Assignments.Submit(ctx, stdt.ID, assignment.NewSubmission{AssignmentID: a.ID, FileURL: "https://files.test/limits.pdf"})
	require.NoError(t, err)

	require.NoError(t, env.Assignments.Delete(ctx, a.ID))
	_, err = env.Assignments.GetSubmission(ctx, sub.ID)
	assert.Equal(t, assignment.ErrSubmissionNotFound, err)
	assert.Equal(t, assignment.ErrNotFound, env.Assignments.Delete(ctx, a.ID))
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	tom := env.CreateTeacher(t, "tom")
	ann := env.CreateTeacher(t, "ann")
	stdt := env.CreateStudent(t, "amina", "ENR-001")
	calc := env.CreateCourse(t, "MTH101", "Calculus", tom.ID)
	bio := env.CreateCourse(t, "BIO101", "Biology", ann.ID)
	env.Enroll(t, stdt.ID, calc.ID, core.NewDate(2025, time.March, 1), "PRESENT")

	due := time.Now().Add(24 * time.Hour)
	limits := env.CreateAssignment(t, calc.ID, "Limits", due)
	cells := env.CreateAssignment(t, bio.ID, "Cells", due)

	tests := []struct {
		name   string
		filter assignment.QueryFilter
		want   []string
	}{
		{name: "all", want: []string{cells.ID, limits.ID}},
		{name: "teacher", filter: assignment.QueryFilter{TeacherID: ann.ID}, want: []string{cells.ID}},
		{name: "enrolled student", filter: assignment.QueryFilter{StudentID: stdt.ID}, want: []string{limits.ID}},
		{name: "search", filter: assignment.QueryFilter{Search: "LIM"}, want: []string{limits.ID}},
		{name: "course", filter: assignment.QueryFilter{CourseID: bio.ID}, want: []string{cells.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := env.Assignments.Query(ctx, tt.filter, core.DefaultListOptions())
			require.NoError(t, err)
			ids := make([]string, 0, len(items))
			for _, a := range items {
				ids = append(ids, a.ID)
			}
			assert.ElementsMatch(t, tt.want, ids)
			assert.Equal(t, len(tt.want), total)
		})
	}
}

func TestFormatGrade(t *testing.T) {
	assert.Equal(t, "85", assignment.FormatGrade(null.Float64From(85)))
	assert.Equal(t, "92.5", assignment.FormatGrade(null.Float64From(92.5)))
	assert.Equal(t, "-", assignment.FormatGrade(null.Float64{}))
}

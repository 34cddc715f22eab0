package report_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/assignment"
	"github.com/sudais-khan12/LMS-sub002/core/attendance"
	"github.com/sudais-khan12/LMS-sub002/core/leave"
	"github.com/sudais-khan12/LMS-sub002/core/report"
	"github.com/sudais-khan12/LMS-sub002/core/stats"
	"github.com/sudais-khan12/LMS-sub002/core/student"
	"github.com/sudais-khan12/LMS-sub002/core/teacher"
	"github.com/sudais-khan12/LMS-sub002/testutil"
)

type fixture struct {
	env        *testutil.Env
	tom, ann   teacher.Teacher
	amina      student.Student
	bilal      student.Student
	calc, bio  report.CourseRef
	limits     string
	derivative string
}

func day(d int) core.Date { return core.NewDate(2025, time.March, d) }

func fptr(f float64) *float64 { return &f }

// newFixture builds two courses:
// Calculus (tom): amina P P L A, bilal P; amina submits both assignments (one graded 95), bilal one (graded 72).
// Biology (ann): amina P, no assignments.
func newFixture(t *testing.T) fixture {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	env.CreateAdmin(t, "admin")
	f := fixture{env: env}
	f.tom = env.CreateTeacher(t, "tom")
	f.ann = env.CreateTeacher(t, "ann")
	f.amina = env.CreateStudent(t, "amina", "ENR-001")
	f.bilal = env.CreateStudent(t, "bilal", "ENR-002")

	calc := env.CreateCourse(t, "MTH101", "Calculus", f.tom.ID)
	bio := env.CreateCourse(t, "BIO101", "Biology", f.ann.ID)
	f.calc = report.CourseRef{ID: calc.ID, Title: calc.Title, Code: calc.Code}
	f.bio = report.CourseRef{ID: bio.ID, Title: bio.Title, Code: bio.Code}

	for d, s := range []string{attendance.StatusPresent, attendance.StatusPresent, attendance.StatusLate, attendance.StatusAbsent} {
		env.Enroll(t, f.amina.ID, calc.ID, day(d+1), s)
	}
	env.Enroll(t, f.bilal.ID, calc.ID, day(1), attendance.StatusPresent)
	env.Enroll(t, f.amina.ID, bio.ID, day(1), attendance.StatusPresent)

	due := time.Now().Add(24 * time.Hour)
	f.limits = env.CreateAssignment(t, calc.ID, "Limits", due).ID
	f.derivative = env.CreateAssignment(t, calc.ID, "Derivatives", due).ID

	submit := func(studentID, assignmentID string) assignment.Submission {
		sub, err := env.Assignments.Submit(ctx, studentID, assignment.NewSubmission{AssignmentID: assignmentID, FileURL: "https://files.test/work.pdf"})
		require.NoError(t, err)
		return sub
	}
	graded := submit(f.amina.ID, f.limits)
	submit(f.amina.ID, f.derivative)
	bilalSub := submit(f.bilal.ID, f.limits)
	_, err := env.Assignments.Grade(ctx, graded.ID, assignment.GradeSubmission{Grade: fptr(95)})
	require.NoError(t, err)
	_, err = env.Assignments.Grade(ctx, bilalSub.ID, assignment.GradeSubmission{Grade: fptr(72)})
	require.NoError(t, err)

	for _, nr := range []report.NewReport{
		{StudentID: f.amina.ID, Semester: 1, GPA: fptr(3), Credits: 18},
		{StudentID: f.amina.ID, Semester: 2, GPA: fptr(3.5), Credits: 20, Remarks: "Dean's list"},
		{StudentID: f.bilal.ID, Semester: 1, GPA: fptr(2), Credits: 15},
	} {
		_, err = env.Reports.Create(ctx, nr)
		require.NoError(t, err)
	}

	_, err = env.Leaves.Create(ctx, testutil.StudentActor(f.amina), leave.NewLeave{
		Type: "SICK", FromDate: day(10), ToDate: day(11), Reason: "flu",
	})
	require.NoError(t, err)
	return f
}

func TestService_AdminDashboard(t *testing.T) {
	f := newFixture(t)

	got, err := f.env.Reports.AdminDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, report.Totals{
		Users: 5, Admins: 1, Teachers: 2, Students: 2, Courses: 2, Assignments: 2, Submissions: 3, Reports: 3,
	}, got.Totals)
	assert.Equal(t, stats.AttendanceSummary{Total: 6, Present: 4, Absent: 1, Late: 1, Rate: 66.67}, got.Attendance)
	assert.Equal(t, 66.67, got.AttendanceRate)
	assert.Equal(t, stats.GradeDistribution{A: 1, C: 1, Count: 2, Average: 83.5}, got.Grades)
	assert.Equal(t, 66.67, got.CompletionRate)
	assert.Equal(t, map[string]int{leave.StatusPending: 1, leave.StatusApproved: 0, leave.StatusRejected: 0}, got.Leaves)
}

func TestService_TeacherDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.env.Reports.TeacherDashboard(ctx, f.tom.ID)
	require.NoError(t, err)
	require.Len(t, got.Courses, 1)
	assert.Equal(t, report.CourseSummary{
		Course:         f.calc,
		Students:       2,
		Assignments:    2,
		Submissions:    3,
		AttendanceRate: 60,
		Grades:         stats.GradeDistribution{A: 1, C: 1, Count: 2, Average: 83.5},
		CompletionRate: 66.67,
	}, got.Courses[0])
	assert.Equal(t, 1, got.PendingLeaves)

	idle := f.env.CreateTeacher(t, "ivy")
	got, err = f.env.Reports.TeacherDashboard(ctx, idle.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Courses)
	assert.Zero(t, got.PendingLeaves)
}

func TestService_StudentDashboard(t *testing.T) {
	f := newFixture(t)

	got, err := f.env.Reports.StudentDashboard(context.Background(), f.amina.ID, f.amina.UserID)
	require.NoError(t, err)

	assert.Equal(t, 3.25, got.GPA)
	assert.Equal(t, float64(60), got.AttendanceRate)
	assert.Equal(t, 1, got.UnreadNotifications)
	assert.Equal(t, []report.StudentCourse{
		{Course: f.bio, AttendanceRate: 100},
		{Course: f.calc, Assignments: 2, Submitted: 2, Graded: 1, Progress: 50, AttendanceRate: 50, Average: 95},
	}, got.Courses)
}

func TestService_CourseReport(t *testing.T) {
	f := newFixture(t)

	got, err := f.env.Reports.CourseReport(context.Background(), f.calc)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CourseSummary.Students)
	assert.Equal(t, []report.StudentProgress{
		{
			Student:        report.StudentRef{ID: f.amina.ID, Name: "Amina", EnrollmentNo: "ENR-001"},
			AttendanceRate: 50, Submitted: 2, Graded: 1, Progress: 50, Average: 95,
		},
		{
			Student:        report.StudentRef{ID: f.bilal.ID, Name: "Bilal", EnrollmentNo: "ENR-002"},
			AttendanceRate: 100, Submitted: 1, Graded: 1, Progress: 50, Average: 72,
		},
	}, got.Students)
}

func TestService_Export(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter report.QueryFilter
		want   [][]string
	}{
		{
			name: "all",
			want: [][]string{
				{"ENR-001", "Amina", "1", "3.00", "18", ""},
				{"ENR-001", "Amina", "2", "3.50", "20", "Dean's list"},
				{"ENR-002", "Bilal", "1", "2.00", "15", ""},
			},
		},
		{
			name:   "teacher scope",
			filter: report.QueryFilter{TeacherID: f.ann.ID},
			want: [][]string{
				{"ENR-001", "Amina", "1", "3.00", "18", ""},
				{"ENR-001", "Amina", "2", "3.50", "20", "Dean's list"},
			},
		},
		{
			name:   "semester",
			filter: report.QueryFilter{Semester: 1},
			want: [][]string{
				{"ENR-001", "Amina", "1", "3.00", "18", ""},
				{"ENR-002", "Bilal", "1", "2.00", "15", ""},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := f.env.Reports.Export(ctx, tt.filter)
			require.NoError(t, err)

			wb, err := excelize.OpenReader(bytes.NewReader(data))
			require.NoError(t, err)
			defer wb.Close()

			rows, err := wb.GetRows("Reports")
			require.NoError(t, err)
			require.Len(t, rows, len(tt.want)+1)
			assert.Equal(t, []string{"Enrollment No", "Student", "Semester", "GPA", "Credits", "Remarks", "Created At"}, rows[0])
			for i, want := range tt.want {
				assert.Equal(t, want, rows[i+1][:len(want)])
			}
		})
	}
}

package report

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sudais-khan12/LMS-sub002/core/leave"
	"github.com/sudais-khan12/LMS-sub002/core/stats"
)

// Scope narrows statistics to a course and/or a student; empty fields do not restrict.
type Scope struct {
	CourseID  string
	StudentID string
}

type Totals struct {
	Users       int `json:"users" db:"users"`
	Admins      int `json:"admins" db:"admins"`
	Teachers    int `json:"teachers" db:"teachers"`
	Students    int `json:"students" db:"students"`
	Courses     int `json:"courses" db:"courses"`
	Assignments int `json:"assignments" db:"assignments"`
	Submissions int `json:"submissions" db:"submissions"`
	Reports     int `json:"reports" db:"reports"`
}

type CourseRef struct {
	ID    string `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
	Code  string `json:"code" db:"code"`
}

type StudentRef struct {
	ID           string `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	EnrollmentNo string `json:"enrollmentNo" db:"enrollment_no"`
}

// StatsReader is the read model the dashboards are computed from.
type StatsReader interface {
	Totals(ctx context.Context) (Totals, error)
	// LeaveCounts counts leave requests by status; a teacherID limits them to the teacher's students.
	LeaveCounts(ctx context.Context, teacherID string) (map[string]int, error)
	AttendanceStatuses(ctx context.Context, scope Scope) ([]string, error)
	// SubmissionGrades returns the grades of graded submissions and the number of submissions.
	SubmissionGrades(ctx context.Context, scope Scope) (grades []float64, submitted int, err error)
	AssignmentCount(ctx context.Context, courseID string) (int, error)
	TeacherCourses(ctx context.Context, teacherID string) ([]CourseRef, error)
	StudentCourses(ctx context.Context, studentID string) ([]CourseRef, error)
	CourseStudents(ctx context.Context, courseID string) ([]StudentRef, error)
}

type AdminDashboard struct {
	Totals         Totals                  `json:"totals"`
	Attendance     stats.AttendanceSummary `json:"attendance"`
	AttendanceRate float64                 `json:"attendanceRate"`
	Grades         stats.GradeDistribution `json:"grades"`
	CompletionRate float64                 `json:"completionRate"`
	Leaves         map[string]int          `json:"leaves"`
}

type CourseSummary struct {
	Course         CourseRef               `json:"course"`
	Students       int                     `json:"students"`
	Assignments    int                     `json:"assignments"`
	Submissions    int                     `json:"submissions"`
	AttendanceRate float64                 `json:"attendanceRate"`
	Grades         stats.GradeDistribution `json:"grades"`
	CompletionRate float64                 `json:"completionRate"`
}

type TeacherDashboard struct {
	Courses       []CourseSummary `json:"courses"`
	PendingLeaves int             `json:"pendingLeaves"`
}

type StudentCourse struct {
	Course         CourseRef `json:"course"`
	Assignments    int       `json:"assignments"`
	Submitted      int       `json:"submitted"`
	Graded         int       `json:"graded"`
	Progress       float64   `json:"progress"`
	AttendanceRate float64   `json:"attendanceRate"`
	Average        float64   `json:"average"`
}

type StudentDashboard struct {
	GPA                 float64         `json:"gpa"`
	AttendanceRate      float64         `json:"attendanceRate"`
	Courses             []StudentCourse `json:"courses"`
	UnreadNotifications int             `json:"unreadNotifications"`
}

type StudentProgress struct {
	Student        StudentRef `json:"student"`
	AttendanceRate float64    `json:"attendanceRate"`
	Submitted      int        `json:"submitted"`
	Graded         int        `json:"graded"`
	Progress       float64    `json:"progress"`
	Average        float64    `json:"average"`
}

type CourseReport struct {
	CourseSummary
	Students []StudentProgress `json:"students"`
}

func (svc *Service) AdminDashboard(ctx context.Context) (AdminDashboard, error) {
	totals, err := svc.stats.Totals(ctx)
	if err != nil {
		return AdminDashboard{}, errors.Wrap(err, "counting totals")
	}
	statuses, err := svc.stats.AttendanceStatuses(ctx, Scope{})
	if err != nil {
		return AdminDashboard{}, errors.Wrap(err, "reading attendance")
	}
	grades, submitted, err := svc.stats.SubmissionGrades(ctx, Scope{})
	if err != nil {
		return AdminDashboard{}, errors.Wrap(err, "reading grades")
	}
	leaves, err := svc.stats.LeaveCounts(ctx, "")
	if err != nil {
		return AdminDashboard{}, errors.Wrap(err, "counting leave requests")
	}

	attendance := stats.SummarizeAttendance(statuses)
	return AdminDashboard{
		Totals:         totals,
		Attendance:     attendance,
		AttendanceRate: attendance.Rate,
		Grades:         stats.DistributeGrades(grades),
		CompletionRate: stats.CompletionRate(len(grades), submitted),
		Leaves:         leaves,
	}, nil
}

func (svc *Service) summarizeCourse(ctx context.Context, course CourseRef) (CourseSummary, []StudentRef, error) {
	scope := Scope{CourseID: course.ID}
	statuses, err := svc.stats.AttendanceStatuses(ctx, scope)
	if err != nil {
		return CourseSummary{}, nil, errors.Wrap(err, "reading attendance")
	}
	grades, submitted, err := svc.stats.SubmissionGrades(ctx, scope)
	if err != nil {
		return CourseSummary{}, nil, errors.Wrap(err, "reading grades")
	}
	assignments, err := svc.stats.AssignmentCount(ctx, course.ID)
	if err != nil {
		return CourseSummary{}, nil, errors.Wrap(err, "counting assignments")
	}
	students, err := svc.stats.CourseStudents(ctx, course.ID)
	if err != nil {
		return CourseSummary{}, nil, errors.Wrap(err, "finding course students")
	}

	return CourseSummary{
		Course:         course,
		Students:       len(students),
		Assignments:    assignments,
		Submissions:    submitted,
		AttendanceRate: stats.AttendanceRate(statuses),
		Grades:         stats.DistributeGrades(grades),
		CompletionRate: stats.CompletionRate(len(grades), submitted),
	}, students, nil
}

func (svc *Service) TeacherDashboard(ctx context.Context, teacherID string) (TeacherDashboard, error) {
	courses, err := svc.stats.TeacherCourses(ctx, teacherID)
	if err != nil {
		return TeacherDashboard{}, errors.Wrap(err, "finding teacher courses")
	}

	dash := TeacherDashboard{Courses: make([]CourseSummary, 0, len(courses))}
	for _, c := range courses {
		sum, _, err := svc.summarizeCourse(ctx, c)
		if err != nil {
			return TeacherDashboard{}, err
		}
		dash.Courses = append(dash.Courses, sum)
	}

	leaves, err := svc.stats.LeaveCounts(ctx, teacherID)
	if err != nil {
		return TeacherDashboard{}, errors.Wrap(err, "counting leave requests")
	}
	dash.PendingLeaves = leaves[leave.StatusPending]
	return dash, nil
}

func (svc *Service) studentCourse(ctx context.Context, studentID string, course CourseRef) (StudentCourse, error) {
	scope := Scope{CourseID: course.ID, StudentID: studentID}
	statuses, err := svc.stats.AttendanceStatuses(ctx, scope)
	if err != nil {
		return StudentCourse{}, errors.Wrap(err, "reading attendance")
	}
	grades, submitted, err := svc.stats.SubmissionGrades(ctx, scope)
	if err != nil {
		return StudentCourse{}, errors.Wrap(err, "reading grades")
	}
	assignments, err := svc.stats.AssignmentCount(ctx, course.ID)
	if err != nil {
		return StudentCourse{}, errors.Wrap(err, "counting assignments")
	}

	return StudentCourse{
		Course:         course,
		Assignments:    assignments,
		Submitted:      submitted,
		Graded:         len(grades),
		Progress:       stats.CourseProgress(len(grades), assignments),
		AttendanceRate: stats.AttendanceRate(statuses),
		Average:        stats.DistributeGrades(grades).Average,
	}, nil
}

// StudentDashboard summarizes the student's GPA, attendance and per-course progress.
// userID is the student's user, used for the unread notification count.
func (svc *Service) StudentDashboard(ctx context.Context, studentID, userID string) (StudentDashboard, error) {
	reports, err := svc.all(ctx, QueryFilter{StudentID: studentID}, nil)
	if err != nil {
		return StudentDashboard{}, errors.Wrap(err, "finding reports")
	}
	snapshots := make([]stats.SemesterGPA, 0, len(reports))
	for _, r := range reports {
		snapshots = append(snapshots, stats.SemesterGPA{Semester: r.Semester, GPA: r.GPA, CreatedAt: r.CreatedAt})
	}

	statuses, err := svc.stats.AttendanceStatuses(ctx, Scope{StudentID: studentID})
	if err != nil {
		return StudentDashboard{}, errors.Wrap(err, "reading attendance")
	}

	courses, err := svc.stats.StudentCourses(ctx, studentID)
	if err != nil {
		return StudentDashboard{}, errors.Wrap(err, "finding student courses")
	}
	dash := StudentDashboard{
		GPA:            stats.GPA(snapshots),
		AttendanceRate: stats.AttendanceRate(statuses),
		Courses:        make([]StudentCourse, 0, len(courses)),
	}
	for _, c := range courses {
		sc, err := svc.studentCourse(ctx, studentID, c)
		if err != nil {
			return StudentDashboard{}, err
		}
		dash.Courses = append(dash.Courses, sc)
	}

	if dash.UnreadNotifications, err = svc.unread.CountUnread(ctx, userID); err != nil {
		return StudentDashboard{}, errors.Wrap(err, "counting unread notifications")
	}
	return dash, nil
}

// CourseReport is the course summary with the progress of every enrolled student.
func (svc *Service) CourseReport(ctx context.Context, course CourseRef) (CourseReport, error) {
	sum, students, err := svc.summarizeCourse(ctx, course)
	if err != nil {
		return CourseReport{}, err
	}

	rep := CourseReport{CourseSummary: sum, Students: make([]StudentProgress, 0, len(students))}
	for _, s := range students {
		sc, err := svc.studentCourse(ctx, s.ID, course)
		if err != nil {
			return CourseReport{}, err
		}
		rep.Students = append(rep.Students, StudentProgress{
			Student:        s,
			AttendanceRate: sc.AttendanceRate,
			Submitted:      sc.Submitted,
			Graded:         sc.Graded,
			Progress:       sc.Progress,
			Average:        sc.Average,
		})
	}
	return rep, nil
}

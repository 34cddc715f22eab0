package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/storage/database"
)

// accessStore answers the ownership lookups of access.Resolver.
type accessStore struct {
	base
}

var _ access.Store = (*accessStore)(nil)

func NewAccessStore(db *sqlx.DB) *accessStore {
	return &accessStore{base{db: db}}
}

// column reads one column of the row of table identified by id.
func (s accessStore) column(ctx context.Context, dest interface{}, table, column, id, resource string) error {
	err := s.get(ctx, dest, psql.Select(column).From(table).Where(sq.Eq{"id": id}))
	return database.MapError(err, "finding "+resource, core.NewNotFoundError(resource))
}

func (s accessStore) UserExists(ctx context.Context, id string) error {
	var found string
	return s.column(ctx, &found, "users", "id", id, "user")
}

func (s accessStore) TeacherUser(ctx context.Context, teacherID string) (string, error) {
	var uid string
	return uid, s.column(ctx, &uid, "teachers", "user_id", teacherID, "teacher")
}

func (s accessStore) StudentUser(ctx context.Context, studentID string) (string, error) {
	var uid string
	return uid, s.column(ctx, &uid, "students", "user_id", studentID, "student")
}

func (s accessStore) CourseTeacher(ctx context.Context, courseID string) (null.String, error) {
	var tid null.String
	return tid, s.column(ctx, &tid, "courses", "teacher_id", courseID, "course")
}

func (s accessStore) AssignmentCourse(ctx context.Context, assignmentID string) (string, error) {
	var cid string
	return cid, s.column(ctx, &cid, "assignments", "course_id", assignmentID, "assignment")
}

func (s accessStore) SubmissionOwner(ctx context.Context, submissionID string) (string, string, error) {
	var row struct {
		AssignmentID string `db:"assignment_id"`
		StudentID    string `db:"student_id"`
	}
	err := s.get(ctx, &row, psql.Select("assignment_id", "student_id").From("submissions").Where(sq.Eq{"id": submissionID}))
	if err != nil {
		return "", "", database.MapError(err, "finding submission", core.NewNotFoundError("submission"))
	}
	return row.AssignmentID, row.StudentID, nil
}

func (s accessStore) AttendanceOwner(ctx context.Context, attendanceID string) (string, string, error) {
	var row struct {
		CourseID  string `db:"course_id"`
		StudentID string `db:"student_id"`
	}
	err := s.get(ctx, &row, psql.Select("course_id", "student_id").From("attendance").Where(sq.Eq{"id": attendanceID}))
	if err != nil {
		return "", "", database.MapError(err, "finding attendance", core.NewNotFoundError("attendance"))
	}
	return row.CourseID, row.StudentID, nil
}

func (s accessStore) LeaveOwner(ctx context.Context, leaveID string) (string, null.String, error) {
	var row struct {
		RequesterID string      `db:"requester_id"`
		StudentID   null.String `db:"student_id"`
	}
	err := s.get(ctx, &row, psql.Select("requester_id", "student_id").From("leave_requests").Where(sq.Eq{"id": leaveID}))
	if err != nil {
		return "", null.String{}, database.MapError(err, "finding leave request", core.NewNotFoundError("leave request"))
	}
	return row.RequesterID, row.StudentID, nil
}

func (s accessStore) ReportStudent(ctx context.Context, reportID string) (string, error) {
	var sid string
	return sid, s.column(ctx, &sid, "reports", "student_id", reportID, "report")
}

func (s accessStore) NotificationUser(ctx context.Context, notificationID string) (string, error) {
	var uid string
	return uid, s.column(ctx, &uid, "notifications", "user_id", notificationID, "notification")
}

func (s accessStore) StudentTeacherIDs(ctx context.Context, studentID string) ([]string, error) {
	ids := []string{}
	q := psql.Select("DISTINCT c.teacher_id").
		From("courses c").
		Join("enrollments e ON e.course_id = c.id").
		Where(sq.Eq{"e.student_id": studentID}).
		Where(sq.NotEq{"c.teacher_id": nil})
	err := s.selectAll(ctx, &ids, q)
	return ids, database.MapError(err, "finding student teachers", core.NewNotFoundError("student"))
}

func (s accessStore) IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error) {
	return s.exists(ctx, psql.Select("1").From("enrollments").
		Where(sq.Eq{"student_id": studentID, "course_id": courseID}))
}

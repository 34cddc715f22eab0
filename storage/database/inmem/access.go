package inmemdb

import (
	"context"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/access"
)

type accessStore struct {
	db *DB
}

func NewAccessStore(db *DB) access.Store {
	return &accessStore{db: db}
}

// lookup runs fn under a read lock and turns a false result into a not found error.
func (s *accessStore) lookup(resource string, fn func() bool) error {
	return s.db.read(func() error {
		if !fn() {
			return core.NewNotFoundError(resource)
		}
		return nil
	})
}

func (s *accessStore) UserExists(_ context.Context, id string) error {
	return s.lookup("user", func() bool {
		_, ok := s.db.users[id]
		return ok
	})
}

func (s *accessStore) TeacherUser(_ context.Context, teacherID string) (uid string, err error) {
	err = s.lookup("teacher", func() bool {
		t, ok := s.db.teachers[teacherID]
		uid = t.UserID
		return ok
	})
	return uid, err
}

func (s *accessStore) StudentUser(_ context.Context, studentID string) (uid string, err error) {
	err = s.lookup("student", func() bool {
		st, ok := s.db.students[studentID]
		uid = st.UserID
		return ok
	})
	return uid, err
}

func (s *accessStore) CourseTeacher(_ context.Context, courseID string) (tid null.String, err error) {
	err = s.lookup("course", func() bool {
		c, ok := s.db.courses[courseID]
		tid = c.TeacherID
		return ok
	})
	return tid, err
}

func (s *accessStore) AssignmentCourse(_ context.Context, assignmentID string) (cid string, err error) {
	err = s.lookup("assignment", func() bool {
		a, ok := s.db.assignments[assignmentID]
		cid = a.CourseID
		return ok
	})
	return cid, err
}

func (s *accessStore) SubmissionOwner(_ context.Context, submissionID string) (aid, sid string, err error) {
	err = s.lookup("submission", func() bool {
		sub, ok := s.db.submissions[submissionID]
		aid, sid = sub.AssignmentID, sub.StudentID
		return ok
	})
	return aid, sid, err
}

func (s *accessStore) AttendanceOwner(_ context.Context, attendanceID string) (cid, sid string, err error) {
	err = s.lookup("attendance", func() bool {
		a, ok := s.db.attendance[attendanceID]
		cid, sid = a.CourseID, a.StudentID
		return ok
	})
	return cid, sid, err
}

func (s *accessStore) LeaveOwner(_ context.Context, leaveID string) (uid string, sid null.String, err error) {
	err = s.lookup("leave request", func() bool {
		l, ok := s.db.leaves[leaveID]
		uid, sid = l.RequesterID, l.StudentID
		return ok
	})
	return uid, sid, err
}

func (s *accessStore) ReportStudent(_ context.Context, reportID string) (sid string, err error) {
	err = s.lookup("report", func() bool {
		r, ok := s.db.reports[reportID]
		sid = r.StudentID
		return ok
	})
	return sid, err
}

func (s *accessStore) NotificationUser(_ context.Context, notificationID string) (uid string, err error) {
	err = s.lookup("notification", func() bool {
		n, ok := s.db.notifications[notificationID]
		uid = n.UserID
		return ok
	})
	return uid, err
}

func (s *accessStore) StudentTeacherIDs(_ context.Context, studentID string) ([]string, error) {
	ids := []string{}
	_ = s.db.read(func() error {
		seen := make(map[string]bool)
		for cid := range s.db.enrolledCourses(studentID) {
			c := s.db.courses[cid]
			if c.TeacherID.Valid && !seen[c.TeacherID.String] {
				seen[c.TeacherID.String] = true
				ids = append(ids, c.TeacherID.String)
			}
		}
		return nil
	})
	sort.Strings(ids)
	return ids, nil
}

func (s *accessStore) IsEnrolled(_ context.Context, studentID, courseID string) (bool, error) {
	var ok bool
	_ = s.db.read(func() error {
		ok = s.db.isEnrolled(studentID, courseID)
		return nil
	})
	return ok, nil
}

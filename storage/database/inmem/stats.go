package inmemdb

import (
	"context"
	"sort"

	"github.com/sudais-khan12/LMS-sub002/core/leave"
	"github.com/sudais-khan12/LMS-sub002/core/report"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

type statsReader struct {
	db *DB
}

func NewStatsReader(db *DB) report.StatsReader {
	return &statsReader{db: db}
}

func (r *statsReader) Totals(_ context.Context) (t report.Totals, err error) {
	err = r.db.read(func() error {
		t = report.Totals{
			Users:       len(r.db.users),
			Teachers:    len(r.db.teachers),
			Students:    len(r.db.students),
			Courses:     len(r.db.courses),
			Assignments: len(r.db.assignments),
			Submissions: len(r.db.submissions),
			Reports:     len(r.db.reports),
		}
		for _, usr := range r.db.users {
			if usr.Role == user.RoleAdmin {
				t.Admins++
			}
		}
		return nil
	})
	return t, err
}

func (r *statsReader) LeaveCounts(_ context.Context, teacherID string) (map[string]int, error) {
	counts := make(map[string]int, len(leave.AllStatuses))
	for _, s := range leave.AllStatuses {
		counts[s] = 0
	}
	err := r.db.read(func() error {
		var taught map[string]bool
		if teacherID != "" {
			taught = r.db.teacherStudents(teacherID)
		}
		for _, l := range r.db.leaves {
			if taught != nil && !(l.StudentID.Valid && taught[l.StudentID.String]) {
				continue
			}
			counts[l.Status]++
		}
		return nil
	})
	return counts, err
}

func (r *statsReader) AttendanceStatuses(_ context.Context, scope report.Scope) ([]string, error) {
	statuses := []string{}
	err := r.db.read(func() error {
		for _, a := range r.db.attendance {
			if scope.CourseID != "" && a.CourseID != scope.CourseID {
				continue
			}
			if scope.StudentID != "" && a.StudentID != scope.StudentID {
				continue
			}
			statuses = append(statuses, a.Status)
		}
		return nil
	})
	return statuses, err
}

func (r *statsReader) SubmissionGrades(_ context.Context, scope report.Scope) ([]float64, int, error) {
	grades := []float64{}
	var submitted int
	err := r.db.read(func() error {
		for _, s := range r.db.submissions {
			if scope.CourseID != "" && r.db.assignments[s.AssignmentID].CourseID != scope.CourseID {
				continue
			}
			if scope.StudentID != "" && s.StudentID != scope.StudentID {
				continue
			}
			submitted++
			if s.Grade.Valid {
				grades = append(grades, s.Grade.Float64)
			}
		}
		return nil
	})
	return grades, submitted, err
}

func (r *statsReader) AssignmentCount(_ context.Context, courseID string) (int, error) {
	var n int
	err := r.db.read(func() error {
		for _, a := range r.db.assignments {
			if courseID == "" || a.CourseID == courseID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// courseRefs must be called holding a lock.
func (r *statsReader) courseRefs(ids map[string]bool) []report.CourseRef {
	refs := make([]report.CourseRef, 0, len(ids))
	for id := range ids {
		c := r.db.courses[id]
		refs = append(refs, report.CourseRef{ID: c.ID, Title: c.Title, Code: c.Code})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Title < refs[j].Title })
	return refs
}

func (r *statsReader) TeacherCourses(_ context.Context, teacherID string) (refs []report.CourseRef, err error) {
	err = r.db.read(func() error {
		refs = r.courseRefs(r.db.teacherCourses(teacherID))
		return nil
	})
	return refs, err
}

func (r *statsReader) StudentCourses(_ context.Context, studentID string) (refs []report.CourseRef, err error) {
	err = r.db.read(func() error {
		refs = r.courseRefs(r.db.enrolledCourses(studentID))
		return nil
	})
	return refs, err
}

func (r *statsReader) CourseStudents(_ context.Context, courseID string) ([]report.StudentRef, error) {
	refs := []report.StudentRef{}
	err := r.db.read(func() error {
		seen := make(map[string]bool)
		for _, a := range r.db.attendance {
			if a.CourseID != courseID || seen[a.StudentID] {
				continue
			}
			seen[a.StudentID] = true
			s := r.db.studentWithUser(r.db.students[a.StudentID])
			refs = append(refs, report.StudentRef{ID: s.ID, Name: s.Name, EnrollmentNo: s.EnrollmentNo})
		}
		return nil
	})
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, err
}

// Package inmemdb is an in-memory implementation of every repository, used by tests
// and by the API when no database is configured.
package inmemdb

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/assignment"
	"github.com/sudais-khan12/LMS-sub002/core/attendance"
	"github.com/sudais-khan12/LMS-sub002/core/course"
	"github.com/sudais-khan12/LMS-sub002/core/leave"
	"github.com/sudais-khan12/LMS-sub002/core/notification"
	"github.com/sudais-khan12/LMS-sub002/core/report"
	"github.com/sudais-khan12/LMS-sub002/core/student"
	"github.com/sudais-khan12/LMS-sub002/core/teacher"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

type tables struct {
	users         map[string]user.User
	teachers      map[string]teacher.Teacher
	students      map[string]student.Student
	courses       map[string]course.Course
	assignments   map[string]assignment.Assignment
	submissions   map[string]assignment.Submission
	attendance    map[string]attendance.Attendance
	leaves        map[string]leave.Leave
	notifications map[string]notification.Notification
	reports       map[string]report.Report
}

func (t tables) clone() tables {
	return tables{
		users:         maps.Clone(t.users),
		teachers:      maps.Clone(t.teachers),
		students:      maps.Clone(t.students),
		courses:       maps.Clone(t.courses),
		assignments:   maps.Clone(t.assignments),
		submissions:   maps.Clone(t.submissions),
		attendance:    maps.Clone(t.attendance),
		leaves:        maps.Clone(t.leaves),
		notifications: maps.Clone(t.notifications),
		reports:       maps.Clone(t.reports),
	}
}

// DB holds every table. Transactions are serialized by txMu and rolled back by
// restoring a snapshot of the tables.
type DB struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	tables
}

var _ core.Transactor = (*DB)(nil)

func Open() *DB {
	return &DB{tables: tables{
		users:         make(map[string]user.User),
		teachers:      make(map[string]teacher.Teacher),
		students:      make(map[string]student.Student),
		courses:       make(map[string]course.Course),
		assignments:   make(map[string]assignment.Assignment),
		submissions:   make(map[string]assignment.Submission),
		attendance:    make(map[string]attendance.Attendance),
		leaves:        make(map[string]leave.Leave),
		notifications: make(map[string]notification.Notification),
		reports:       make(map[string]report.Report),
	}}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	db.txMu.Lock()
	defer db.txMu.Unlock()

	db.mu.RLock()
	snapshot := db.tables.clone()
	db.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		db.mu.Lock()
		db.tables = snapshot
		db.mu.Unlock()
		return err
	}
	return nil
}

// write runs fn holding the write lock; outside of a transaction it also waits for running transactions.
func (db *DB) write(ctx context.Context, fn func() error) error {
	if !inTx(ctx) {
		db.txMu.Lock()
		defer db.txMu.Unlock()
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn()
}

func (db *DB) read(fn func() error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn()
}

// isEnrolled must be called holding a lock.
func (db *DB) isEnrolled(studentID, courseID string) bool {
	for _, a := range db.attendance {
		if a.StudentID == studentID && a.CourseID == courseID {
			return true
		}
	}
	return false
}

// enrolledCourses must be called holding a lock.
func (db *DB) enrolledCourses(studentID string) map[string]bool {
	ids := make(map[string]bool)
	for _, a := range db.attendance {
		if a.StudentID == studentID {
			ids[a.CourseID] = true
		}
	}
	return ids
}

// teacherCourses must be called holding a lock.
func (db *DB) teacherCourses(teacherID string) map[string]bool {
	ids := make(map[string]bool)
	for _, c := range db.courses {
		if c.TeacherID.Valid && c.TeacherID.String == teacherID {
			ids[c.ID] = true
		}
	}
	return ids
}

// teacherStudents must be called holding a lock.
func (db *DB) teacherStudents(teacherID string) map[string]bool {
	courses := db.teacherCourses(teacherID)
	ids := make(map[string]bool)
	for _, a := range db.attendance {
		if courses[a.CourseID] {
			ids[a.StudentID] = true
		}
	}
	return ids
}

func contains(value, search string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(search))
}

// fielder returns the value of a column for ordering.
type fielder[T any] func(item T, column string) interface{}

// list orders items by opts.Ordering (then id) and returns the requested page and the total.
func list[T any](items []T, opts core.ListOptions, field fielder[T]) ([]T, int) {
	sort.SliceStable(items, func(i, j int) bool {
		for _, ord := range opts.Ordering {
			c := compare(field(items[i], ord.Field), field(items[j], ord.Field))
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return compare(field(items[i], "id"), field(items[j], "id")) < 0
	})

	start, end := opts.Pagination.PageBounds(len(items))
	page := make([]T, 0, end-start)
	page = append(page, items[start:end]...)
	return page, len(items)
}

// compare orders values of the same type; nulls sort first.
func compare(a, b interface{}) int {
	switch x := a.(type) {
	case string:
		return strings.Compare(x, b.(string))
	case int:
		return cmpOrdered(x, b.(int))
	case float64:
		return cmpOrdered(x, b.(float64))
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case time.Time:
		return x.Compare(b.(time.Time))
	case core.Date:
		return x.Time.Compare(b.(core.Date).Time)
	case null.Float64:
		y := b.(null.Float64)
		if !x.Valid || !y.Valid {
			return cmpOrdered(boolInt(x.Valid), boolInt(y.Valid))
		}
		return cmpOrdered(x.Float64, y.Float64)
	case null.Time:
		y := b.(null.Time)
		if !x.Valid || !y.Valid {
			return cmpOrdered(boolInt(x.Valid), boolInt(y.Valid))
		}
		return x.Time.Compare(y.Time)
	}
	return 0
}

func cmpOrdered[T int | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

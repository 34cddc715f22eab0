// Package testutil wires every service on a test store and creates fixtures.
package testutil

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/core/assignment"
	"github.com/sudais-khan12/LMS-sub002/core/attendance"
	"github.com/sudais-khan12/LMS-sub002/core/course"
	"github.com/sudais-khan12/LMS-sub002/core/leave"
	"github.com/sudais-khan12/LMS-sub002/core/notification"
	"github.com/sudais-khan12/LMS-sub002/core/report"
	"github.com/sudais-khan12/LMS-sub002/core/settings"
	"github.com/sudais-khan12/LMS-sub002/core/student"
	"github.com/sudais-khan12/LMS-sub002/core/teacher"
	"github.com/sudais-khan12/LMS-sub002/core/user"
	emailsvc "github.com/sudais-khan12/LMS-sub002/services/email"
	logsvc "github.com/sudais-khan12/LMS-sub002/services/logger"
	inmemdb "github.com/sudais-khan12/LMS-sub002/storage/database/inmem"
)

const Password = "Str0ng!pass"

// Env holds every service wired on a fresh store.
type Env struct {
	Conf       *core.Config
	Logger     core.Logger
	DB         *inmemdb.DB // nil unless built by NewEnv
	Mail       *emailsvc.ConsoleServiceMock
	Settings   *settings.Store
	Validate   *validator.Validate
	Translator ut.Translator

	UserRepo  user.Repository
	NotifRepo notification.Repository

	Resolver    *access.Resolver
	Users       *user.Service
	Teachers    *teacher.Service
	Students    *student.Service
	Courses     *course.Service
	Assignments *assignment.Service
	Attendance  *attendance.Service
	Leaves      *leave.Service
	Reports     *report.Service
	Dispatcher  *notification.Dispatcher
}

// Stores are the repositories an Env is built on.
type Stores struct {
	Tx            core.Transactor
	Access        access.Store
	Users         user.Repository
	Teachers      teacher.Repository
	Students      student.Repository
	Courses       course.Repository
	Assignments   assignment.Repository
	Attendance    attendance.Repository
	Leaves        leave.Repository
	Notifications notification.Repository
	Reports       report.Repository
	Stats         report.StatsReader
}

func InMemStores(db *inmemdb.DB) Stores {
	return Stores{
		Tx:            db,
		Access:        inmemdb.NewAccessStore(db),
		Users:         inmemdb.NewUserRepository(db),
		Teachers:      inmemdb.NewTeacherRepository(db),
		Students:      inmemdb.NewStudentRepository(db),
		Courses:       inmemdb.NewCourseRepository(db),
		Assignments:   inmemdb.NewAssignmentRepository(db),
		Attendance:    inmemdb.NewAttendanceRepository(db),
		Leaves:        inmemdb.NewLeaveRepository(db),
		Notifications: inmemdb.NewNotificationRepository(db),
		Reports:       inmemdb.NewReportRepository(db),
		Stats:         inmemdb.NewStatsReader(db),
	}
}

// NewEnv wires every service on a fresh in-memory store.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	db := inmemdb.Open()
	env := NewEnvWith(t, InMemStores(db))
	env.DB = db
	return env
}

func NewEnvWith(t *testing.T, s Stores) *Env {
	t.Helper()

	conf := core.NewTestConfig()
	logger := logsvc.NewNopLogger()
	mail := emailsvc.NewConsoleServiceMock(conf, logger)
	store := settings.NewStore(settings.Defaults(conf.AppName))
	validate, translator := NewValidator()

	env := &Env{
		Conf:       conf,
		Logger:     logger,
		Mail:       mail,
		Settings:   store,
		Validate:   validate,
		Translator: translator,
		UserRepo:   s.Users,
		NotifRepo:  s.Notifications,
	}

	env.Resolver = access.NewResolver(s.Access)
	env.Users = user.NewService(s.Users, mail, conf)
	env.Teachers = teacher.NewService(s.Teachers, env.Users, s.Tx)
	env.Students = student.NewService(s.Students, env.Users, s.Tx)
	env.Courses = course.NewService(s.Courses, s.Tx)
	env.Dispatcher = notification.NewDispatcher(s.Notifications, env.Users, mail, store, logger)
	env.Assignments = assignment.NewService(s.Assignments, s.Tx, store, env.Dispatcher, logger)
	env.Attendance = attendance.NewService(s.Attendance)
	env.Leaves = leave.NewService(s.Leaves, s.Tx, env.Users, env.Dispatcher, logger)
	env.Reports = report.NewService(s.Reports, s.Stats, env.Dispatcher)
	return env
}

var templatesOnce sync.Once

// ParseTemplates parses the email templates once per test binary.
func ParseTemplates(conf *core.Config, logger core.Logger) {
	templatesOnce.Do(func() { core.ParseEmailTemplates(conf, logger) })
}

func NewValidator() (*validator.Validate, ut.Translator) {
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)
	leave.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        core.NewID(),
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func (env *Env) CreateAdmin(t *testing.T, uname string) user.User {
	t.Helper()
	return CreateUser(t, env.UserRepo, strings.ToUpper(uname[:1])+uname[1:], uname, uname+"@test.lms", Password, user.RoleAdmin, true)
}

func (env *Env) CreateTeacher(t *testing.T, uname string) teacher.Teacher {
	t.Helper()
	tchr, err := env.Teachers.Create(context.Background(), teacher.NewTeacher{
		NewUser: user.NewUser{
			Name:     strings.ToUpper(uname[:1]) + uname[1:],
			Email:    uname + "@test.lms",
			Username: uname,
			Password: Password,
			Role:     user.RoleTeacher,
		},
		Specialization: "Mathematics",
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tchr
}

func (env *Env) CreateStudent(t *testing.T, uname, enrollmentNo string) student.Student {
	t.Helper()
	s, err := env.Students.Create(context.Background(), student.NewStudent{
		NewUser: user.NewUser{
			Name:     strings.ToUpper(uname[:1]) + uname[1:],
			Email:    uname + "@test.lms",
			Username: uname,
			Password: Password,
			Role:     user.RoleStudent,
		},
		EnrollmentNo: enrollmentNo,
		Semester:     1,
		Section:      "A",
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

// CreateCourse creates a course taught by teacherID (unassigned when empty).
func (env *Env) CreateCourse(t *testing.T, code, title, teacherID string) course.Course {
	t.Helper()
	c, err := env.Courses.Create(context.Background(), course.NewCourse{Title: title, Code: code, TeacherID: teacherID})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return c
}

// Enroll marks the student in the course, which is what enrollment means.
func (env *Env) Enroll(t *testing.T, studentID, courseID string, date core.Date, status string) attendance.Attendance {
	t.Helper()
	a, _, err := env.Attendance.Mark(context.Background(), attendance.MarkAttendance{
		StudentID: studentID,
		CourseID:  courseID,
		Date:      date,
		Status:    status,
	})
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	return a
}

func (env *Env) CreateAssignment(t *testing.T, courseID, title string, due time.Time) assignment.Assignment {
	t.Helper()
	a, err := env.Assignments.Create(context.Background(), assignment.NewAssignment{Title: title, CourseID: courseID, DueDate: due})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return a
}

// TeacherActor returns the authenticated caller for a teacher profile.
func TeacherActor(t teacher.Teacher) access.Actor {
	return access.Actor{UserID: t.UserID, Role: user.RoleTeacher, Name: t.Name, Email: t.Email, TeacherID: t.ID}
}

func StudentActor(s student.Student) access.Actor {
	return access.Actor{UserID: s.UserID, Role: user.RoleStudent, Name: s.Name, Email: s.Email, StudentID: s.ID}
}

func AdminActor(usr user.User) access.Actor {
	return access.Actor{UserID: usr.ID, Role: user.RoleAdmin, Name: usr.Name, Email: usr.Email}
}

// Notifications returns every notification of userID, newest first.
func (env *Env) Notifications(t *testing.T, userID string) []notification.Notification {
	t.Helper()
	ns, _, err := env.Dispatcher.Query(context.Background(), notification.QueryFilter{UserID: userID}, core.DefaultListOptions())
	if err != nil {
		t.Fatalf("Notifications() failed: %v", err)
	}
	return ns
}

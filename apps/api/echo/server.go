package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

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
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool
		// HealthCheck reports whether the storage is reachable.
		HealthCheck func(ctx context.Context) error

		Validate   *validator.Validate
		Translator ut.Translator
		Resolver   *access.Resolver
		Settings   *settings.Store

		UserSvc       *user.Service
		TeacherSvc    *teacher.Service
		StudentSvc    *student.Service
		CourseSvc     *course.Service
		AssignmentSvc *assignment.Service
		AttendanceSvc *attendance.Service
		LeaveSvc      *leave.Service
		ReportSvc     *report.Service
		Dispatcher    *notification.Dispatcher
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(metricsMiddleware)

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)

	s.app.GET("/", s.home)
	s.app.GET("/healthz", s.health)

	jwt := middleware.JWTWithConfig(newJWTConfig(conf))
	authed := []echo.MiddlewareFunc{jwt, actorMiddleware(s.deps.UserSvc, s.deps.TeacherSvc, s.deps.StudentSvc)}

	shared := s.app.Group("/api")
	adminG := s.app.Group("/admin", append(authed, roleMiddleware(user.RoleAdmin))...)
	teacherG := s.app.Group("/teacher", append(authed, roleMiddleware(user.RoleTeacher))...)
	studentG := s.app.Group("/student", append(authed, roleMiddleware(user.RoleStudent))...)

	b := base{
		validate: s.deps.Validate,
		resolver: s.deps.Resolver,
		logger:   s.deps.Logger,
	}

	registerAuthAPI(shared, authed, b, s.deps)
	me := shared.Group("", authed...)

	users := userApi{base: b, svc: s.deps.UserSvc}
	users.register(adminG)

	teachers := teacherApi{base: b, svc: s.deps.TeacherSvc}
	teachers.register(adminG, true)
	teachers.register(teacherG, false)
	teachers.register(studentG, false)

	students := studentApi{base: b, svc: s.deps.StudentSvc}
	students.register(adminG, true)
	students.register(teacherG, false)

	courses := courseApi{base: b, svc: s.deps.CourseSvc, reports: s.deps.ReportSvc}
	courses.register(adminG, true)
	courses.register(teacherG, true)
	courses.register(studentG, false)

	assignments := assignmentApi{base: b, svc: s.deps.AssignmentSvc}
	assignments.register(teacherG, true)
	assignments.register(studentG, false)
	assignments.registerSubmissions(teacherG, true)
	assignments.registerSubmissions(studentG, false)

	att := attendanceApi{base: b, svc: s.deps.AttendanceSvc}
	att.register(teacherG, true)
	att.register(studentG, false)

	leaves := leaveApi{base: b, svc: s.deps.LeaveSvc}
	leaves.registerShared(me)
	leaves.register(adminG, false, true)
	leaves.register(teacherG, true, true)
	leaves.register(studentG, true, false)

	notifs := notificationApi{base: b, svc: s.deps.Dispatcher}
	notifs.registerShared(me)
	adminG.POST("/notifications", notifs.broadcast)

	reports := reportApi{base: b, svc: s.deps.ReportSvc}
	reports.register(adminG, true)
	reports.register(studentG, false)
	adminG.GET("/dashboard", reports.adminDashboard)
	teacherG.GET("/dashboard", reports.teacherDashboard)
	studentG.GET("/dashboard", reports.studentDashboard)

	sets := settingsApi{base: b, store: s.deps.Settings}
	me.GET("/settings", sets.retrieve)
	adminG.GET("/settings", sets.retrieve)
	adminG.PUT("/settings", sets.update)
}

// Start listens on the configured address; a failure is sent on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

// Errors receives the error that stopped the server.
func (s *Server) Errors() <-chan error { return s.errors }

// ShutdownSignal receives SIGINT, SIGTERM and internal shutdown requests.
func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown asks the server owner to shut down gracefully.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, echo.Map{"message": "Welcome to " + s.deps.Conf.AppName + " API!"})
}

func (s *Server) health(ctx echo.Context) error {
	if s.deps.HealthCheck != nil {
		if err := s.deps.HealthCheck(ctx.Request().Context()); err != nil {
			s.deps.Logger.Error("health check failed", err)
			return ctx.JSON(http.StatusServiceUnavailable, errorResponse{Error: "database unavailable"})
		}
	}
	return respond(ctx, http.StatusOK, echo.Map{"status": "ok", "build": s.deps.Conf.Build})
}

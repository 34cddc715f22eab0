package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	echoapi "github.com/sudais-khan12/LMS-sub002/apps/api/echo"
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
	"github.com/sudais-khan12/LMS-sub002/storage/database"
	inmemdb "github.com/sudais-khan12/LMS-sub002/storage/database/inmem"
	boiledrepos "github.com/sudais-khan12/LMS-sub002/storage/database/sqlboiler"
	sqlxrepos "github.com/sudais-khan12/LMS-sub002/storage/database/sqlx"
)

// storage is every repository the services are built on.
type storage struct {
	tx          core.Transactor
	access      access.Store
	users       user.Repository
	teachers    teacher.Repository
	students    student.Repository
	courses     course.Repository
	assignments assignment.Repository
	attendance  attendance.Repository
	leaves      leave.Repository
	notifs      notification.Repository
	reports     report.Repository
	stats       report.StatsReader
	health      func(ctx context.Context) error
	close       func() error
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	zapLogger, err := logsvc.NewZapLogger(conf, "api")
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}
	defer zapLogger.Sync()

	rollbarLogger := logsvc.NewRollbarLogger(zapLogger, conf)
	rollbarLogger.Enable(!conf.Debug && conf.RollbarToken != "")

	logger, flush, err := logsvc.NewSentryLogger(rollbarLogger, conf)
	if err != nil {
		zapLogger.Error("setting up sentry", err)
	}
	defer flush()

	store, err := setUpStorage(conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer func() {
		if err := store.close(); err != nil {
			logger.Error("closing storage", err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	siteSettings := settings.NewStore(settings.Defaults(conf.AppName))

	usrSvc := user.NewService(store.users, mailSvc, conf)
	dispatcher := notification.NewDispatcher(store.notifs, usrSvc, mailSvc, siteSettings, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)
	leave.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Prometheus collectors.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	http.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		HealthCheck:   store.health,
		Validate:      validate,
		Translator:    translator,
		Resolver:      access.NewResolver(store.access),
		Settings:      siteSettings,
		UserSvc:       usrSvc,
		TeacherSvc:    teacher.NewService(store.teachers, usrSvc, store.tx),
		StudentSvc:    student.NewService(store.students, usrSvc, store.tx),
		CourseSvc:     course.NewService(store.courses, store.tx),
		AssignmentSvc: assignment.NewService(store.assignments, store.tx, siteSettings, dispatcher, logger),
		AttendanceSvc: attendance.NewService(store.attendance),
		LeaveSvc:      leave.NewService(store.leaves, store.tx, usrSvc, dispatcher, logger),
		ReportSvc:     report.NewService(store.reports, store.stats, dispatcher),
		Dispatcher:    dispatcher,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpStorage opens postgres (creating and migrating it as needed) unless the "memory" engine is configured.
func setUpStorage(conf *core.Config, logger core.Logger) (*storage, error) {
	if conf.Database.Engine == "memory" {
		logger.Warn("using the in-memory database: data is lost on restart")
		db := inmemdb.Open()
		return &storage{
			tx:          db,
			access:      inmemdb.NewAccessStore(db),
			users:       inmemdb.NewUserRepository(db),
			teachers:    inmemdb.NewTeacherRepository(db),
			students:    inmemdb.NewStudentRepository(db),
			courses:     inmemdb.NewCourseRepository(db),
			assignments: inmemdb.NewAssignmentRepository(db),
			attendance:  inmemdb.NewAttendanceRepository(db),
			leaves:      inmemdb.NewLeaveRepository(db),
			notifs:      inmemdb.NewNotificationRepository(db),
			reports:     inmemdb.NewReportRepository(db),
			stats:       inmemdb.NewStatsReader(db),
			health:      func(context.Context) error { return nil },
			close:       func() error { return nil },
		}, nil
	}

	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &storage{
		tx:          database.NewTxManager(db),
		access:      sqlxrepos.NewAccessStore(db),
		users:       sqlxrepos.NewUserRepository(db),
		teachers:    sqlxrepos.NewTeacherRepository(db),
		students:    sqlxrepos.NewStudentRepository(db),
		courses:     sqlxrepos.NewCourseRepository(db),
		assignments: sqlxrepos.NewAssignmentRepository(db),
		attendance:  sqlxrepos.NewAttendanceRepository(db),
		leaves:      sqlxrepos.NewLeaveRepository(db),
		notifs:      sqlxrepos.NewNotificationRepository(db),
		reports:     sqlxrepos.NewReportRepository(db),
		stats:       boiledrepos.NewStatsReader(db),
		health:      func(ctx context.Context) error { return database.StatusCheck(ctx, db) },
		close:       db.Close,
	}, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

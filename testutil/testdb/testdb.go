//go:build testutil
// +build testutil

// Package testdb starts a disposable PostgreSQL container with the app migrations applied.
package testdb

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/sudais-khan12/LMS-sub002/storage/database"
	boiledrepos "github.com/sudais-khan12/LMS-sub002/storage/database/sqlboiler"
	sqlxrepos "github.com/sudais-khan12/LMS-sub002/storage/database/sqlx"
	"github.com/sudais-khan12/LMS-sub002/testutil"
)

type DBHandle struct {
	DB     *sqlx.DB
	cancel func()
	stop   func(context.Context) error
}

func (h *DBHandle) Close() {
	if h.DB != nil {
		_ = h.DB.Close()
	}
	if h.stop != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.stop(ctx)
	}
	if h.cancel != nil {
		h.cancel()
	}
}

// Start runs a postgres container and migrates it up.
func Start(ctx context.Context) (*DBHandle, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("lms"),
		postgres.WithUsername("lms"),
		postgres.WithPassword("lms"),
	)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "starting postgres")
	}
	h := &DBHandle{cancel: cancel, stop: pg.Terminate}

	uri, err := pg.ConnectionString(ctx, "sslmode=disable", "timezone=utc")
	if err != nil {
		h.Close()
		return nil, errors.Wrap(err, "reading connection string")
	}
	if h.DB, err = sqlx.Open("postgres", uri); err != nil {
		h.Close()
		return nil, errors.Wrap(err, "opening database")
	}
	if err = waitReady(ctx, h.DB); err != nil {
		h.Close()
		return nil, err
	}
	if err = database.Migrate(h.DB.DB); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}

func waitReady(ctx context.Context, db *sqlx.DB) error {
	dead := time.Now().Add(20 * time.Second)
	for time.Now().Before(dead) {
		if err := database.StatusCheck(ctx, db); err == nil {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return errors.New("db not ready")
}

// Stores returns the postgres repositories over db.
func Stores(db *sqlx.DB) testutil.Stores {
	return testutil.Stores{
		Tx:            database.NewTxManager(db),
		Access:        sqlxrepos.NewAccessStore(db),
		Users:         sqlxrepos.NewUserRepository(db),
		Teachers:      sqlxrepos.NewTeacherRepository(db),
		Students:      sqlxrepos.NewStudentRepository(db),
		Courses:       sqlxrepos.NewCourseRepository(db),
		Assignments:   sqlxrepos.NewAssignmentRepository(db),
		Attendance:    sqlxrepos.NewAttendanceRepository(db),
		Leaves:        sqlxrepos.NewLeaveRepository(db),
		Notifications: sqlxrepos.NewNotificationRepository(db),
		Reports:       sqlxrepos.NewReportRepository(db),
		Stats:         boiledrepos.NewStatsReader(db),
	}
}

// NewEnv starts a container for the test and wires every service on it.
func NewEnv(t *testing.T) *testutil.Env {
	t.Helper()
	h, err := Start(context.Background())
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(h.Close)
	return testutil.NewEnvWith(t, Stores(h.DB))
}

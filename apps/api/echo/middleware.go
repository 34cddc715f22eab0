package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/core/student"
	"github.com/sudais-khan12/LMS-sub002/core/teacher"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lms", Name: "http_requests_total", Help: "HTTP requests, by route and status",
	}, []string{"method", "route", "code"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lms", Name: "http_request_duration_seconds", Help: "HTTP request latency, by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration)
}

func metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		err := next(ctx)

		code := ctx.Response().Status
		if err != nil {
			// the error handler has not run yet
			if herr, ok := errors.Cause(err).(*echo.HTTPError); ok {
				code = herr.Code
			} else {
				code, _ = httpError(err, nil)
			}
		}
		route, method := ctx.Path(), ctx.Request().Method
		httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

// actorMiddleware loads the caller behind the JWT. Deleted or deactivated users are rejected.
func actorMiddleware(users *user.Service, teachers *teacher.Service, students *student.Service) echo.MiddlewareFunc {
	p := profiles{teachers: teachers, students: students}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}

			rctx := ctx.Request().Context()
			usr, err := users.GetByID(rctx, claims.Subject)
			if err != nil {
				if core.IsNotFound(err) {
					return core.ErrUnauthenticated
				}
				return errors.Wrap(err, "finding user by ID")
			}
			if !usr.IsActive {
				return errAccountDeactivated
			}

			teacherID, studentID, err := p.ids(rctx, usr)
			if err != nil {
				return err
			}
			ctx.Set(actorContextKey, access.Actor{
				UserID:    usr.ID,
				Role:      usr.Role,
				Name:      usr.Name,
				Email:     usr.Email,
				TeacherID: teacherID,
				StudentID: studentID,
			})
			return next(ctx)
		}
	}
}

// roleMiddleware lets through actors holding role only.
func roleMiddleware(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			actor, err := mustActor(ctx)
			if err != nil {
				return err
			}
			if actor.Role != role {
				return core.ErrForbidden
			}
			return next(ctx)
		}
	}
}

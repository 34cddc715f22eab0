package echoapi_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/sudais-khan12/LMS-sub002/apps/api/echo"
	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/attendance"
	"github.com/sudais-khan12/LMS-sub002/core/course"
	"github.com/sudais-khan12/LMS-sub002/core/student"
	"github.com/sudais-khan12/LMS-sub002/core/teacher"
	"github.com/sudais-khan12/LMS-sub002/core/user"
	"github.com/sudais-khan12/LMS-sub002/testutil"
)

// campus: tom teaches Calculus, ann teaches Biology; amina attends Calculus, bilal attends nothing.
type campus struct {
	env *testutil.Env
	app *Server

	admin        user.User
	tom, ann     teacher.Teacher
	amina, bilal student.Student
	calc, bio    course.Course

	adminToken, tomToken, annToken, aminaToken, bilalToken string
}

func newCampus(t *testing.T) *campus {
	t.Helper()
	env := testutil.NewEnv(t)
	c := &campus{env: env, app: newApp(env)}

	c.admin = env.CreateAdmin(t, "admin")
	c.tom = env.CreateTeacher(t, "tom")
	c.ann = env.CreateTeacher(t, "ann")
	c.amina = env.CreateStudent(t, "amina", "ENR-001")
	c.bilal = env.CreateStudent(t, "bilal", "ENR-002")
	c.calc = env.CreateCourse(t, "MATH101", "Calculus", c.tom.ID)
	c.bio = env.CreateCourse(t, "BIO101", "Biology", c.ann.ID)
	env.Enroll(t, c.amina.ID, c.calc.ID, core.NewDate(2025, time.March, 3), attendance.StatusPresent)

	c.adminToken = getToken(t, env.Conf, c.admin)
	c.tomToken = c.token(t, c.tom.UserID, c.tom.ID)
	c.annToken = c.token(t, c.ann.UserID, c.ann.ID)
	c.aminaToken = c.token(t, c.amina.UserID, c.amina.ID)
	c.bilalToken = c.token(t, c.bilal.UserID, c.bilal.ID)
	return c
}

func (c *campus) token(t *testing.T, userID, profileID string) string {
	t.Helper()
	usr, err := c.env.Users.GetByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("token(): %v", err)
	}
	return getToken(t, c.env.Conf, usr, profileID)
}

// do serves one request and returns the recorder.
func (c *campus) do(method, path, token string, body ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, body...)
	c.app.ServeHTTP(rec, req)
	return rec
}

var errForbidden = httpErr{Error: "permission denied"}

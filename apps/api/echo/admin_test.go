package echoapi_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	. "github.com/sudais-khan12/LMS-sub002/apps/api/echo"
	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/notification"
	"github.com/sudais-khan12/LMS-sub002/core/report"
	"github.com/sudais-khan12/LMS-sub002/core/settings"
	"github.com/sudais-khan12/LMS-sub002/core/student"
	"github.com/sudais-khan12/LMS-sub002/core/teacher"
	"github.com/sudais-khan12/LMS-sub002/core/user"
	"github.com/sudais-khan12/LMS-sub002/testutil"
)

func Test_userApi(t *testing.T) {
	c := newCampus(t)

	newUser := []byte(`{"name":"Zed","email":"zed@test.lms","username":"zed","password":"Str0ng!pass","passwordConfirm":"Str0ng!pass","role":"ADMIN"}`)
	rec := c.do(http.MethodPost, "/admin/users", c.adminToken, newUser)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var zed user.User
	decodeData(t, rec, &zed)

	runHTTPTests(t, c.app, []httpTest{
		{name: "email taken", method: http.MethodPost, path: "/admin/users", token: c.adminToken, body: newUser,
			wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "a user with this email already exists"})},
		{name: "weak password", method: http.MethodPost, path: "/admin/users", token: c.adminToken,
			body:     []byte(`{"name":"Y","email":"y@test.lms","username":"yyy","password":"12345678","passwordConfirm":"12345678","role":"ADMIN"}`),
			wantCode: http.StatusBadRequest},
		{name: "retrieve", path: "/admin/users/" + zed.ID, token: c.adminToken, wantCode: http.StatusOK, wantData: ok(t, zed)},
		{name: "role change", method: http.MethodPut, path: "/admin/users/" + c.tom.UserID, token: c.adminToken,
			body: []byte(`{"role":"STUDENT"}`), wantCode: http.StatusBadRequest},
		{name: "delete self", method: http.MethodDelete, path: "/admin/users/" + c.admin.ID, token: c.adminToken,
			wantCode: http.StatusForbidden},
		{name: "delete", method: http.MethodDelete, path: "/admin/users/" + zed.ID, token: c.adminToken, wantCode: http.StatusOK},
		{name: "deleted", path: "/admin/users/" + zed.ID, token: c.adminToken, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "user not found"})},
	})

	t.Run("query by role", func(t *testing.T) {
		rec := c.do(http.MethodGet, "/admin/users?role=TEACHER&ordering=username&limit=1", c.adminToken)
		require.Equal(t, http.StatusOK, rec.Code)
		var got pageResp[user.User]
		decodeData(t, rec, &got)
		assert.Equal(t, 2, got.Total)
		assert.Equal(t, 1, got.Limit)
		if assert.Len(t, got.Items, 1) {
			assert.Equal(t, "ann", got.Items[0].Username)
		}
	})
}

func Test_profileApi(t *testing.T) {
	c := newCampus(t)

	rec := c.do(http.MethodPost, "/admin/teachers", c.adminToken,
		[]byte(`{"name":"Kim","email":"kim@test.lms","username":"kim","password":"Str0ng!pass","passwordConfirm":"Str0ng!pass","specialization":"Physics"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var kim teacher.Teacher
	decodeData(t, rec, &kim)
	assert.Equal(t, "Physics", kim.Specialization)
	assert.True(t, kim.IsActive)

	rec = c.do(http.MethodPut, "/admin/teachers/"+kim.ID, c.adminToken, []byte(`{"contact":"+1 555","isActive":false}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &kim)
	assert.Equal(t, "+1 555", kim.Contact)
	assert.False(t, kim.IsActive)

	rec = c.do(http.MethodPost, "/admin/students", c.adminToken,
		[]byte(`{"name":"Lea","email":"lea@test.lms","username":"lea","password":"Str0ng!pass","passwordConfirm":"Str0ng!pass","enrollmentNo":"ENR-001","semester":2}`))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusConflict,
		wantData: marchallObj(t, httpErr{Error: "a student with this enrollment number already exists"}),
	}, rec)

	runHTTPTests(t, c.app, []httpTest{
		{name: "teacher reads own student", path: "/teacher/students/" + c.amina.ID, token: c.tomToken, wantCode: http.StatusOK},
		{name: "teacher reads other student", path: "/teacher/students/" + c.bilal.ID, token: c.tomToken, wantCode: http.StatusForbidden},
		{name: "student reads a teacher", path: "/student/teachers/" + c.ann.ID, token: c.aminaToken, wantCode: http.StatusOK},
		{name: "teacher reads own profile", path: "/teacher/teachers/" + c.tom.ID, token: c.tomToken, wantCode: http.StatusOK},
		{name: "teacher reads another teacher", path: "/teacher/teachers/" + c.ann.ID, token: c.tomToken, wantCode: http.StatusForbidden},
		{name: "unknown teacher", path: "/admin/teachers/" + core.NewID(), token: c.adminToken, wantCode: http.StatusNotFound},
		{name: "delete teacher", method: http.MethodDelete, path: "/admin/teachers/" + kim.ID, token: c.adminToken, wantCode: http.StatusOK},
	})

	t.Run("teacher lists own students", func(t *testing.T) {
		rec := c.do(http.MethodGet, "/teacher/students", c.tomToken)
		var got pageResp[student.Student]
		decodeData(t, rec, &got)
		if assert.Equal(t, 1, got.Total) {
			assert.Equal(t, c.amina.ID, got.Items[0].ID)
		}
	})
}

func Test_reportApi(t *testing.T) {
	c := newCampus(t)

	rec := c.do(http.MethodPost, "/admin/reports", c.adminToken,
		[]byte(`{"studentId":"`+c.amina.ID+`","semester":1,"gpa":3.5,"credits":18,"remarks":"Dean's list"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var r report.Report
	decodeData(t, rec, &r)
	assert.Equal(t, "ENR-001", r.EnrollmentNo)

	runHTTPTests(t, c.app, []httpTest{
		{name: "gpa out of range", method: http.MethodPost, path: "/admin/reports", token: c.adminToken,
			body: []byte(`{"studentId":"` + c.amina.ID + `","semester":1,"gpa":4.5}`), wantCode: http.StatusBadRequest},
		{name: "unknown student", method: http.MethodPost, path: "/admin/reports", token: c.adminToken,
			body: []byte(`{"studentId":"` + c.tom.ID + `","semester":1,"gpa":3}`), wantCode: http.StatusNotFound},
		{name: "own reports", path: "/student/reports", token: c.aminaToken, wantCode: http.StatusOK, wantData: page(t, 1, r)},
		{name: "others' reports", path: "/student/reports?studentId=" + c.amina.ID, token: c.bilalToken, wantCode: http.StatusOK,
			wantData: page(t, 0)},
		{name: "update", method: http.MethodPut, path: "/admin/reports/" + r.ID, token: c.adminToken,
			body: []byte(`{"credits":20}`), wantCode: http.StatusOK},
	})

	t.Run("export", func(t *testing.T) {
		rec := c.do(http.MethodGet, "/admin/reports/export", c.adminToken)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Reports")
		require.NoError(t, err)
		if assert.Len(t, rows, 2) {
			assert.Equal(t, []string{"ENR-001", "Amina", "1", "3.50", "20", "Dean's list"}, rows[1][:6])
		}
	})
}

func Test_dashboards(t *testing.T) {
	c := newCampus(t)

	rec := c.do(http.MethodGet, "/admin/dashboard", c.adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var admin report.AdminDashboard
	decodeData(t, rec, &admin)
	assert.Equal(t, report.Totals{Users: 5, Admins: 1, Teachers: 2, Students: 2, Courses: 2}, admin.Totals)
	assert.Equal(t, float64(100), admin.AttendanceRate)

	rec = c.do(http.MethodGet, "/teacher/dashboard", c.tomToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tchr report.TeacherDashboard
	decodeData(t, rec, &tchr)
	assert.Len(t, tchr.Courses, 1)

	rec = c.do(http.MethodGet, "/student/dashboard", c.aminaToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var stdt report.StudentDashboard
	decodeData(t, rec, &stdt)
	assert.Equal(t, float64(100), stdt.AttendanceRate)
}

func Test_settingsApi(t *testing.T) {
	c := newCampus(t)

	runHTTPTests(t, c.app, []httpTest{
		{name: "shared read", path: "/api/settings", token: c.aminaToken, wantCode: http.StatusOK,
			wantData: ok(t, settings.Defaults("LMS"))},
		{name: "teacher cannot update", method: http.MethodPut, path: "/admin/settings", token: c.tomToken,
			body: []byte(`{"currentSemester":2}`), wantCode: http.StatusForbidden},
		{name: "invalid", method: http.MethodPut, path: "/admin/settings", token: c.adminToken,
			body: []byte(`{"currentSemester":13}`), wantCode: http.StatusBadRequest},
		{name: "update", method: http.MethodPut, path: "/admin/settings", token: c.adminToken,
			body: []byte(`{"currentSemester":2,"allowLateSubmissions":false}`), wantCode: http.StatusOK,
			wantData: ok(t, settings.Settings{SiteName: "LMS", CurrentSemester: 2})},
	})
	assert.False(t, c.env.Settings.AllowLateSubmissions())
}

func Test_notificationApi(t *testing.T) {
	c := newCampus(t)

	runHTTPTests(t, c.app, []httpTest{
		{name: "needs recipients", method: http.MethodPost, path: "/admin/notifications", token: c.adminToken,
			body: []byte(`{"title":"Hi"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "validation failed", Details: map[string]string{
				"userIds": "one of userIds or role is required",
			}})},
		{name: "broadcast to students", method: http.MethodPost, path: "/admin/notifications", token: c.adminToken,
			body: []byte(`{"title":"Exams","body":"Exams start Monday","role":"STUDENT"}`), wantCode: http.StatusCreated,
			wantData: ok(t, map[string]int{"sent": 2})},
		{name: "unread count", path: "/api/notifications/unread-count", token: c.aminaToken, wantCode: http.StatusOK,
			wantData: ok(t, map[string]int{"count": 1})},
		{name: "teacher got nothing", path: "/api/notifications", token: c.tomToken, wantCode: http.StatusOK, wantData: page(t, 0)},
	})

	ns := c.env.Notifications(t, c.amina.UserID)
	require.Len(t, ns, 1)

	runHTTPTests(t, c.app, []httpTest{
		{name: "not the owner", method: http.MethodPatch, path: "/api/notifications/" + ns[0].ID + "/read", token: c.bilalToken,
			wantCode: http.StatusForbidden},
		{name: "mark read", method: http.MethodPatch, path: "/api/notifications/" + ns[0].ID + "/read", token: c.aminaToken,
			wantCode: http.StatusOK},
		{name: "read all", method: http.MethodPatch, path: "/api/notifications/read-all", token: c.bilalToken,
			wantCode: http.StatusOK, wantData: ok(t, map[string]int{"updated": 1})},
		{name: "nothing unread", path: "/api/notifications/unread-count", token: c.bilalToken, wantCode: http.StatusOK,
			wantData: ok(t, map[string]int{"count": 0})},
	})

	rec := c.do(http.MethodGet, "/api/notifications?isRead=true", c.aminaToken)
	var got pageResp[notification.Notification]
	decodeData(t, rec, &got)
	assert.Equal(t, 1, got.Total)
}

func TestServer_health(t *testing.T) {
	env := testutil.NewEnv(t)
	deps := func(check func(context.Context) error) ServerDeps {
		return ServerDeps{
			Conf: env.Conf, Logger: env.Logger, DisableReqLogs: true, HealthCheck: check,
			Validate: env.Validate, Translator: env.Translator, Resolver: env.Resolver, Settings: env.Settings,
			UserSvc: env.Users, TeacherSvc: env.Teachers, StudentSvc: env.Students, CourseSvc: env.Courses,
			AssignmentSvc: env.Assignments, AttendanceSvc: env.Attendance, LeaveSvc: env.Leaves,
			ReportSvc: env.Reports, Dispatcher: env.Dispatcher,
		}
	}

	req, rec := newRequest(http.MethodGet, "/healthz")
	NewServer(deps(func(context.Context) error { return nil })).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req, rec = newRequest(http.MethodGet, "/healthz")
	NewServer(deps(func(context.Context) error { return errors.New("connection refused") })).ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusServiceUnavailable, wantData: marchallObj(t, httpErr{Error: "database unavailable"}),
	}, rec)
}

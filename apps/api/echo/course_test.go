package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudais-khan12/LMS-sub002/core/course"
	"github.com/sudais-khan12/LMS-sub002/core/report"
)

func Test_roleGuard(t *testing.T) {
	c := newCampus(t)
	forbidden := marchallObj(t, errForbidden)

	runHTTPTests(t, c.app, []httpTest{
		{name: "no token", path: "/teacher/courses", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "invalid token", path: "/student/courses", token: "not.a.token", wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{name: "student on admin", path: "/admin/users", token: c.aminaToken, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "teacher on admin", path: "/admin/dashboard", token: c.tomToken, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "student on teacher", path: "/teacher/courses", token: c.aminaToken, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "admin on student", path: "/student/dashboard", token: c.adminToken, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "admin", path: "/admin/dashboard", token: c.adminToken, wantCode: http.StatusOK},
		{name: "welcome", path: "/", wantCode: http.StatusOK, wantData: ok(t, map[string]string{"message": "Welcome to LMS API!"})},
	})
}

func Test_courseApi(t *testing.T) {
	c := newCampus(t)

	t.Run("teacher lists own courses", func(t *testing.T) {
		rec := c.do(http.MethodGet, "/teacher/courses", c.tomToken)
		require.Equal(t, http.StatusOK, rec.Code)
		var got pageResp[course.Course]
		decodeData(t, rec, &got)
		assert.Equal(t, 1, got.Total)
		assert.Equal(t, 20, got.Limit)
		if assert.Len(t, got.Items, 1) {
			assert.Equal(t, c.calc.ID, got.Items[0].ID)
		}
	})

	t.Run("student lists enrolled courses", func(t *testing.T) {
		rec := c.do(http.MethodGet, "/student/courses", c.bilalToken)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: page(t, 0)}, rec)
	})

	runHTTPTests(t, c.app, []httpTest{
		{name: "other teacher's course", path: "/teacher/courses/" + c.bio.ID, token: c.tomToken, wantCode: http.StatusForbidden},
		{name: "unknown course", path: "/teacher/courses/" + c.tom.ID, token: c.tomToken, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "course not found"})},
		{name: "enrolled student reads course", path: "/student/courses/" + c.calc.ID, token: c.aminaToken, wantCode: http.StatusOK},
		{name: "not enrolled student", path: "/student/courses/" + c.calc.ID, token: c.bilalToken, wantCode: http.StatusForbidden},
		{name: "duplicate code", method: http.MethodPost, path: "/admin/courses", token: c.adminToken,
			body: []byte(`{"title":"Calculus II","code":"math101"}`), wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "a course with this code already exists"})},
	})

	t.Run("teacher creates own course", func(t *testing.T) {
		rec := c.do(http.MethodPost, "/teacher/courses", c.tomToken,
			[]byte(`{"title":"Algebra","code":"math102","teacherId":"`+c.ann.ID+`"}`))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var got course.Course
		decodeData(t, rec, &got)
		assert.Equal(t, "MATH102", got.Code)
		assert.Equal(t, c.tom.ID, got.TeacherID.String)
	})

	t.Run("teacher cannot reassign", func(t *testing.T) {
		rec := c.do(http.MethodPut, "/teacher/courses/"+c.calc.ID, c.tomToken,
			[]byte(`{"title":"Calculus I","teacherId":"`+c.ann.ID+`"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got course.Course
		decodeData(t, rec, &got)
		assert.Equal(t, "Calculus I", got.Title)
		assert.Equal(t, c.tom.ID, got.TeacherID.String)
	})

	t.Run("admin reassigns", func(t *testing.T) {
		rec := c.do(http.MethodPut, "/admin/courses/"+c.bio.ID, c.adminToken, []byte(`{"teacherId":"`+c.tom.ID+`"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got course.Course
		decodeData(t, rec, &got)
		assert.Equal(t, c.tom.ID, got.TeacherID.String)
	})

	t.Run("course report", func(t *testing.T) {
		rec := c.do(http.MethodGet, "/teacher/courses/"+c.calc.ID+"/report", c.tomToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got report.CourseReport
		decodeData(t, rec, &got)
		if assert.Len(t, got.Students, 1) {
			assert.Equal(t, c.amina.ID, got.Students[0].Student.ID)
			assert.Equal(t, float64(100), got.Students[0].AttendanceRate)
		}
	})
}

func Test_courseApi_removeStudent(t *testing.T) {
	c := newCampus(t)

	runHTTPTests(t, c.app, []httpTest{
		{name: "other teacher", method: http.MethodDelete, path: "/teacher/courses/" + c.calc.ID + "/students/" + c.amina.ID,
			token: c.annToken, wantCode: http.StatusForbidden},
		{name: "unknown student", method: http.MethodDelete, path: "/admin/courses/" + c.calc.ID + "/students/" + c.tom.ID,
			token: c.adminToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "student not found"})},
		{name: "unenroll", method: http.MethodDelete, path: "/teacher/courses/" + c.calc.ID + "/students/" + c.amina.ID,
			token: c.tomToken, wantCode: http.StatusOK,
			wantData: ok(t, course.Unenrollment{CourseID: c.calc.ID, StudentID: c.amina.ID, Attendance: 1})},
		{name: "no longer enrolled", path: "/student/courses/" + c.calc.ID, token: c.aminaToken, wantCode: http.StatusForbidden},
	})
}

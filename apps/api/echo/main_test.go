package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	. "github.com/sudais-khan12/LMS-sub002/apps/api/echo"
	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/user"
	"github.com/sudais-khan12/LMS-sub002/testutil"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type httpOK struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newApp(env *testutil.Env) *Server {
	return NewServer(ServerDeps{
		Conf:           env.Conf,
		Logger:         env.Logger,
		DisableReqLogs: true,
		Validate:       env.Validate,
		Translator:     env.Translator,
		Resolver:       env.Resolver,
		Settings:       env.Settings,
		UserSvc:        env.Users,
		TeacherSvc:     env.Teachers,
		StudentSvc:     env.Students,
		CourseSvc:      env.Courses,
		AssignmentSvc:  env.Assignments,
		AttendanceSvc:  env.Attendance,
		LeaveSvc:       env.Leaves,
		ReportSvc:      env.Reports,
		Dispatcher:     env.Dispatcher,
	})
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, conf *core.Config, usr user.User, profileID ...string) string {
	t.Helper()
	var teacherID, studentID string
	if len(profileID) > 0 {
		switch usr.Role {
		case user.RoleTeacher:
			teacherID = profileID[0]
		case user.RoleStudent:
			studentID = profileID[0]
		}
	}
	token, err := GenerateToken(conf, GetUserClaims(conf, usr, teacherID, studentID))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

// ok wraps data in the success envelope.
func ok(t *testing.T, data interface{}) []byte {
	return marchallObj(t, httpOK{Success: true, Data: data})
}

func page(t *testing.T, total int, items ...interface{}) []byte {
	if items == nil {
		items = []interface{}{}
	}
	return ok(t, core.NewPage(items, total, core.NewPagination(0, 0)))
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app *Server, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

// decodeData unmarshals the data of a success envelope into v.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decodeData(): %v; body %s", err, rec.Body.String())
	}
	if !resp.Success {
		t.Fatalf("decodeData(): not a success response: %s", rec.Body.String())
	}
	if err := json.Unmarshal(resp.Data, v); err != nil {
		t.Fatalf("decodeData(): %v", err)
	}
}

type pageResp[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}

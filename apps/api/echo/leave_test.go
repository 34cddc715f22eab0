package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudais-khan12/LMS-sub002/core/leave"
	"github.com/sudais-khan12/LMS-sub002/core/notification"
)

func newLeave(from, to string) []byte {
	return []byte(`{"type":"sick","fromDate":"` + from + `","toDate":"` + to + `","reason":"flu"}`)
}

func Test_leaveApi_create(t *testing.T) {
	c := newCampus(t)

	rec := c.do(http.MethodPost, "/student/leaves", c.aminaToken, newLeave("2025-04-01", "2025-04-03"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var l leave.Leave
	decodeData(t, rec, &l)
	assert.Equal(t, leave.StatusPending, l.Status)
	assert.Equal(t, "SICK", l.Type)
	assert.Equal(t, c.amina.ID, l.StudentID.String)

	// admins are told
	ns := c.env.Notifications(t, c.admin.ID)
	if assert.Len(t, ns, 1) {
		assert.Equal(t, notification.CategoryLeave, ns[0].Category)
	}

	runHTTPTests(t, c.app, []httpTest{
		{name: "overlap", method: http.MethodPost, path: "/student/leaves", token: c.aminaToken,
			body: newLeave("2025-04-03", "2025-04-05"), wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "the requested dates overlap another pending or approved leave request"})},
		{name: "inverted range", method: http.MethodPost, path: "/student/leaves", token: c.aminaToken,
			body: newLeave("2025-04-10", "2025-04-09"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "validation failed", Details: map[string]string{
				"toDate": "toDate must not be before fromDate",
			}})},
		{name: "second", method: http.MethodPost, path: "/student/leaves", token: c.aminaToken,
			body: newLeave("2025-05-01", "2025-05-01"), wantCode: http.StatusCreated},
		{name: "third", method: http.MethodPost, path: "/student/leaves", token: c.aminaToken,
			body: newLeave("2025-06-01", "2025-06-01"), wantCode: http.StatusCreated},
		{name: "fourth pending", method: http.MethodPost, path: "/student/leaves", token: c.aminaToken,
			body: newLeave("2025-07-01", "2025-07-01"), wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "at most 3 leave requests may be pending at once"})},
		{name: "someone else is not limited", method: http.MethodPost, path: "/student/leaves", token: c.bilalToken,
			body: newLeave("2025-04-01", "2025-04-03"), wantCode: http.StatusCreated},
	})

	t.Run("student lists own requests", func(t *testing.T) {
		rec := c.do(http.MethodGet, "/student/leaves?status=pending", c.aminaToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got pageResp[leave.Leave]
		decodeData(t, rec, &got)
		assert.Equal(t, 3, got.Total)
	})

	t.Run("bad status filter", func(t *testing.T) {
		rec := c.do(http.MethodGet, "/admin/leaves?status=maybe", c.adminToken)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_leaveApi_decide(t *testing.T) {
	c := newCampus(t)

	rec := c.do(http.MethodPost, "/student/leaves", c.aminaToken, newLeave("2025-04-01", "2025-04-03"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var l leave.Leave
	decodeData(t, rec, &l)

	rec = c.do(http.MethodPost, "/teacher/leaves", c.tomToken, newLeave("2025-04-01", "2025-04-02"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var own leave.Leave
	decodeData(t, rec, &own)
	assert.False(t, own.StudentID.Valid)

	t.Run("teacher sees own and own students' requests", func(t *testing.T) {
		rec := c.do(http.MethodGet, "/teacher/leaves", c.tomToken)
		var got pageResp[leave.Leave]
		decodeData(t, rec, &got)
		assert.Equal(t, 2, got.Total)

		rec = c.do(http.MethodGet, "/teacher/leaves", c.annToken)
		decodeData(t, rec, &got)
		assert.Equal(t, 0, got.Total)
	})

	runHTTPTests(t, c.app, []httpTest{
		{name: "not the student's teacher", method: http.MethodPatch, path: "/teacher/leaves/" + l.ID + "/approve",
			token: c.annToken, wantCode: http.StatusForbidden},
		{name: "own request", method: http.MethodPatch, path: "/teacher/leaves/" + own.ID + "/approve",
			token: c.tomToken, wantCode: http.StatusForbidden},
		{name: "other student reads", path: "/api/leaves/" + l.ID, token: c.bilalToken, wantCode: http.StatusForbidden},
		{name: "requester reads", path: "/api/leaves/" + l.ID, token: c.aminaToken, wantCode: http.StatusOK},
	})

	t.Run("teacher approves", func(t *testing.T) {
		rec := c.do(http.MethodPatch, "/teacher/leaves/"+l.ID+"/approve", c.tomToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got leave.Leave
		decodeData(t, rec, &got)
		assert.Equal(t, leave.StatusApproved, got.Status)
		assert.Equal(t, c.tom.UserID, got.ApproverID.String)

		ns := c.env.Notifications(t, c.amina.UserID)
		if assert.Len(t, ns, 1) {
			assert.Equal(t, "Leave request approved", ns[0].Title)
		}
	})

	runHTTPTests(t, c.app, []httpTest{
		{name: "decided twice", method: http.MethodPatch, path: "/admin/leaves/" + l.ID + "/reject", token: c.adminToken,
			wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "only pending leave requests can be changed"})},
		{name: "withdraw decided", method: http.MethodDelete, path: "/api/leaves/" + l.ID, token: c.aminaToken,
			wantCode: http.StatusConflict},
		{name: "admin rejects teacher request", method: http.MethodPatch, path: "/admin/leaves/" + own.ID + "/reject",
			token: c.adminToken, wantCode: http.StatusOK},
	})

	t.Run("withdraw pending", func(t *testing.T) {
		rec := c.do(http.MethodPost, "/student/leaves", c.aminaToken, newLeave("2025-05-01", "2025-05-01"))
		require.Equal(t, http.StatusCreated, rec.Code)
		var pending leave.Leave
		decodeData(t, rec, &pending)

		rec = c.do(http.MethodDelete, "/api/leaves/"+pending.ID, c.tomToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		rec = c.do(http.MethodDelete, "/api/leaves/"+pending.ID, c.aminaToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		rec = c.do(http.MethodGet, "/api/leaves/"+pending.ID, c.aminaToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

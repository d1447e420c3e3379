package mux

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_authRouter_unauthorized(t *testing.T) {
	m := NewMux("", time.Minute)

	m.authRouter.Path("/test").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, "OK")
	})

	ts := httptest.NewServer(m)
	defer ts.Close()

	var errObj errorResponse
	assertGet(t, ts, "/test", &errObj, 401)
	assert.Equal(t, "Unauthorized", errObj.Message)

	// a malformed bearer token must also be rejected
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/test", nil)
	assert.NoError(t, err)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, 401, resp.StatusCode)
}

func Test_roomRoutes_requireAuth(t *testing.T) {
	ts := httptest.NewServer(NewMux("", time.Minute))
	defer ts.Close()

	var errObj errorResponse
	assertPost(t, ts, "/room", nil, &errObj, 401)
	assertGet(t, ts, "/room/ABC123", &errObj, 401)
	assertPost(t, ts, "/room/ABC123/join", nil, &errObj, 401)
	assertGet(t, ts, "/room/ABC123/ws", &errObj, 401)

	// codes are six uppercase alphanumerics
	assertGet(t, ts, "/room/abc", nil, 404)
}

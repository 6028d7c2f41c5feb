package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kntgio-z/test-repo/internal/repo/memrepo"
	"github.com/kntgio-z/test-repo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memrepo.MemAccountRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := memrepo.New()
	h := NewAccountHandler(service.NewAccountService(repo, nil))

	e := gin.New()
	e.GET("/username/:id", h.GetUsername)
	e.GET("/pressure/:payload", h.Pressure)
	e.POST("/new", h.Create)
	e.PATCH("/edit", h.Update)
	e.DELETE("/delete", h.Delete)
	return e, repo
}

func doJSON(t *testing.T, e *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestCreateReturnsGeneratedID(t *testing.T) {
	e, _ := newTestRouter(t)

	w := doJSON(t, e, http.MethodPost, "/new", gin.H{"username": "alice", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body["id"])
}

func TestCreateMissingFieldsIsBadRequest(t *testing.T) {
	e, repo := newTestRouter(t)

	for _, body := range []gin.H{
		{"username": "alice"},
		{"password": "secret"},
		{},
	} {
		w := doJSON(t, e, http.MethodPost, "/new", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	// Validation failure is terminal: nothing may reach storage.
	assert.Zero(t, repo.Len())
}

func TestCreateDuplicateIsConflict(t *testing.T) {
	e, _ := newTestRouter(t)

	w := doJSON(t, e, http.MethodPost, "/new", gin.H{"username": "alice", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, e, http.MethodPost, "/new", gin.H{"username": "alice", "password": "other"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, errorBody(t, w), "already exists")
}

func TestGetUsername(t *testing.T) {
	e, _ := newTestRouter(t)

	doJSON(t, e, http.MethodPost, "/new", gin.H{"username": "alice", "password": "secret"})

	w := doJSON(t, e, http.MethodGet, "/username/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"alice"}`, w.Body.String())
}

func TestGetUsernameNotFoundIsTerminal(t *testing.T) {
	e, _ := newTestRouter(t)

	w := doJSON(t, e, http.MethodGet, "/username/99", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	// The 404 body is the only payload; no row object may follow.
	assert.JSONEq(t, `{"error":"Username with id 99 not found."}`, w.Body.String())
}

func TestGetUsernameBadIDIsBadRequest(t *testing.T) {
	e, _ := newTestRouter(t)

	for _, path := range []string{"/username/abc", "/username/0", "/username/-3"} {
		w := doJSON(t, e, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestPressureReturnsRowsInOrder(t *testing.T) {
	e, _ := newTestRouter(t)

	doJSON(t, e, http.MethodPost, "/new", gin.H{"username": "alice", "password": "secret"})

	for _, path := range []string{"/pressure/5", "/pressure/5?isParallel=true"} {
		w := doJSON(t, e, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)

		var rows []map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
		require.Len(t, rows, 5)
		for _, row := range rows {
			assert.Equal(t, "alice", row["username"])
		}
	}
}

func TestPressureZeroIsEmptyList(t *testing.T) {
	e, repo := newTestRouter(t)

	w := doJSON(t, e, http.MethodGet, "/pressure/0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Zero(t, repo.Queries())
}

func TestPressureBadPayloadIsBadRequest(t *testing.T) {
	e, _ := newTestRouter(t)

	for _, path := range []string{"/pressure/abc", "/pressure/-1"} {
		w := doJSON(t, e, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestPressureMissingTargetIsNotFound(t *testing.T) {
	e, _ := newTestRouter(t)

	w := doJSON(t, e, http.MethodGet, "/pressure/3", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdate(t *testing.T) {
	e, _ := newTestRouter(t)

	doJSON(t, e, http.MethodPost, "/new", gin.H{"username": "alice", "password": "secret"})

	w := doJSON(t, e, http.MethodPatch, "/edit", gin.H{"id": 1, "username": "bob"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `"OK"`, w.Body.String())

	w = doJSON(t, e, http.MethodGet, "/username/1", nil)
	assert.JSONEq(t, `{"username":"bob"}`, w.Body.String())
}

func TestUpdateSameValueIsConflict(t *testing.T) {
	e, _ := newTestRouter(t)

	doJSON(t, e, http.MethodPost, "/new", gin.H{"username": "alice", "password": "secret"})

	w := doJSON(t, e, http.MethodPatch, "/edit", gin.H{"id": 1, "username": "alice"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Cannot change same username.", errorBody(t, w))

	w = doJSON(t, e, http.MethodPatch, "/edit", gin.H{"id": 1, "password": "secret"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Cannot change same password.", errorBody(t, w))
}

func TestUpdateMissingIDIsBadRequest(t *testing.T) {
	e, _ := newTestRouter(t)

	w := doJSON(t, e, http.MethodPatch, "/edit", gin.H{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateWithoutFieldsIsBadRequest(t *testing.T) {
	e, _ := newTestRouter(t)

	doJSON(t, e, http.MethodPost, "/new", gin.H{"username": "alice", "password": "secret"})

	w := doJSON(t, e, http.MethodPatch, "/edit", gin.H{"id": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUnknownIDIsNotFound(t *testing.T) {
	e, _ := newTestRouter(t)

	w := doJSON(t, e, http.MethodPatch, "/edit", gin.H{"id": 42, "username": "bob"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete(t *testing.T) {
	e, _ := newTestRouter(t)

	doJSON(t, e, http.MethodPost, "/new", gin.H{"username": "alice", "password": "secret"})

	w := doJSON(t, e, http.MethodDelete, "/delete", gin.H{"id": 1, "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `"OK"`, w.Body.String())

	w = doJSON(t, e, http.MethodGet, "/username/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteWrongPasswordIsNotFound(t *testing.T) {
	e, _ := newTestRouter(t)

	doJSON(t, e, http.MethodPost, "/new", gin.H{"username": "alice", "password": "secret"})

	// Wrong password and unknown id must be indistinguishable.
	w := doJSON(t, e, http.MethodDelete, "/delete", gin.H{"id": 1, "password": "wrong"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, errorBody(t, w), "non-existing id or wrong password")

	w = doJSON(t, e, http.MethodGet, "/username/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteMissingFieldsIsBadRequest(t *testing.T) {
	e, repo := newTestRouter(t)

	doJSON(t, e, http.MethodPost, "/new", gin.H{"username": "alice", "password": "secret"})

	w := doJSON(t, e, http.MethodDelete, "/delete", gin.H{"id": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, repo.Len(), "validation failure must not delete anything")
}

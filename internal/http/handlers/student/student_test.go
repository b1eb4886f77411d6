package student

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aanand-mishra/student-store/internal/config"
	"github.com/aanand-mishra/student-store/internal/storage"
	"github.com/aanand-mishra/student-store/internal/storage/sqlite"
	"github.com/aanand-mishra/student-store/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires the handlers onto a mux exactly the way main does,
// backed by a throwaway SQLite file.
func newTestRouter(t *testing.T) (*http.ServeMux, storage.Storage) {
	t.Helper()

	cfg := &config.Config{
		Env:         "dev",
		StoragePath: filepath.Join(t.TempDir(), "students.db"),
	}
	store, err := sqlite.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	router := http.NewServeMux()
	router.HandleFunc("POST /api/students", New(store))
	router.HandleFunc("GET /api/students", GetList(store))
	router.HandleFunc("GET /api/students/{id}", GetByID(store))
	router.HandleFunc("PUT /api/students/{id}", Update(store))
	router.HandleFunc("DELETE /api/students/{id}", Delete(store))
	router.HandleFunc("POST /api/students/shift-age", ShiftAge(store))

	return router, store
}

func doRequest(t *testing.T, router *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seedRoster(t *testing.T, store storage.Storage) {
	t.Helper()
	require.NoError(t, store.InsertStudents([]types.Student{
		{ID: 1, Name: "Jay Mondal", Age: 22, Gender: "M"},
		{ID: 2, Name: "Aditi Chakraborty", Age: 21, Gender: "F"},
		{ID: 3, Name: "Joyabrata Mondal", Age: 21, Gender: "M"},
	}))
}

func TestCreate_ThenGet(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/students",
		`{"id": 1, "name": "Jay Mondal", "age": 22, "gender": "M"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.EqualValues(t, 1, created["id"])

	rec = doRequest(t, router, http.MethodGet, "/api/students/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got types.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, types.Student{ID: 1, Name: "Jay Mondal", Age: 22, Gender: "M"}, got)
}

func TestCreate_DuplicateIDConflicts(t *testing.T) {
	router, store := newTestRouter(t)
	seedRoster(t, store)

	rec := doRequest(t, router, http.MethodPost, "/api/students",
		`{"id": 1, "name": "Someone Else", "age": 30, "gender": "F"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreate_ValidationFailure(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/students",
		`{"id": 1, "name": "Jay Mondal", "age": 22, "gender": "X"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "field Gender must be one of")
}

func TestCreate_EmptyBody(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/students", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "request body is empty")
}

func TestGetByID_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/students/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetByID_InvalidID(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/students/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must be an integer")
}

func TestList_Empty(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/students", "")
	require.Equal(t, http.StatusOK, rec.Code)
	// Empty list encodes as [], not null.
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestList_FilterSortLimit(t *testing.T) {
	router, store := newTestRouter(t)
	seedRoster(t, store)

	rec := doRequest(t, router, http.MethodGet,
		"/api/students?gender=M&sort_by=age&order=desc&limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []types.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.EqualValues(t, 1, got[0].ID) // Jay, the oldest male
}

func TestList_OlderThanAndPrefix(t *testing.T) {
	router, store := newTestRouter(t)
	seedRoster(t, store)

	rec := doRequest(t, router, http.MethodGet,
		"/api/students?older_than=21&name_prefix=J", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []types.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Jay Mondal", got[0].Name)
}

func TestList_BadParams(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{
		"/api/students?older_than=abc",
		"/api/students?younger_than=abc",
		"/api/students?sort_by=height",
		"/api/students?order=sideways",
		"/api/students?limit=-1",
	} {
		rec := doRequest(t, router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "path %s", path)
	}
}

func TestUpdate_PartialChange(t *testing.T) {
	router, store := newTestRouter(t)
	seedRoster(t, store)

	rec := doRequest(t, router, http.MethodPut, "/api/students/1", `{"age": 23}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got types.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 23, got.Age)
	assert.Equal(t, "Jay Mondal", got.Name) // untouched
}

func TestUpdate_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPut, "/api/students/42", `{"age": 23}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdate_NoFields(t *testing.T) {
	router, store := newTestRouter(t)
	seedRoster(t, store)

	rec := doRequest(t, router, http.MethodPut, "/api/students/1", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no fields to update")
}

func TestDelete_ThenNotFound(t *testing.T) {
	router, store := newTestRouter(t)
	seedRoster(t, store)

	rec := doRequest(t, router, http.MethodDelete, "/api/students/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted"`)

	// Second delete: already gone, still 200, reported as not_found.
	rec = doRequest(t, router, http.MethodDelete, "/api/students/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_found"`)

	rec = doRequest(t, router, http.MethodGet, "/api/students/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShiftAge(t *testing.T) {
	router, store := newTestRouter(t)
	seedRoster(t, store)

	rec := doRequest(t, router, http.MethodPost, "/api/students/shift-age", `{"delta": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.EqualValues(t, 3, result["rows_affected"])

	jay, err := store.GetStudentByID(1)
	require.NoError(t, err)
	assert.Equal(t, 23, jay.Age)
}

func TestShiftAge_ZeroDeltaRejected(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/students/shift-age", `{"delta": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a database.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (storage)
//  2. Returns a function with the exact signature the router needs
//
// Because the inner function "closes over" the outer parameters, it can
// access `storage` even after the factory call has returned:
//
//	router.HandleFunc("POST /api/students", student.New(storage))
//	//                                              ^^^^^^^^^^^^^
//	//                         New(storage) is called ONCE at startup.
//	//                         It returns a handler func which is called
//	//                         on EVERY incoming request.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/student-store/internal/storage"
	"github.com/aanand-mishra/student-store/internal/types"
	"github.com/aanand-mishra/student-store/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// New handles POST /api/students
// Creates a new student from the JSON request body. The id comes from the
// caller — this store never auto-assigns primary keys.
//
// Request body (JSON):
//
//	{ "id": 1, "name": "Jay Mondal", "age": 22, "gender": "M" }
//
// Success response (201 Created):
//
//	{ "id": 1 }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	409 Conflict     — a student with that id already exists
//	500 Internal     — database error
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var student types.Student

		err := json.NewDecoder(r.Body).Decode(&student)
		if errors.Is(err, io.EOF) {
			// io.EOF means the body was completely empty — nothing to decode.
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// validator.New().Struct(v) checks all validate:"..." tags on v.
		if err := validator.New().Struct(student); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		// InsertStudents takes a batch; a single create is a batch of one.
		if err := store.InsertStudents([]types.Student{student}); err != nil {
			if errors.Is(err, storage.ErrDuplicateID) {
				// Caller-assigned ids make this a client error, not ours.
				response.WriteJSON(w, http.StatusConflict,
					response.GeneralError(err))
				return
			}
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("student created", slog.Int64("id", student.ID))
		response.WriteJSON(w, http.StatusCreated, map[string]int64{"id": student.ID})
	}
}

// GetByID handles GET /api/students/{id}
// Fetches a single student by their primary key ID.
//
// Error responses:
//
//	400 Bad Request  — id is not a valid integer
//	404 Not Found    — no student with that id
//	500 Internal     — database error
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// r.PathValue("id") extracts the {id} segment from the URL
		// (Go 1.22+ ServeMux named path parameters).
		id := r.PathValue("id")
		slog.Info("getting a student", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		student, err := store.GetStudentByID(intID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// Absence is a normal outcome for a point lookup —
				// 404 tells the client exactly that, nothing is broken.
				response.WriteJSON(w, http.StatusNotFound,
					response.GeneralError(err))
				return
			}
			slog.Error("error getting student",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /api/students
// Returns a JSON array of students, optionally filtered, sorted, and
// limited through query parameters:
//
//	gender=M            exact gender match
//	older_than=22       age strictly greater
//	younger_than=22     age strictly less
//	name_prefix=J       name starts with
//	sort_by=age         one of id|name|age|gender
//	order=desc          asc (default) or desc
//	limit=3             cap the result size
//
// Multiple filter params are combined with AND. Returns an empty array
// [] (not null) when nothing matches.
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing students")

		filter, opts, err := queryFromParams(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		students, err := store.FindStudents(filter, opts)
		if err != nil {
			slog.Error("error listing students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// queryFromParams translates URL query parameters into the storage
// layer's Filter + ListOptions descriptors. Kept separate from the
// handler so the mapping is testable without HTTP plumbing.
func queryFromParams(r *http.Request) (storage.Filter, storage.ListOptions, error) {
	q := r.URL.Query()

	var filters []storage.Filter

	if g := q.Get("gender"); g != "" {
		filters = append(filters, storage.GenderIs(g))
	}
	if v := q.Get("older_than"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return storage.Filter{}, storage.ListOptions{},
				errors.New("invalid older_than: must be an integer")
		}
		filters = append(filters, storage.AgeGreaterThan(age))
	}
	if v := q.Get("younger_than"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return storage.Filter{}, storage.ListOptions{},
				errors.New("invalid younger_than: must be an integer")
		}
		filters = append(filters, storage.AgeLessThan(age))
	}
	if p := q.Get("name_prefix"); p != "" {
		filters = append(filters, storage.NameHasPrefix(p))
	}

	var opts storage.ListOptions

	if s := q.Get("sort_by"); s != "" {
		field := storage.Field(s)
		if !field.Valid() {
			return storage.Filter{}, storage.ListOptions{},
				errors.New("invalid sort_by: must be one of id, name, age, gender")
		}
		opts.SortBy = field
	}
	switch q.Get("order") {
	case "", "asc":
		// ascending is the default
	case "desc":
		opts.Descending = true
	default:
		return storage.Filter{}, storage.ListOptions{},
			errors.New("invalid order: must be asc or desc")
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return storage.Filter{}, storage.ListOptions{},
				errors.New("invalid limit: must be a non-negative integer")
		}
		opts.Limit = limit
	}

	return storage.And(filters...), opts, nil
}

// updateRequest is the body accepted by PUT /api/students/{id}.
// Pointer fields make every change optional: omitted fields stay as they
// are. The omitempty prefix tells the validator to skip rules on nils.
type updateRequest struct {
	Name   *string `json:"name"   validate:"omitempty,min=1"`
	Age    *int    `json:"age"    validate:"omitempty,gt=0"`
	Gender *string `json:"gender" validate:"omitempty,oneof=M F"`
}

// Update handles PUT /api/students/{id}
// Applies a partial field change to an existing student.
//
// Request body (JSON) — any subset of:
//
//	{ "name": "Jay Mondal", "age": 23, "gender": "M" }
//
// Success response (200 OK) — the full updated student.
//
// Error responses:
//
//	400 Bad Request  — invalid id, empty body, no fields, or validation failure
//	404 Not Found    — no student with that id
//	500 Internal     — database error
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a student", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		var req updateRequest
		err = json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		changes := storage.StudentUpdate{Name: req.Name, Age: req.Age, Gender: req.Gender}
		if changes.IsEmpty() {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("no fields to update")))
			return
		}

		updated, err := store.UpdateStudentByID(intID, changes)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				response.WriteJSON(w, http.StatusNotFound,
					response.GeneralError(err))
				return
			}
			slog.Error("error updating student",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/students/{id}
// Removes a student record. Deleting an id that was never there (or was
// already deleted) succeeds with status "not_found" — the end state the
// client asked for already holds.
//
// Success responses (200 OK):
//
//	{ "status": "deleted" }     — the row existed and is gone
//	{ "status": "not_found" }   — there was nothing to delete
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		deleted, err := store.DeleteStudentByID(intID)
		if err != nil {
			slog.Error("error deleting student",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		status := "deleted"
		if !deleted {
			status = "not_found"
		}
		slog.Info("student delete finished", slog.String("id", id), slog.String("status", status))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": status})
	}
}

// shiftAgeRequest is the body accepted by POST /api/students/shift-age.
// required rejects a zero delta — shifting every age by 0 is always a
// caller mistake.
type shiftAgeRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// ShiftAge handles POST /api/students/shift-age
// Applies age := age + delta to every stored student in one statement.
//
// Request body (JSON):
//
//	{ "delta": 1 }
//
// Success response (200 OK):
//
//	{ "rows_affected": 5 }
func ShiftAge(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("shifting all ages")

		var req shiftAgeRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		affected, err := store.ShiftAges(storage.AgeShift{Delta: req.Delta})
		if err != nil {
			slog.Error("error shifting ages", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("ages shifted",
			slog.Int("delta", req.Delta),
			slog.Int64("rows_affected", affected))
		response.WriteJSON(w, http.StatusOK, map[string]int64{"rows_affected": affected})
	}
}

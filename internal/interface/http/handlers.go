package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/masy43/Student-Management-System/internal/application/command"
	"github.com/masy43/Student-Management-System/internal/application/query"
	"github.com/masy43/Student-Management-System/internal/domain/student"
	"github.com/masy43/Student-Management-System/internal/interface/http/handlers"
)

// ClientIDHeader identifies the client whose preferences are read or written.
const ClientIDHeader = "X-Client-ID"

// defaultClientID is used when the client sends no ClientIDHeader.
const defaultClientID = "anonymous"

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"name":    "Student Roster API",
		"version": s.config.Version,
		"endpoints": map[string]string{
			"health":        "/health",
			"students":      "/api/v1/students",
			"stats":         "/api/v1/stats",
			"notifications": "/api/v1/notifications",
			"theme":         "/api/v1/preferences/theme",
		},
	})
}

type healthResponse struct {
	handlers.HealthStatus
	RosterSize int `json:"roster_size"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{}
	if s.deps.HealthChecker != nil {
		resp.HealthStatus = s.deps.HealthChecker.Check(r.Context())
	} else {
		resp.HealthStatus = handlers.HealthStatus{
			Healthy:   true,
			Message:   "OK",
			Timestamp: time.Now().UTC(),
			Version:   s.config.Version,
		}
	}

	if s.deps.GetStats != nil {
		if stats, err := s.deps.GetStats.Handle(r.Context()); err == nil {
			resp.RosterSize = stats.Total
		}
	}

	status := http.StatusOK
	if !resp.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, resp)
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListStudents handles GET /api/v1/students?q=&filter=&sort=
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListStudents == nil {
		writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "List handler not configured")
		return
	}

	params := r.URL.Query()
	result, err := s.deps.ListStudents.Handle(r.Context(), query.ListStudentsQuery{
		Search: params.Get("q"),
		Filter: params.Get("filter"),
		Sort:   params.Get("sort"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result, &ResponseMeta{TotalCount: result.Total})
}

// addStudentRequest carries the raw form values. Grade may arrive as a JSON
// string or number; either way it is parsed like the form input.
type addStudentRequest struct {
	Name       string    `json:"name"`
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Grade      formValue `json:"grade"`
	Department string    `json:"department"`
}

// formValue accepts a JSON string, number or null and keeps its text.
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*v = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = formValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return errors.New("grade must be a string or a number")
		}
		*v = formValue(n.String())
	}
	return nil
}

// handleAddStudent handles POST /api/v1/students
func (s *Server) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	if s.deps.AddStudent == nil {
		writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "Add handler not configured")
		return
	}

	var req addStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, &APIError{
			Code:    "invalid_json",
			Message: "Request body must be a JSON object",
			Details: err.Error(),
		})
		return
	}

	result, err := s.deps.AddStudent.Handle(r.Context(), command.AddStudentCommand{
		Fields: student.FormFields{
			Name:       req.Name,
			ID:         req.ID,
			Email:      req.Email,
			Grade:      string(req.Grade),
			Department: req.Department,
		},
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/students/"+url.PathEscape(result.Record.ID))
	writeJSON(w, r, http.StatusCreated, query.NewStudentDTO(result.Record))
}

// removeStudentResponse reports the outcome of a delete.
// Found=false means no record had the id and the roster is unchanged.
type removeStudentResponse struct {
	ID      string            `json:"id"`
	Found   bool              `json:"found"`
	Student *query.StudentDTO `json:"student,omitempty"`
}

// studentIDParam returns the {id} path segment decoded exactly once.
// chi matches on RawPath when the URL has one (an escaped "/" in the id),
// otherwise on the already decoded Path.
func studentIDParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id, nil
	}
	return url.PathUnescape(id)
}

// handleDeleteStudent handles DELETE /api/v1/students/{id}
func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	if s.deps.RemoveStudent == nil {
		writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "Remove handler not configured")
		return
	}

	id, err := studentIDParam(r)
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, "invalid_request", "Malformed student id")
		return
	}

	result, err := s.deps.RemoveStudent.Handle(r.Context(), command.RemoveStudentCommand{
		StudentID:     id,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := removeStudentResponse{ID: id, Found: result.Found}
	if result.Found {
		dto := query.NewStudentDTO(result.Record)
		resp.Student = &dto
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleGetStats handles GET /api/v1/stats
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetStats == nil {
		writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "Stats handler not configured")
		return
	}

	result, err := s.deps.GetStats.Handle(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetNotifications handles GET /api/v1/notifications?limit=
func (s *Server) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetNotifications == nil {
		writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "Notifications handler not configured")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSONError(w, r, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	notices, err := s.deps.GetNotifications.Handle(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, notices, &ResponseMeta{TotalCount: len(notices)})
}

// ══════════════════════════════════════════════════════════════════════════════
// THEME HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type themeResponse struct {
	Theme   string `json:"theme"`
	Changed bool   `json:"changed,omitempty"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

func clientID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(ClientIDHeader)); id != "" {
		return id
	}
	return defaultClientID
}

// handleGetTheme handles GET /api/v1/preferences/theme
func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetTheme == nil {
		writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "Theme handler not configured")
		return
	}

	theme, err := s.deps.GetTheme.Handle(r.Context(), clientID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, themeResponse{Theme: theme.String()})
}

// handlePutTheme handles PUT /api/v1/preferences/theme
func (s *Server) handlePutTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, "invalid_json", "Request body must be a JSON object")
		return
	}
	s.updateTheme(w, r, command.UpdatePreferencesCommand{ClientID: clientID(r), Theme: &req.Theme})
}

// handleToggleTheme handles POST /api/v1/preferences/theme/toggle
func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	s.updateTheme(w, r, command.UpdatePreferencesCommand{ClientID: clientID(r), Toggle: true})
}

func (s *Server) updateTheme(w http.ResponseWriter, r *http.Request, cmd command.UpdatePreferencesCommand) {
	if s.deps.UpdatePreferences == nil {
		writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "Preferences handler not configured")
		return
	}

	result, err := s.deps.UpdatePreferences.Handle(r.Context(), cmd)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, themeResponse{Theme: result.Theme.String(), Changed: result.Changed})
}

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rampup-app/rampup/internal/access"
	"github.com/rampup-app/rampup/internal/advisor"
	"github.com/rampup-app/rampup/internal/jalali"
	"github.com/rampup-app/rampup/internal/report"
	"github.com/rampup-app/rampup/internal/store"
)

// Server handles HTTP requests for the study report API
type Server struct {
	store *store.Store
	gate  *access.Gate
	addr  string
}

// New creates a new API server
func New(s *store.Store, addr string) *Server {
	return &Server{store: s, gate: access.NewGate(s), addr: addr}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	fmt.Printf("Starting server on %s\n", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

// Handler builds the route table. Split out from Run for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Reports
	mux.HandleFunc("GET /reports", s.listReports)
	mux.HandleFunc("POST /reports", s.upsertReport)
	mux.HandleFunc("DELETE /reports/{id}", s.deleteReport)

	// Summary
	mux.HandleFunc("GET /summary", s.summary)

	// Advisor
	mux.HandleFunc("POST /advice/daily", s.dailyAdvice)
	mux.HandleFunc("POST /advice/weekly", s.weeklyAdvice)
	mux.HandleFunc("POST /advice/compare", s.compareAdvice)
	mux.HandleFunc("POST /chat", s.chat)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return withCORS(mux)
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// resolveGrant turns the access code on a request into a grant, writing
// the HTTP error itself when the code is missing or unknown.
func (s *Server) resolveGrant(w http.ResponseWriter, code string) (access.Grant, bool) {
	grant, err := s.gate.Resolve(code)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid access code")
		return access.Grant{}, false
	}
	return grant, true
}

// requireEdit is resolveGrant plus the write gate. Unknown codes map to
// 401, valid read-only codes to 403, before any store mutation runs.
func (s *Server) requireEdit(w http.ResponseWriter, code string) (access.Grant, bool) {
	grant, err := s.gate.RequireEdit(code)
	if err != nil {
		if errors.Is(err, access.ErrReadOnly) {
			writeError(w, http.StatusForbidden, "access code is read-only")
		} else {
			writeError(w, http.StatusUnauthorized, "invalid access code")
		}
		return access.Grant{}, false
	}
	return grant, true
}

// DayGroupResponse is one day of reports in the grouped listing
type DayGroupResponse struct {
	Date     string         `json:"date"`
	DayName  string         `json:"day_name"`
	Reports  []store.Report `json:"reports"`
	Minutes  int            `json:"minutes"`
	Duration string         `json:"duration"`
}

func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	grant, ok := s.resolveGrant(w, r.URL.Query().Get("code"))
	if !ok {
		return
	}

	reports, err := s.store.ListReports(grant.Scope)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	date := r.URL.Query().Get("date")
	course := r.URL.Query().Get("course")
	reports = report.Filter(reports, date, course)

	groups := report.GroupByDate(reports)
	resp := make([]DayGroupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, DayGroupResponse{
			Date:     g.Date,
			DayName:  g.DayName,
			Reports:  g.Records,
			Minutes:  g.TotalMinutes,
			Duration: g.TotalDuration(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"days":     resp,
		"can_edit": grant.CanEdit,
	})
}

// UpsertReportRequest is the request body for adding or editing a report
type UpsertReportRequest struct {
	Code        string `json:"code"`
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	CourseName  string `json:"course_name"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description,omitempty"`
}

func (s *Server) upsertReport(w http.ResponseWriter, r *http.Request) {
	var req UpsertReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grant, ok := s.requireEdit(w, req.Code)
	if !ok {
		return
	}

	if strings.TrimSpace(req.CourseName) == "" {
		writeError(w, http.StatusBadRequest, "course_name is required")
		return
	}
	if _, _, _, err := jalali.Parse(req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}
	start, err := report.NormalizeTime(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_time")
		return
	}
	end, err := report.NormalizeTime(req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_time")
		return
	}

	rec, err := s.store.UpsertReport(&store.Report{
		ID:          req.ID,
		OwnerScope:  grant.Scope,
		Date:        req.Date,
		CourseName:  strings.TrimSpace(req.CourseName),
		StartTime:   start,
		EndTime:     end,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) deleteReport(w http.ResponseWriter, r *http.Request) {
	grant, ok := s.requireEdit(w, r.URL.Query().Get("code"))
	if !ok {
		return
	}

	id := r.PathValue("id")
	rec, err := s.store.GetReport(id)
	if err != nil || rec.OwnerScope != grant.Scope {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}

	if err := s.store.DeleteReport(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	grant, ok := s.resolveGrant(w, r.URL.Query().Get("code"))
	if !ok {
		return
	}

	today := jalali.Today()
	yesterday, err := jalali.AddDays(today, -1)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	todayMins, err := s.dayMinutes(grant.Scope, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	prevMins, err := s.dayMinutes(grant.Scope, yesterday)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	dayName, _ := jalali.WeekdayName(today)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":             today,
		"day_name":         dayName,
		"minutes":          todayMins,
		"duration":         report.FormatDuration(todayMins),
		"previous_minutes": prevMins,
		"change_percent":   report.DayChange(prevMins, todayMins),
	})
}

func (s *Server) dayMinutes(scope, date string) (int, error) {
	reports, err := s.store.ListReportsByDate(scope, date)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, r := range reports {
		if mins, err := report.ComputeDuration(r.StartTime, r.EndTime); err == nil {
			total += mins
		}
	}
	return total, nil
}

// codeRequest is shared by the advisor endpoints
type codeRequest struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func (s *Server) advisorClient() (*advisor.Client, error) {
	key, err := s.store.GetSetting("gemini_api_key")
	if err != nil {
		return nil, err
	}
	model, err := s.store.GetSetting("gemini_model")
	if err != nil {
		return nil, err
	}
	return advisor.New(key, model), nil
}

// writeAdvisorError maps advisor failures onto HTTP statuses. A missing
// API key is the caller's configuration problem, everything else is an
// upstream failure.
func writeAdvisorError(w http.ResponseWriter, err error) {
	if errors.Is(err, advisor.ErrNoAPIKey) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}

func (s *Server) dailyAdvice(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	grant, ok := s.resolveGrant(w, req.Code)
	if !ok {
		return
	}

	reports, err := s.store.ListReportsByDate(grant.Scope, jalali.Today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	client, err := s.advisorClient()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	text, err := client.EstimateDailyProductivity(report.Summary(report.GroupByDate(reports)))
	if err != nil {
		writeAdvisorError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"advice": text})
}

func (s *Server) weeklyAdvice(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	grant, ok := s.resolveGrant(w, req.Code)
	if !ok {
		return
	}

	week, err := s.weekReports(grant.Scope)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	all, err := s.store.ListReports(grant.Scope)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	client, err := s.advisorClient()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	weekly, err := client.GenerateWeeklyReport(
		report.Summary(report.GroupByDate(week)),
		report.Summary(report.GroupByDate(all)),
	)
	if err != nil {
		writeAdvisorError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, weekly)
}

// weekReports collects the last seven days of reports for a scope.
func (s *Server) weekReports(scope string) ([]store.Report, error) {
	return s.rangeReports(scope, 0, 7)
}

// rangeReports collects reports for `days` Jalali days, starting
// `offset` days back from today and walking further into the past.
func (s *Server) rangeReports(scope string, offset, days int) ([]store.Report, error) {
	date, err := jalali.AddDays(jalali.Today(), -offset)
	if err != nil {
		return nil, err
	}
	var out []store.Report
	for i := 0; i < days; i++ {
		day, err := s.store.ListReportsByDate(scope, date)
		if err != nil {
			return nil, err
		}
		out = append(out, day...)
		date, err = jalali.AddDays(date, -1)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CompareRequest asks for a comparison of the current week against the
// one before it, with optional goals passed through to the advisor.
type CompareRequest struct {
	Code  string `json:"code"`
	Goals string `json:"goals,omitempty"`
}

func (s *Server) compareAdvice(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	grant, ok := s.resolveGrant(w, req.Code)
	if !ok {
		return
	}

	current, err := s.rangeReports(grant.Scope, 0, 7)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	previous, err := s.rangeReports(grant.Scope, 7, 7)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	client, err := s.advisorClient()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	text, err := client.ComparePerformance(
		report.Summary(report.GroupByDate(current)),
		report.Summary(report.GroupByDate(previous)),
		req.Goals,
	)
	if err != nil {
		writeAdvisorError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"comparison": text})
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if _, ok := s.resolveGrant(w, req.Code); !ok {
		return
	}

	client, err := s.advisorClient()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	reply, err := client.Chat(req.Message)
	if err != nil {
		writeAdvisorError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Pvayush/TexasInterns/internal/auth"
	"github.com/Pvayush/TexasInterns/internal/model"
	"github.com/Pvayush/TexasInterns/internal/service"
)

// JobHandler manages CRUD and stats for job applications. Every route is
// behind RequireAuth; the owner ID always comes from the request context set
// by the middleware, never from the body or query string.
type JobHandler struct {
	jobs   *service.JobService
	logger *slog.Logger
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(jobs *service.JobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, logger: logger}
}

// ownerID pulls the resolved caller identity from the context. The bool is
// false only if the handler was somehow mounted without the auth middleware.
func (h *JobHandler) ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid authentication required",
		})
		return "", false
	}
	return id, true
}

// HandleCreate saves a new job for the caller.
//
// HTTP: POST /api/v1/jobs
// Body: {"position": "...", "company": "...", "jobLocation": "...", "jobType": "...", "status": "..."}
// Success: 201 {job}
func (h *JobHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var in service.CreateJobInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid job JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	job, err := h.jobs.Create(r.Context(), owner, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*model.Job{"job": job})
}

// listResponse mirrors what the dashboard consumes: the page of jobs plus
// the totals it needs to render pagination controls.
type listResponse struct {
	Jobs       []model.Job `json:"jobs"`
	TotalJobs  int         `json:"totalJobs"`
	NumOfPages int         `json:"numOfPages"`
	Page       int         `json:"page"`
}

// HandleList returns one filtered, sorted page of the caller's jobs.
//
// HTTP: GET /api/v1/jobs?search=&status=&type=&sort=&page=
// Success: 200 {jobs, totalJobs, numOfPages, page}
func (h *JobHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page")) // 0 on absence/garbage; service clamps to 1

	result, err := h.jobs.List(r.Context(), owner, service.ListParams{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Type:   q.Get("type"),
		Sort:   q.Get("sort"),
		Page:   page,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Jobs:       result.Jobs,
		TotalJobs:  result.TotalJobs,
		NumOfPages: result.NumOfPages,
		Page:       result.Page,
	})
}

// HandleGetByID returns a single job owned by the caller.
//
// HTTP: GET /api/v1/jobs/{id}
// A job that exists under another account returns the same 404 as one that
// doesn't exist at all.
func (h *JobHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	job, err := h.jobs.GetOwned(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.Job{"job": job})
}

// HandleUpdate applies a partial update to one of the caller's jobs.
//
// HTTP: PATCH /api/v1/jobs/{id}
// Body: any subset of {"position", "company", "jobLocation", "jobType", "status"} —
// fields left out keep their stored values.
func (h *JobHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var in service.UpdateJobInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid job JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	job, err := h.jobs.Update(r.Context(), owner, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.Job{"job": job})
}

// HandleDelete removes one of the caller's jobs.
//
// HTTP: DELETE /api/v1/jobs/{id}
// Success: 200 {msg} — the dashboard shows the message as a toast.
func (h *JobHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	if err := h.jobs.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": "job removed"})
}

// defaultStats always carries the three known statuses, zero-filled, because
// the dashboard reads them unconditionally. The aggregator itself only
// reports observed statuses; the zero-fill happens here at the boundary.
type defaultStats struct {
	Pending   int `json:"pending"`
	Interview int `json:"interview"`
	Declined  int `json:"declined"`
}

type monthlyEntry struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type statsResponse struct {
	DefaultStats        defaultStats   `json:"defaultStats"`
	MonthlyApplications []monthlyEntry `json:"monthlyApplications"`
}

// HandleStats returns the status rollup and the monthly application trend
// for the caller's jobs.
//
// HTTP: GET /api/v1/jobs/stats
// Success: 200 {defaultStats, monthlyApplications}
func (h *JobHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	stats, err := h.jobs.Stats(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}

	monthly := make([]monthlyEntry, 0, len(stats.Monthly))
	for _, m := range stats.Monthly {
		monthly = append(monthly, monthlyEntry{Date: m.Date, Count: m.Count})
	}

	writeJSON(w, http.StatusOK, statsResponse{
		DefaultStats: defaultStats{
			Pending:   stats.StatusCounts[model.StatusPending],
			Interview: stats.StatusCounts[model.StatusInterview],
			Declined:  stats.StatusCounts[model.StatusDeclined],
		},
		MonthlyApplications: monthly,
	})
}

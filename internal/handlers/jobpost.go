package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/crucial707/job-board/internal/metrics"
	"github.com/crucial707/job-board/internal/middleware"
	"github.com/crucial707/job-board/internal/models"
	"github.com/crucial707/job-board/internal/repo"
	"github.com/go-chi/chi/v5"
)

type JobPostHandler struct {
	Repo      *repo.JobPostRepo
	AuditRepo *repo.AuditRepo
}

const (
	defaultPageLimit = 5
	maxPageLimit     = 100
)

// parseDate accepts "2006-01-02" or a full RFC 3339 timestamp for the work date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

//
// ==========================
// List Job Posts
// ==========================
//

func (h *JobPostHandler) ListJobPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filters struct {
		WorkTime   string `validate:"omitempty,oneof=short medium long"`
		HourlyWage string `validate:"omitempty,oneof=low high"`
	}
	filters.WorkTime = q.Get("workTime")
	filters.HourlyWage = q.Get("hourlyWage")
	if err := validate.Struct(filters); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	params := repo.ListParams{
		Limit:         defaultPageLimit,
		SearchKeyword: q.Get("searchKeyword"),
		WorkTime:      filters.WorkTime,
		HourlyWage:    filters.HourlyWage,
		ShowPast:      q.Get("showPast") == "true",
	}

	if l := q.Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= maxPageLimit {
			params.Limit = val
		}
	}

	if c := q.Get("cursor"); c != "" {
		t, err := time.Parse(time.RFC3339, c)
		if err != nil {
			JSONValidationError(w, "validation failed", map[string]string{"cursor": "must be an RFC 3339 timestamp"}, http.StatusBadRequest)
			return
		}
		params.Cursor = &t
	}

	posts, nextCursor, err := h.Repo.List(r.Context(), params)
	if err != nil {
		log.Printf("ListJobPosts: %v", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Data       []models.JobPost `json:"data"`
		NextCursor *string          `json:"nextCursor"`
	}{Data: posts, NextCursor: nextCursor})
}

//
// ==========================
// Create Job Post
// ==========================
//

func (h *JobPostHandler) CreateJobPost(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Title      string  `json:"title" validate:"required,min=1,max=20"`
		Location   string  `json:"location" validate:"required"`
		Pay        int     `json:"pay" validate:"required,gt=0"`
		HourlyWage int     `json:"hourlyWage" validate:"required,gt=0"`
		Date       string  `json:"date" validate:"required"`
		StartTime  string  `json:"startTime" validate:"required,datetime=15:04"`
		EndTime    string  `json:"endTime" validate:"required,datetime=15:04"`
		TotalHours int     `json:"totalHours" validate:"required,gt=0"`
		Content    string  `json:"content" validate:"required"`
		ImageURL   *string `json:"imageUrl" validate:"omitempty,url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	date, err := parseDate(input.Date)
	if err != nil {
		JSONValidationError(w, "validation failed", map[string]string{"date": "must be YYYY-MM-DD or RFC 3339"}, http.StatusBadRequest)
		return
	}

	id, err := h.Repo.Create(r.Context(), models.JobPost{
		Title:      input.Title,
		Location:   input.Location,
		Pay:        input.Pay,
		HourlyWage: input.HourlyWage,
		Date:       date,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		TotalHours: input.TotalHours,
		Content:    input.Content,
		ImageURL:   input.ImageURL,
		UserID:     ownerID,
	})
	if err != nil {
		log.Printf("CreateJobPost: %v", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.IncJobPostsMutation("create")
	if h.AuditRepo != nil {
		_ = h.AuditRepo.Log(r.Context(), ownerID, "create", "job_post", id, "")
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"identifiers": []map[string]int{{"id": id}},
	})
}

//
// ==========================
// Get Job Post By ID
// ==========================
//

func (h *JobPostHandler) GetJobPost(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid job post id", http.StatusBadRequest)
		return
	}

	post, err := h.Repo.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "job post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

//
// ==========================
// Update Job Post (owner only)
// ==========================
//

func (h *JobPostHandler) UpdateJobPost(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid job post id", http.StatusBadRequest)
		return
	}

	var input struct {
		Title      *string `json:"title" validate:"omitempty,min=1,max=20"`
		Location   *string `json:"location" validate:"omitempty,min=1"`
		Pay        *int    `json:"pay" validate:"omitempty,gt=0"`
		HourlyWage *int    `json:"hourlyWage" validate:"omitempty,gt=0"`
		Date       *string `json:"date"`
		StartTime  *string `json:"startTime" validate:"omitempty,datetime=15:04"`
		EndTime    *string `json:"endTime" validate:"omitempty,datetime=15:04"`
		TotalHours *int    `json:"totalHours" validate:"omitempty,gt=0"`
		Content    *string `json:"content" validate:"omitempty,min=1"`
		ImageURL   *string `json:"imageUrl" validate:"omitempty,url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	upd := repo.JobPostUpdate{
		Title:      input.Title,
		Location:   input.Location,
		Pay:        input.Pay,
		HourlyWage: input.HourlyWage,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		TotalHours: input.TotalHours,
		Content:    input.Content,
		ImageURL:   input.ImageURL,
	}
	if input.Date != nil {
		date, err := parseDate(*input.Date)
		if err != nil {
			JSONValidationError(w, "validation failed", map[string]string{"date": "must be YYYY-MM-DD or RFC 3339"}, http.StatusBadRequest)
			return
		}
		upd.Date = &date
	}

	if upd == (repo.JobPostUpdate{}) {
		JSONError(w, "no fields to update", http.StatusBadRequest)
		return
	}

	affected, err := h.Repo.Update(r.Context(), id, ownerID, upd)
	if errors.Is(err, repo.ErrForbidden) {
		JSONError(w, "no permission to modify this post", http.StatusForbidden)
		return
	}
	if err != nil {
		log.Printf("UpdateJobPost: %v", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.IncJobPostsMutation("update")
	if h.AuditRepo != nil {
		_ = h.AuditRepo.Log(r.Context(), ownerID, "update", "job_post", id, "")
	}

	writeJSON(w, http.StatusOK, map[string]int64{"affected": affected})
}

//
// ==========================
// Delete Job Post (owner only)
// ==========================
//

func (h *JobPostHandler) DeleteJobPost(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid job post id", http.StatusBadRequest)
		return
	}

	affected, err := h.Repo.Delete(r.Context(), id, ownerID)
	if errors.Is(err, repo.ErrForbidden) {
		JSONError(w, "no permission to delete this post", http.StatusForbidden)
		return
	}
	if err != nil {
		log.Printf("DeleteJobPost: %v", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.IncJobPostsMutation("delete")
	if h.AuditRepo != nil {
		_ = h.AuditRepo.Log(r.Context(), ownerID, "delete", "job_post", id, "")
	}

	writeJSON(w, http.StatusOK, map[string]int64{"affected": affected})
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"stolik/internal/models"
)

// ScheduleRequest is the request body for creating or updating a schedule.
type ScheduleRequest struct {
	Day            string `json:"day"`
	OpenTime       string `json:"open_time"`
	CloseTime      string `json:"close_time"`
	BreakStartTime string `json:"break_start_time,omitempty"`
	BreakEndTime   string `json:"break_end_time,omitempty"`
}

func (r *ScheduleRequest) toModel(id int64) *models.Schedule {
	return &models.Schedule{
		ID:             id,
		Day:            r.Day,
		OpenTime:       r.OpenTime,
		CloseTime:      r.CloseTime,
		BreakStartTime: r.BreakStartTime,
		BreakEndTime:   r.BreakEndTime,
	}
}

// handleSchedules lists and creates schedules.
// GET /api/schedules
// POST /api/schedules
func (s *HTTPServer) handleSchedules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		schedules, err := s.db.ListSchedules(r.Context())
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("list schedules failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"schedules": schedules})

	case http.MethodPost:
		if err := s.access.RequirePrivilege(r.Context(), callerID(r)); err != nil {
			writeAccessError(w, r, err)
			return
		}
		var req ScheduleRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		sched := req.toModel(0)
		if err := sched.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		id, err := s.db.CreateSchedule(r.Context(), sched)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Str("day", sched.Day).Msg("create schedule failed")
			writeError(w, http.StatusConflict, "schedule for this day already exists")
			return
		}
		sched.ID = id
		s.schedules.Invalidate(r.Context(), sched.Day)
		writeJSON(w, http.StatusCreated, sched)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleScheduleByID fetches, updates or deletes a single schedule.
// GET/PUT/DELETE /api/schedules/{id}
func (s *HTTPServer) handleScheduleByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/api/schedules/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid schedule id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		sched, err := s.db.GetSchedule(r.Context(), id)
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "schedule not found")
			return
		}
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("get schedule failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, sched)

	case http.MethodPut:
		if err := s.access.RequirePrivilege(r.Context(), callerID(r)); err != nil {
			writeAccessError(w, r, err)
			return
		}
		var req ScheduleRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		sched := req.toModel(id)
		if err := sched.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// The day key may have changed; drop both cache entries.
		previous, err := s.db.GetSchedule(r.Context(), id)
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "schedule not found")
			return
		}
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("get schedule failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if err := s.db.UpdateSchedule(r.Context(), sched); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("update schedule failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		s.schedules.Invalidate(r.Context(), previous.Day)
		s.schedules.Invalidate(r.Context(), sched.Day)
		writeJSON(w, http.StatusOK, sched)

	case http.MethodDelete:
		if err := s.access.RequirePrivilege(r.Context(), callerID(r)); err != nil {
			writeAccessError(w, r, err)
			return
		}
		sched, err := s.db.GetSchedule(r.Context(), id)
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "schedule not found")
			return
		}
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("get schedule failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if err := s.db.DeleteSchedule(r.Context(), id); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("delete schedule failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		s.schedules.Invalidate(r.Context(), sched.Day)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

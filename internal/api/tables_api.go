package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"stolik/internal/models"
)

// TableRequest is the request body for creating or updating a table.
type TableRequest struct {
	Type          string  `json:"type"`
	NumberOfSeats int     `json:"number_of_seats"`
	PricePerHour  float64 `json:"price_per_hour"`
}

func (t *TableRequest) validate() error {
	if t.Type == "" {
		return errors.New("type is required")
	}
	if t.NumberOfSeats <= 0 {
		return errors.New("number_of_seats must be positive")
	}
	if t.PricePerHour < 0 {
		return errors.New("price_per_hour cannot be negative")
	}
	return nil
}

// handleTables lists and creates tables.
// GET /api/tables
// POST /api/tables
func (s *HTTPServer) handleTables(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tables, err := s.db.ListTables(r.Context())
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("list tables failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tables": tables})

	case http.MethodPost:
		if err := s.access.RequirePrivilege(r.Context(), callerID(r)); err != nil {
			writeAccessError(w, r, err)
			return
		}
		var req TableRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		table := &models.Table{
			Type:          req.Type,
			NumberOfSeats: req.NumberOfSeats,
			PricePerHour:  req.PricePerHour,
		}
		id, err := s.db.CreateTable(r.Context(), table)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("create table failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		table.ID = id
		writeJSON(w, http.StatusCreated, table)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleTableByID fetches, updates or deletes a single table.
// GET/PUT/DELETE /api/tables/{id}
func (s *HTTPServer) handleTableByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/api/tables/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid table id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		table, err := s.db.FindTable(r.Context(), id)
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "table not found")
			return
		}
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("get table failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, table)

	case http.MethodPut:
		if err := s.access.RequirePrivilege(r.Context(), callerID(r)); err != nil {
			writeAccessError(w, r, err)
			return
		}
		var req TableRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		table := &models.Table{
			ID:            id,
			Type:          req.Type,
			NumberOfSeats: req.NumberOfSeats,
			PricePerHour:  req.PricePerHour,
		}
		if err := s.db.UpdateTable(r.Context(), table); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				writeError(w, http.StatusNotFound, "table not found")
				return
			}
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("update table failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, table)

	case http.MethodDelete:
		if err := s.access.RequirePrivilege(r.Context(), callerID(r)); err != nil {
			writeAccessError(w, r, err)
			return
		}
		if err := s.db.DeleteTable(r.Context(), id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				writeError(w, http.StatusNotFound, "table not found")
				return
			}
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("delete table failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

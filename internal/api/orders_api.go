package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"stolik/internal/booking"
	"stolik/internal/database"
	"stolik/internal/metrics"
	"stolik/internal/models"
	"stolik/internal/report"
)

// CreateOrderRequest is the request body for POST /api/orders.
type CreateOrderRequest struct {
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	Status        string    `json:"status,omitempty"`
	UserID        int64     `json:"user_id,omitempty"`
	Tables        []int64   `json:"tables"`
}

// PatchOrderRequest is the request body for PATCH /api/orders/{id}.
// Absent fields leave the stored value unchanged. Table membership is only
// patchable through add_tables and delete_tables; sending tables is an
// input-shape error the booking core rejects.
type PatchOrderRequest struct {
	StartDatetime *time.Time `json:"start_datetime,omitempty"`
	EndDatetime   *time.Time `json:"end_datetime,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Cost          *float64   `json:"cost,omitempty"`
	UserID        *int64     `json:"user_id,omitempty"`
	Tables        []int64    `json:"tables,omitempty"`
	AddTables     []int64    `json:"add_tables,omitempty"`
	DeleteTables  []int64    `json:"delete_tables,omitempty"`
}

// handleOrders lists and creates orders.
// GET /api/orders?user_id=&status=&from=&to=
// POST /api/orders
func (s *HTTPServer) handleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listOrders(w, r)
	case http.MethodPost:
		s.createOrder(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := parseOrderFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Unprivileged callers only see their own orders.
	caller := callerID(r)
	privileged, err := s.access.IsPrivileged(r.Context(), caller)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("privilege check failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !privileged {
		filter.UserID = &caller
	}
	orders, err := s.db.ListOrders(r.Context(), filter)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list orders failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (s *HTTPServer) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	caller := callerID(r)
	privileged, err := s.access.IsPrivileged(r.Context(), caller)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("privilege check failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Unprivileged callers book for themselves with the default status.
	if !privileged {
		req.Status = ""
		req.UserID = caller
	}
	if req.UserID == 0 {
		req.UserID = caller
	}

	var created *models.Order
	err = s.db.InTx(r.Context(), func(tx *database.Tx) error {
		v := booking.NewValidator(s.schedules, tx, tx, *zerolog.Ctx(r.Context()))
		candidate, err := v.ValidateCreate(r.Context(), booking.CreateRequest{
			Start:    req.StartDatetime,
			End:      req.EndDatetime,
			Status:   req.Status,
			UserID:   req.UserID,
			TableIDs: req.Tables,
		})
		if err != nil {
			return err
		}
		id, err := tx.InsertOrder(r.Context(), candidate)
		if err != nil {
			return err
		}
		candidate.ID = id
		created = candidate
		return nil
	})
	if err != nil {
		writeBookingError(w, r, err)
		return
	}

	metrics.IncOrderCreated(created.Status)
	zerolog.Ctx(r.Context()).Info().
		Int64("order_id", created.ID).
		Int64("user_id", created.UserID).
		Float64("cost", created.Cost).
		Msg("order created")
	writeJSON(w, http.StatusCreated, created)
}

// handleOrderByID fetches, patches or deletes a single order.
// GET/PATCH/DELETE /api/orders/{id}
func (s *HTTPServer) handleOrderByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/api/orders/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		order, err := s.db.GetOrder(r.Context(), id)
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("get order failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, order)

	case http.MethodPatch:
		s.patchOrder(w, r, id)

	case http.MethodDelete:
		if err := s.db.DeleteOrder(r.Context(), id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				writeError(w, http.StatusNotFound, "order not found")
				return
			}
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("delete order failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		metrics.IncOrderDeleted()
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) patchOrder(w http.ResponseWriter, r *http.Request, id int64) {
	var req PatchOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	privileged, err := s.access.IsPrivileged(r.Context(), callerID(r))
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("privilege check failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	// Status, cost and user reassignment stay privileged. The stripped
	// request may come out empty, which the booking core rejects.
	if !privileged {
		req.Status = nil
		req.Cost = nil
		req.UserID = nil
	}

	var updated *models.Order
	err = s.db.InTx(r.Context(), func(tx *database.Tx) error {
		existing, err := tx.GetOrder(r.Context(), id)
		if err != nil {
			return err
		}
		v := booking.NewValidator(s.schedules, tx, tx, *zerolog.Ctx(r.Context()))
		candidate, err := v.ValidatePatch(r.Context(), existing, booking.PatchRequest{
			Start:        req.StartDatetime,
			End:          req.EndDatetime,
			Status:       req.Status,
			Cost:         req.Cost,
			UserID:       req.UserID,
			Tables:       req.Tables,
			AddTables:    req.AddTables,
			DeleteTables: req.DeleteTables,
		})
		if err != nil {
			return err
		}
		if err := tx.UpdateOrder(r.Context(), candidate); err != nil {
			return err
		}
		updated = candidate
		return nil
	})
	if err != nil {
		writeBookingError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Int64("order_id", updated.ID).
		Float64("cost", updated.Cost).
		Msg("order updated")
	writeJSON(w, http.StatusOK, updated)
}

// handleOrdersReport streams the filtered order list as an xlsx workbook.
// GET /api/orders/report?user_id=&status=&from=&to=
func (s *HTTPServer) handleOrdersReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.access.RequirePrivilege(r.Context(), callerID(r)); err != nil {
		writeAccessError(w, r, err)
		return
	}
	filter, err := parseOrderFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	orders, err := s.db.ListOrders(r.Context(), filter)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list orders for report failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.xlsx"`)
	if err := report.WriteOrders(w, orders); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("render orders report failed")
	}
}

func parseOrderFilter(r *http.Request) (database.OrderFilter, error) {
	var filter database.OrderFilter
	q := r.URL.Query()

	if v := q.Get("user_id"); v != "" {
		id, err := parseID(v)
		if err != nil {
			return filter, errors.New("invalid user_id")
		}
		filter.UserID = &id
	}
	filter.Status = q.Get("status")
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(models.DayFormat, v)
		if err != nil {
			return filter, errors.New("invalid from date; expected YYYY-MM-DD")
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(models.DayFormat, v)
		if err != nil {
			return filter, errors.New("invalid to date; expected YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Second)
		filter.To = &end
	}
	return filter, nil
}

// Package api is the HTTP surface: order booking plus table, schedule and
// user administration. Handlers translate wire requests into booking-core
// calls and map rejections and inconsistencies onto status codes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"stolik/internal/access"
	"stolik/internal/booking"
	"stolik/internal/cache"
	"stolik/internal/database"
	"stolik/internal/metrics"
	"stolik/internal/models"
)

// userIDHeader identifies the caller. Authentication lives in front of
// this service; here the id only selects which fields the caller may set.
const userIDHeader = "X-User-ID"

// HTTPServer serves the booking API.
type HTTPServer struct {
	db        *database.DB
	schedules *cache.ScheduleCache
	access    *access.Service
	limiter   *rate.Limiter
	log       zerolog.Logger
	server    *http.Server
}

// NewHTTPServer wires the API over its collaborators.
func NewHTTPServer(
	port int,
	db *database.DB,
	schedules *cache.ScheduleCache,
	accessSvc *access.Service,
	ratePerSec, rateBurst int,
	logger zerolog.Logger,
) *HTTPServer {
	s := &HTTPServer{
		db:        db,
		schedules: schedules,
		access:    accessSvc,
		limiter:   rate.NewLimiter(rate.Limit(ratePerSec), rateBurst),
		log:       logger.With().Str("component", "api").Logger(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders", s.handleOrders)
	mux.HandleFunc("/api/orders/report", s.handleOrdersReport)
	mux.HandleFunc("/api/orders/", s.handleOrderByID)
	mux.HandleFunc("/api/tables", s.handleTables)
	mux.HandleFunc("/api/tables/", s.handleTableByID)
	mux.HandleFunc("/api/schedules", s.handleSchedules)
	mux.HandleFunc("/api/schedules/", s.handleScheduleByID)
	mux.HandleFunc("/api/users", s.handleUsers)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start serves until the listener fails or Shutdown is called.
func (s *HTTPServer) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("API server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// middleware stamps a request id into the logger context, applies the
// global rate limit and records a request metric per response.
func (s *HTTPServer) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			metrics.IncHTTPRequest(r.Method, r.URL.Path, strconv.Itoa(http.StatusTooManyRequests))
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}

		requestID := uuid.New().String()
		l := s.log.With().Str("request_id", requestID).Logger()
		ctx := l.WithContext(r.Context())

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		metrics.IncHTTPRequest(r.Method, r.URL.Path, strconv.Itoa(rec.code))
		l.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("code", rec.code).
			Msg("request handled")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// callerID extracts the requesting user's id; 0 means anonymous.
func callerID(r *http.Request) int64 {
	id, err := strconv.ParseInt(r.Header.Get(userIDHeader), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// pathID extracts the trailing numeric id from paths like /api/orders/42.
func pathID(path, prefix string) (int64, error) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == path || rest == "" || strings.Contains(rest, "/") {
		return 0, fmt.Errorf("invalid path")
	}
	return strconv.ParseInt(rest, 10, 64)
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// rejectionResponse is the 400 body for validation failures.
type rejectionResponse struct {
	Error               string  `json:"error"`
	Kind                string  `json:"kind"`
	ConflictingTableIDs []int64 `json:"conflicting_table_ids,omitempty"`
}

// writeBookingError maps booking-core failures onto HTTP statuses: typed
// rejections are client errors, schedule-store inconsistencies are server
// errors, anything else is unexpected.
func writeBookingError(w http.ResponseWriter, r *http.Request, err error) {
	if rej, ok := booking.AsRejection(err); ok {
		metrics.IncOrderRejected(string(rej.Kind))
		writeJSON(w, http.StatusBadRequest, rejectionResponse{
			Error:               rej.Message,
			Kind:                string(rej.Kind),
			ConflictingTableIDs: rej.ConflictingTableIDs,
		})
		return
	}
	if errors.Is(err, booking.ErrScheduleConflict) || errors.Is(err, booking.ErrScheduleMissing) {
		writeError(w, http.StatusInternalServerError, "schedule data is inconsistent")
		return
	}
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("booking operation failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeAccessError(w http.ResponseWriter, r *http.Request, err error) {
	if access.IsAccessDenied(err) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("privilege check failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

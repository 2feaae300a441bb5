// Package api exposes the prediction service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/apperr"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/config"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/data"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/logger"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/metrics"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/predict"
)

// Predictor is the prediction capability the handlers depend on.
type Predictor interface {
	Predict(ctx context.Context, rec data.Record) (float64, error)
	Validate(rec data.Record) error
	Ready() error
}

// Server routes requests to the predictor.
type Server struct {
	cfg       config.Server
	predictor Predictor
	log       *logger.Logger
	metrics   *metrics.Metrics
	limiter   *RateLimiter
	handler   http.Handler
}

// NewServer wires the router and middleware. A non-positive rate limit
// disables per-client limiting. Call Close to release the rate limiter.
func NewServer(cfg config.Server, p Predictor, log *logger.Logger, m *metrics.Metrics) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		cfg:       cfg,
		predictor: p,
		log:       log,
		metrics:   m,
	}
	if cfg.RateLimit > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimit, cfg.Burst)
	}

	router := mux.NewRouter()
	router.Use(s.requestID)
	router.Use(s.accessLog)
	router.Use(s.recovery)

	router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if m != nil {
		router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	router.Handle("/predict", s.rateLimit(s.maxBody(http.HandlerFunc(s.handlePredict)))).
		Methods(http.MethodPost)

	s.handler = cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	}).Handler(router)
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// PredictRequest is the body of POST /predict. Every field is required.
type PredictRequest struct {
	OnlineOrder *string  `json:"online_order"`
	BookTable   *string  `json:"book_table"`
	Votes       *int     `json:"votes"`
	RestType    *string  `json:"rest_type"`
	Cost        *float64 `json:"cost"`
	Type        *string  `json:"type"`
	City        *string  `json:"city"`
}

// Record converts the request, naming the first missing field.
func (req *PredictRequest) Record() (data.Record, error) {
	missing := func(field string) error {
		return apperr.NewValidationError(field, "field required")
	}
	switch {
	case req.OnlineOrder == nil:
		return data.Record{}, missing(data.ColOnlineOrder)
	case req.BookTable == nil:
		return data.Record{}, missing(data.ColBookTable)
	case req.Votes == nil:
		return data.Record{}, missing(data.ColVotes)
	case req.RestType == nil:
		return data.Record{}, missing(data.ColRestType)
	case req.Cost == nil:
		return data.Record{}, missing(data.ColCost)
	case req.Type == nil:
		return data.Record{}, missing(data.ColType)
	case req.City == nil:
		return data.Record{}, missing(data.ColCity)
	}
	return data.Record{
		OnlineOrder: *req.OnlineOrder,
		BookTable:   *req.BookTable,
		Votes:       *req.Votes,
		RestType:    *req.RestType,
		Cost:        *req.Cost,
		Type:        *req.Type,
		City:        *req.City,
	}, nil
}

// PredictResponse is the body of a successful prediction.
type PredictResponse struct {
	PredictedRating float64 `json:"predicted_rating"`
	Stars           int     `json:"stars,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the restaurant rating prediction API",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.predictor.Ready(); err != nil {
		s.log.Warnw("Health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, apperr.NewValidationError("body", "request body too large"))
			return
		}
		s.writeError(w, r, apperr.NewValidationError("body", "malformed JSON: "+err.Error()))
		return
	}

	rec, err := req.Record()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.predictor.Validate(rec); err != nil {
		s.writeError(w, r, err)
		return
	}

	start := time.Now()
	rating, err := s.predictor.Predict(r.Context(), rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Infow("Prediction served",
		"request_id", RequestID(r.Context()),
		"predicted_rating", rating,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	writeJSON(w, http.StatusOK, PredictResponse{PredictedRating: rating, Stars: predict.Stars(rating)})
}

// writeError logs err and writes its API payload. Only validation failures
// reveal their message to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	id := RequestID(r.Context())
	status, resp := apperr.NewResponse(err, id)
	if status >= http.StatusInternalServerError {
		s.log.Errorw("Request failed", "request_id", id, "kind", apperr.KindOf(err).String(), "error", err)
	} else {
		s.log.Infow("Request rejected", "request_id", id, "error", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

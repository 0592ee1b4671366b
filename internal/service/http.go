package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/prop-ensemble/internal/metrics"
	"github.com/yourusername/prop-ensemble/internal/models"
	"github.com/yourusername/prop-ensemble/internal/odds"
)

const maxRequestBytes = 8 << 20

// ScoreRequest is one prop to score. Prices may be quoted in any supported
// odds format and are resolved into the input's market fields.
type ScoreRequest struct {
	models.ModelInput
	OverPrice  string `json:"over_price,omitempty"`
	UnderPrice string `json:"under_price,omitempty"`
}

// BatchRequest wraps many props in one call
type BatchRequest struct {
	Items []ScoreRequest `json:"items"`
}

// BatchResponse carries one item per request item, in order
type BatchResponse struct {
	Items  []BatchItem `json:"items"`
	Scored int         `json:"scored"`
	Failed int         `json:"failed"`
}

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves the scoring API
type Handler struct {
	service      *ScoringService
	limiter      *rate.Limiter
	maxBatchSize int
	logger       *logrus.Logger
}

// HandlerConfig holds the configuration for the scoring handler
type HandlerConfig struct {
	RequestsPerSecond float64
	Burst             int
	MaxBatchSize      int
}

// NewHandler creates a new scoring handler
func NewHandler(svc *ScoringService, cfg HandlerConfig, log *logrus.Logger) *Handler {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Handler{
		service:      svc,
		limiter:      rate.NewLimiter(limit, burst),
		maxBatchSize: cfg.MaxBatchSize,
		logger:       log,
	}
}

// Routes returns the scoring routes keyed by pattern
func (h *Handler) Routes() map[string]http.Handler {
	return map[string]http.Handler{
		"POST /v1/score":       http.HandlerFunc(h.handleScore),
		"POST /v1/score/batch": http.HandlerFunc(h.handleBatch),
	}
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w) {
		return
	}

	var req ScoreRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	input, err := req.Resolve()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.service.Score(r.Context(), input)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w) {
		return
	}

	var req BatchRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("batch has no items"))
		return
	}
	if h.maxBatchSize > 0 && len(req.Items) > h.maxBatchSize {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Errorf("batch has %d items, limit is %d", len(req.Items), h.maxBatchSize))
		return
	}

	resp := BatchResponse{Items: make([]BatchItem, len(req.Items))}
	inputs := make([]*models.ModelInput, 0, len(req.Items))
	positions := make([]int, 0, len(req.Items))
	for i := range req.Items {
		input, err := req.Items[i].Resolve()
		if err != nil {
			resp.Items[i] = BatchItem{Index: i, Err: err, Error: err.Error()}
			continue
		}
		inputs = append(inputs, input)
		positions = append(positions, i)
	}

	items, err := h.service.ScoreBatch(r.Context(), inputs)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	for j, item := range items {
		item.Index = positions[j]
		resp.Items[positions[j]] = item
	}

	for _, item := range resp.Items {
		if item.Err != nil {
			resp.Failed++
		} else {
			resp.Scored++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) allow(w http.ResponseWriter) bool {
	if h.limiter.Allow() {
		return true
	}
	metrics.RecordThrottled()
	h.logger.Warn("Scoring request throttled")
	writeError(w, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
	return false
}

// Resolve returns the input with its quoted prices applied
func (r *ScoreRequest) Resolve() (*models.ModelInput, error) {
	return ResolveMarket(&r.ModelInput, r.OverPrice, r.UnderPrice)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrEmptyPlayer),
		errors.Is(err, models.ErrUnknownStatType),
		errors.Is(err, models.ErrInvalidLine),
		errors.Is(err, odds.ErrInvalidOdds):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

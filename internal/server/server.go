// Package server exposes the CGT calculator over a JSON HTTP API.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/iwvelando/cgt-calculator/internal/assessment"
	"github.com/iwvelando/cgt-calculator/internal/cgt"
	"github.com/iwvelando/cgt-calculator/internal/config"
	"github.com/iwvelando/cgt-calculator/pkg/constants"
	"github.com/iwvelando/cgt-calculator/pkg/datetime"
	"github.com/iwvelando/cgt-calculator/pkg/mathutil"
	"github.com/iwvelando/cgt-calculator/pkg/output"
	"github.com/iwvelando/cgt-calculator/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type handler struct {
	logger         *zap.Logger
	maxUploadSize  int64
	version        string
	now            func() time.Time
	defaults       config.Defaults
	allowedOrigins []string
}

// Option customises the handler built by NewHandler.
type Option func(*handler)

// WithClock sets the source of "today" used for unset sell dates.
func WithClock(now func() time.Time) Option {
	return func(h *handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithDefaults replaces the built-in input defaults.
func WithDefaults(defaults config.Defaults) Option {
	return func(h *handler) {
		h.defaults = defaults
	}
}

// WithAllowedOrigins enables CORS for the given origins.
func WithAllowedOrigins(origins []string) Option {
	return func(h *handler) {
		h.allowedOrigins = origins
	}
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, opts ...Option) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		now:           time.Now,
		defaults:      config.NewConfiguration().Defaults,
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	if len(h.allowedOrigins) > 0 {
		r.Use(newCORS(h.allowedOrigins).Handler)
	}

	r.Get("/healthz", h.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/calculate", h.handleCalculate)
		r.Get("/defaults", h.handleDefaults)
		r.Post("/batch", h.handleBatch)
		r.Get("/version", h.handleVersion)
	})

	return r
}

type calculateRequest struct {
	BuyPrice  *decimal.Decimal `json:"buyPrice"`
	BuyDate   string           `json:"buyDate"`
	SellPrice *decimal.Decimal `json:"sellPrice"`
	SellDate  string           `json:"sellDate"`
}

type calculateResponse struct {
	ID string `json:"id"`
	output.Record
	Duration string `json:"duration"`
}

type validationErrorResponse struct {
	ID        string `json:"id"`
	ErrorKind string `json:"errorKind"`
	Message   string `json:"message"`
}

type defaultsResponse struct {
	BuyPrice  float64 `json:"buyPrice"`
	BuyDate   string  `json:"buyDate"`
	SellPrice float64 `json:"sellPrice"`
	SellDate  string  `json:"sellDate"`
}

type batchResponse struct {
	ID        string          `json:"id"`
	Scenarios []output.Record `json:"scenarios"`
	CSV       string          `json:"csv"`
	Warnings  []string        `json:"warnings,omitempty"`
	Duration  string          `json:"duration"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	start := time.Now()
	id := uuid.NewString()

	limit := min(h.maxUploadSize, constants.MaxCalculateBodyBytes)
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	var req calculateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", limit), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	input, err := h.buildInput(req)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	result := assessment.AssessOne(h.logger, id, input)
	if result.Failed() {
		var validationErr *cgt.ValidationError
		if errors.As(result.Err, &validationErr) {
			h.writeJSON(w, http.StatusUnprocessableEntity, validationErrorResponse{
				ID:        id,
				ErrorKind: validationErr.Kind.String(),
				Message:   validationErr.Message,
			})
			return
		}
		h.respondErrorWithOp(w, http.StatusInternalServerError, result.Err.Error(), op)
		return
	}

	record := output.NewRecord(result)
	record.Name = ""
	elapsed := time.Since(start)

	h.logger.Info("disposal calculated",
		zap.String("op", op),
		zap.String("id", id),
		zap.Stringer("outcome", result.Result.Outcome),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, calculateResponse{ID: id, Record: record, Duration: elapsed.String()})
}

func (h *handler) buildInput(req calculateRequest) (cgt.DisposalInput, error) {
	today := datetime.CalendarDate(h.now())

	input := cgt.DisposalInput{
		BuyPrice:  mathutil.FromFloat(h.defaults.BuyPrice),
		SellPrice: mathutil.FromFloat(h.defaults.SellPrice),
	}
	if req.BuyPrice != nil {
		input.BuyPrice = *req.BuyPrice
	}
	if req.SellPrice != nil {
		input.SellPrice = *req.SellPrice
	}
	if err := validation.ValidatePrice("buyPrice", input.BuyPrice); err != nil {
		return cgt.DisposalInput{}, err
	}
	if err := validation.ValidatePrice("sellPrice", input.SellPrice); err != nil {
		return cgt.DisposalInput{}, err
	}

	buyDate := h.defaults.BuyDate
	if strings.TrimSpace(buyDate) == "" {
		buyDate = constants.DefaultBuyDate
	}
	defaultBuyDate, err := datetime.ParseDate(buyDate)
	if err != nil {
		return cgt.DisposalInput{}, fmt.Errorf("defaults buyDate: %w", err)
	}
	defaultSellDate, err := datetime.ParseDateOr(h.defaults.SellDate, today)
	if err != nil {
		return cgt.DisposalInput{}, fmt.Errorf("defaults sellDate: %w", err)
	}

	if input.BuyDate, err = datetime.ParseDateOr(req.BuyDate, defaultBuyDate); err != nil {
		return cgt.DisposalInput{}, fmt.Errorf("buyDate: %w", err)
	}
	if input.SellDate, err = datetime.ParseDateOr(req.SellDate, defaultSellDate); err != nil {
		return cgt.DisposalInput{}, fmt.Errorf("sellDate: %w", err)
	}
	return input, nil
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	input, err := h.buildInput(calculateRequest{})
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleDefaults")
		return
	}

	h.writeJSON(w, http.StatusOK, defaultsResponse{
		BuyPrice:  mathutil.ToFloat(input.BuyPrice),
		BuyDate:   datetime.FormatDate(input.BuyDate),
		SellPrice: mathutil.ToFloat(input.SellPrice),
		SellDate:  datetime.FormatDate(input.SellDate),
	})
}

func (h *handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBatch"
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := cfg.ParseDatesWithFixedTime(h.now()); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse dates: %v", err), op)
		return
	}
	warnings := cfg.ValidateConfiguration()

	results, err := assessment.Assess(r.Context(), h.logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	response := batchResponse{
		ID:        uuid.NewString(),
		Scenarios: output.NewRecords(results),
		CSV:       output.CsvString(results),
		Warnings:  warnings,
		Duration:  elapsed.String(),
	}

	h.logger.Info("batch assessed",
		zap.String("op", op),
		zap.String("id", response.ID),
		zap.Int("scenarios", len(response.Scenarios)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// Package server exposes the quote, eligibility and projection calculators
// over HTTP.
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

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/iwvelando/loan-quote/internal/config"
	"github.com/iwvelando/loan-quote/internal/quote"
	"github.com/iwvelando/loan-quote/pkg/constants"
	"github.com/iwvelando/loan-quote/pkg/eligibility"
	"github.com/iwvelando/loan-quote/pkg/finance"
	"github.com/iwvelando/loan-quote/pkg/format"
	"github.com/iwvelando/loan-quote/pkg/output"
	"github.com/iwvelando/loan-quote/pkg/validation"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	currency      config.CurrencyConfig
	validate      *validator.Validate
	projector     *finance.ProjectionProcessor
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(logger *zap.Logger, cfg *Config) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = defaultConfig()
	}

	maxUploadSize := cfg.UploadSizeBytes()
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		version = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       version,
		currency:      cfg.Currency,
		validate:      newValidator(),
		projector:     finance.NewProjectionProcessor(logger),
	}

	r := mux.NewRouter()
	r.Use(requestID)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/quote", h.handleQuote).Methods(http.MethodPost)
	api.HandleFunc("/eligibility", h.handleEligibility).Methods(http.MethodPost)
	api.HandleFunc("/roi", h.handleROI).Methods(http.MethodPost)
	api.HandleFunc("/batch", h.handleBatch).Methods(http.MethodPost)
	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: http.StatusText(http.StatusNotFound)})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: http.StatusText(http.StatusMethodNotAllowed)})
	})

	return r
}

type quoteRequest struct {
	Principal     float64  `json:"principal" validate:"gt=0"`
	AnnualRate    *float64 `json:"annualRate" validate:"required,gte=0"`
	TermMonths    int      `json:"termMonths" validate:"gt=0"`
	PropertyValue float64  `json:"propertyValue" validate:"gte=0"`
	Locale        string   `json:"locale" validate:"omitempty,max=35"`
	Currency      string   `json:"currency" validate:"omitempty,len=3,alpha"`
	Schedule      bool     `json:"schedule"`
	StartDate     string   `json:"startDate" validate:"omitempty,datetime=2006-01"`
}

type eligibilityRequest struct {
	PropertyValue   float64 `json:"propertyValue" validate:"gte=0"`
	RequestedAmount float64 `json:"requestedAmount" validate:"gte=0"`
	CeilingRatio    float64 `json:"ceilingRatio" validate:"gte=0,lte=1"`
	Locale          string  `json:"locale" validate:"omitempty,max=35"`
	Currency        string  `json:"currency" validate:"omitempty,len=3,alpha"`
}

type eligibilityResponse struct {
	eligibility.Assessment
	MaxLoanAmountDisplay string `json:"maxLoanAmountDisplay"`
}

type roiRequest struct {
	Name                string  `json:"name"`
	Principal           float64 `json:"principal" validate:"gt=0"`
	AnnualReturnRate    float64 `json:"annualReturnRate"`
	TaxRate             float64 `json:"taxRate" validate:"gte=0,lte=100"`
	Months              int     `json:"months" validate:"gt=0,lte=600"`
	MonthlyContribution float64 `json:"monthlyContribution" validate:"gte=0"`
}

type batchResult struct {
	quote.Result
	Error string `json:"error,omitempty"`
}

type batchResponse struct {
	Quotes   []batchResult `json:"quotes"`
	CSV      string        `json:"csv"`
	Warnings []string      `json:"warnings,omitempty"`
	Duration string        `json:"duration"`
}

func (h *handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleQuote"
	var req quoteRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	profile, err := h.profile(req.Locale, req.Currency)
	if err != nil {
		h.respondDomainError(w, r, err, op)
		return
	}

	result := quote.NewEvaluator(h.logger, profile, constants.DefaultCeilingRatio).Evaluate(config.Quote{
		Name:          "api",
		Active:        true,
		Principal:     req.Principal,
		AnnualRate:    *req.AnnualRate,
		TermMonths:    req.TermMonths,
		PropertyValue: req.PropertyValue,
		StartDate:     req.StartDate,
		Schedule:      req.Schedule,
	})
	if result.Err != nil {
		h.respondDomainError(w, r, result.Err, op)
		return
	}

	h.requestLogger(r, op).Info("quote computed",
		zap.String("payment", result.Quote.Payment.StringFixed(constants.CurrencyDecimalPlaces)),
		zap.Int("termMonths", req.TermMonths),
	)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleEligibility(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEligibility"
	var req eligibilityRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	profile, err := h.profile(req.Locale, req.Currency)
	if err != nil {
		h.respondDomainError(w, r, err, op)
		return
	}

	assessment, err := eligibility.Assess(req.RequestedAmount, req.PropertyValue, req.CeilingRatio)
	if err != nil {
		h.respondDomainError(w, r, err, op)
		return
	}
	display, err := format.FormatWithProfile(assessment.MaxLoanAmount, profile)
	if err != nil {
		h.respondDomainError(w, r, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, eligibilityResponse{Assessment: assessment, MaxLoanAmountDisplay: display})
}

func (h *handler) handleROI(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleROI"
	var req roiRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	projection, err := h.projector.Project(finance.ProjectionInput{
		Name:                req.Name,
		Principal:           req.Principal,
		AnnualReturnRate:    req.AnnualReturnRate,
		TaxRate:             req.TaxRate,
		Months:              req.Months,
		MonthlyContribution: req.MonthlyContribution,
	})
	if err != nil {
		h.respondDomainError(w, r, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, projection)
}

func (h *handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBatch"
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				ErrorResponse{Error: fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize)}, op)
			return
		}
		h.respondError(w, r, http.StatusBadRequest,
			ErrorResponse{Error: fmt.Sprintf("failed to parse upload: %v", err)}, op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, ErrorResponse{Error: "missing configuration file"}, op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.requestLogger(r, op).Warn("failed to close uploaded file", zap.Error(closeErr))
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, r, http.StatusInternalServerError,
			ErrorResponse{Error: fmt.Sprintf("failed to read configuration: %v", err)}, op)
		return
	}

	conf, err := config.LoadConfigurationFromReader(&buf)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, ErrorResponse{Error: err.Error()}, op)
		return
	}
	warnings := conf.ValidateConfiguration()

	results, err := quote.Run(h.logger.With(zap.String("requestId", RequestIDFromContext(r.Context()))), *conf)
	if err != nil {
		h.respondDomainError(w, r, err, op)
		return
	}

	response := batchResponse{
		Quotes:   make([]batchResult, 0, len(results)),
		CSV:      output.CsvString(results),
		Warnings: warnings,
		Duration: time.Since(start).String(),
	}
	for _, result := range results {
		entry := batchResult{Result: result}
		if result.Err != nil {
			entry.Error = result.Err.Error()
		}
		response.Quotes = append(response.Quotes, entry)
	}

	h.requestLogger(r, op).Info("quote batch computed",
		zap.Int("quotes", len(response.Quotes)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// profile resolves the request currency, falling back to the server default
// for whichever half is missing.
func (h *handler) profile(locale, code string) (format.Profile, error) {
	if locale == "" {
		locale = h.currency.Locale
	}
	if code == "" {
		code = h.currency.Code
	}
	return format.ResolveProfile(locale, code)
}

// decode reads and validates a JSON body, writing the error response itself
// when it returns false.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.respondError(w, r, http.StatusBadRequest,
			ErrorResponse{Error: fmt.Sprintf("failed to decode request: %v", err)}, op)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.respondError(w, r, http.StatusUnprocessableEntity,
			ErrorResponse{Error: validation.ErrInvalidInput.Error(), Details: toFieldErrors(err)}, op)
		return false
	}
	return true
}

// respondDomainError maps calculator errors onto HTTP statuses.
func (h *handler) respondDomainError(w http.ResponseWriter, r *http.Request, err error, op string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, validation.ErrDivisionByZero):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, validation.ErrInvalidInput):
		status = http.StatusUnprocessableEntity
	}
	h.respondError(w, r, status, ErrorResponse{Error: err.Error(), Details: toFieldErrors(err)}, op)
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse, op string) {
	h.requestLogger(r, op).Error("request failed",
		zap.Int("status", status),
		zap.String("error", body.Error),
	)
	body.RequestID = RequestIDFromContext(r.Context())
	h.writeJSON(w, status, body)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

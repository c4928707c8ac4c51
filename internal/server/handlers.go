package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/agbru/numex/internal/calendar"
	apperrors "github.com/agbru/numex/internal/errors"
	"github.com/agbru/numex/internal/fibonacci"
	"github.com/agbru/numex/internal/fit"
	"github.com/agbru/numex/internal/histogram"
	"github.com/agbru/numex/internal/neutron"
	"github.com/agbru/numex/internal/physconst"
	"github.com/agbru/numex/internal/service"
	"github.com/agbru/numex/internal/stats"
	"github.com/agbru/numex/pkg/models"
)

// handleHealth responds to health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleAlgorithms returns the registered Fibonacci algorithms.
func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]any{
		"algorithms": s.service.Algorithms(),
	})
}

// handleFibonacci serves GET /fibonacci?n=<index>&algo=<algorithm>.
func (s *Server) handleFibonacci(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	n, algo, err := s.parseFibonacciParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	start := time.Now()
	value, err := s.service.Fibonacci(ctx, algo, n)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, models.FibonacciResponse{
		N:         n,
		Result:    value,
		Algorithm: algo,
		Duration:  time.Since(start).String(),
	})
}

// parseFibonacciParams reads n and algo from the query string. A missing
// algo falls back to the configured one, and "all" to the iterative
// strategy.
func (s *Server) parseFibonacciParams(r *http.Request) (uint64, string, error) {
	q := r.URL.Query()
	nStr := q.Get("n")
	if nStr == "" {
		return 0, "", badRequest("Missing 'n' parameter")
	}
	n, err := strconv.ParseUint(nStr, 10, 64)
	if err != nil {
		return 0, "", badRequest("Invalid 'n' parameter: must be a non-negative integer")
	}
	if n > s.securityConfig.MaxNValue {
		return 0, "", badRequest(fmt.Sprintf("Value 'n' exceeds maximum allowed (%d)", s.securityConfig.MaxNValue))
	}

	algo := q.Get("algo")
	if algo == "" {
		algo = s.cfg.Algo
	}
	if algo == "" || algo == "all" {
		algo = fibonacci.AlgoIterative
	}
	if !slices.Contains(s.service.Algorithms(), algo) {
		return 0, "", badRequest(fmt.Sprintf("Unknown algorithm %q", algo))
	}
	return n, algo, nil
}

// handleLeapYear serves GET /leapyear?year=<year>.
func (s *Server) handleLeapYear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	yearStr := r.URL.Query().Get("year")
	if yearStr == "" {
		s.writeErrorResponse(w, http.StatusBadRequest, "Missing 'year' parameter")
		return
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid 'year' parameter: must be an integer")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	leap, err := s.service.LeapYear(ctx, year)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.LeapYearResponse{
		Year: year, LeapYear: leap, Days: calendar.DaysInYear(year),
	})
}

// handleHistogram serves POST /histogram.
func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	var req models.HistogramRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	counts, err := s.service.Histogram(ctx, models.Floats(req.Data), models.Floats(req.Edges))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.HistogramResponse{
		Counts: counts, Edges: req.Edges, Total: histogram.Total(counts),
	})
}

// handleChiSquared serves POST /chisquared.
func (s *Server) handleChiSquared(w http.ResponseWriter, r *http.Request) {
	var req models.ChiSquaredRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if req.NParams < 0 {
		s.writeError(w, apperrors.NewValidationError("n_params", "must not be negative", req.NParams))
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	chi2, err := s.service.ChiSquared(ctx, models.Floats(req.Model), models.Floats(req.Meas), models.Floats(req.Errors))
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := models.ChiSquaredResponse{ChiSquared: models.Float(chi2)}
	if req.NParams > 0 {
		reduced, err := stats.ReducedChiSquared(chi2, len(req.Model), req.NParams)
		if err != nil {
			s.writeError(w, err)
			return
		}
		f := models.Float(reduced)
		resp.ReducedChiSquared = &f
	}
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// handleParabola serves POST /fit/parabola. Missing start parameters
// default to zeros; the fit result does not depend on them.
func (s *Server) handleParabola(w http.ResponseWriter, r *http.Request) {
	var req models.ParabolaRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	start := models.Floats(req.StartParams)
	if len(start) == 0 {
		start = make([]float64, fit.NumParams)
	}
	x, y, errs := models.Floats(req.X), models.Floats(req.Y), models.Floats(req.Errors)

	ctx, cancel := s.requestContext(r)
	defer cancel()

	p, err := s.service.FitParabola(ctx, x, y, errs, start)
	if err != nil {
		s.writeError(w, err)
		return
	}
	chi2, err := s.service.ChiSquared(ctx, p.Predict(x), y, errs)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, models.ParabolaResponse{
		A0:         models.Float(p.A0),
		A1:         models.Float(p.A1),
		A2:         models.Float(p.A2),
		ChiSquared: models.Float(chi2),
		Equation:   p.String(),
	})
}

// handleEnergyTransfer serves POST /energy-transfer. The mode field is
// required; a missing or unknown geometry is rejected with 422.
func (s *Server) handleEnergyTransfer(w http.ResponseWriter, r *http.Request) {
	var req models.EnergyTransferRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	mode, err := neutron.ParseMode(req.Mode)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	e, err := s.service.EnergyTransfer(ctx, float64(req.EiOrEf), float64(req.Tof), float64(req.L1), float64(req.L2), mode)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.EnergyTransferResponse{
		Mode:              mode.String(),
		EnergyTransfer:    models.Float(e),
		EnergyTransferMeV: models.Float(physconst.JoulesToMeV(e)),
	})
}

// decodeRequest checks the method and decodes a bounded JSON body into dst.
// It writes the error response itself and reports whether decoding
// succeeded.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.securityConfig.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			s.writeErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			s.writeError(w, apperrors.NewValidationError("body", "request body is empty", nil))
		default:
			s.writeError(w, apperrors.NewValidationError("body", err.Error(), nil))
		}
		return false
	}
	return true
}

// requestContext bounds a request by the configured request timeout.
func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
}

// writeError maps err to its HTTP status and writes it.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var reqErr RequestError
	status := apperrors.HTTPStatus(err)
	switch {
	case errors.As(err, &reqErr):
		status = reqErr.StatusCode
	case errors.Is(err, service.ErrMaxValueExceeded):
		status = http.StatusBadRequest
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", err)
	}
	s.writeErrorResponse(w, status, err.Error())
}

// writeJSONResponse writes a JSON response with the given status code.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding response", err)
	}
}

// writeErrorResponse writes a models.ErrorResponse.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

package http

import (
	"errors"
	"net/http"

	"painpredict/ml"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Readiness reports whether the models behind the predictor can serve.
type Readiness interface {
	Ready() error
	Stale() (bool, string)
}

// Handler 预测接口处理器
type Handler struct {
	predictor   ml.Predictor
	readiness   Readiness
	interpreter *ml.Interpreter
	logger      *zap.Logger
}

func NewHandler(predictor ml.Predictor, readiness Readiness, interpreter *ml.Interpreter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		predictor:   predictor,
		readiness:   readiness,
		interpreter: interpreter,
		logger:      logger,
	}
}

func RegisterHandlers(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/schemas", h.handleSchemas)
	mux.HandleFunc("POST /api/predict", h.handlePredict)
}

type horizonResponse struct {
	HorizonHours   int     `json:"horizon_hours"`
	Probability    float64 `json:"probability"`
	Percent        string  `json:"percent"`
	Interpretation string  `json:"interpretation"`
}

type predictResponse struct {
	Predictions []horizonResponse `json:"predictions"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Model string `json:"model,omitempty"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.readiness.Ready(); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	if stale, reason := h.readiness.Stale(); stale {
		respondJSON(w, http.StatusOK, map[string]string{"status": "stale", "reason": reason})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleSchemas(w http.ResponseWriter, r *http.Request) {
	type schemaResponse struct {
		HorizonHours int      `json:"horizon_hours"`
		Model        string   `json:"model"`
		Columns      []string `json:"columns"`
	}
	schemas := make([]schemaResponse, 0, 2)
	for _, horizon := range ml.Horizons() {
		columns := make([]string, len(horizon.Schema.Columns))
		for i, field := range horizon.Schema.Columns {
			columns[i] = string(field)
		}
		schemas = append(schemas, schemaResponse{
			HorizonHours: horizon.Hours,
			Model:        string(horizon.Model),
			Columns:      columns,
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"schemas": schemas})
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var in ml.ObservationInput
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	obs, err := ml.NewObservation(in)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	prediction, err := h.predictor.Predict(obs)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	response := predictResponse{Predictions: make([]horizonResponse, 0, 2)}
	for _, result := range prediction.Results() {
		response.Predictions = append(response.Predictions, horizonResponse{
			HorizonHours:   result.HorizonHours,
			Probability:    result.Probability,
			Percent:        h.interpreter.Percent(result.Probability),
			Interpretation: h.interpreter.Interpret(result.Probability, result.HorizonHours),
		})
	}
	respondJSON(w, http.StatusOK, response)
}

// respondError maps the three pipeline error kinds to distinct statuses.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalid *ml.InvalidValueError
		loadErr *ml.ModelLoadError
		predErr *ml.PredictionError
	)
	requestID := GetRequestID(r.Context())
	switch {
	case errors.As(err, &loadErr):
		h.logger.Error("prediction refused, models unavailable", zap.String("request_id", requestID), zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "prediction service unavailable", Model: string(loadErr.Model)})
	case errors.As(err, &invalid):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: invalid.Error(), Field: string(invalid.Field)})
	case errors.As(err, &predErr):
		h.logger.Warn("prediction failed", zap.String("request_id", requestID), zap.Error(err))
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: predErr.Error(), Field: string(predErr.Field), Model: string(predErr.Model)})
	default:
		h.logger.Error("prediction failed", zap.String("request_id", requestID), zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

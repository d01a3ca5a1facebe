package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	bonusRequest "github.com/LavaJover/shvark-bonus-service/internal/delivery/http/dto/bonus/request"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-bonus-service/internal/usecase/engine"
	"github.com/go-chi/chi/v5"
)

type EngineHandler struct {
	engine    engine.BonusEngineUsecase
	runLogger *logger.PGRunReportLogger
}

func NewEngineHandler(bonusEngine engine.BonusEngineUsecase, runLogger *logger.PGRunReportLogger) *EngineHandler {
	return &EngineHandler{engine: bonusEngine, runLogger: runLogger}
}

// Preview не пишет и не блокирует ничего: безопасно дергать из UI
func (h *EngineHandler) Preview(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("companyId")
	workerID := r.URL.Query().Get("workerId")
	if workerID == "" {
		writeError(w, http.StatusBadRequest, "workerId is required")
		return
	}

	asOf, err := parseAsOf(r.URL.Query().Get("asOf"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "asOf must be RFC3339")
		return
	}

	output, err := h.engine.Preview(r.Context(), companyID, chi.URLParam(r, "id"), workerID, asOf)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

func (h *EngineHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req bonusRequest.RunEngineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "as_of must be RFC3339")
		return
	}

	output, runErr := func() (interface{}, error) {
		if req.RuleID != "" {
			return h.engine.RunRule(r.Context(), req.CompanyID, req.RuleID, req.WorkerID, asOf)
		}
		return h.engine.RunAll(r.Context(), req.CompanyID, asOf)
	}()
	if runErr != nil {
		writeDomainError(w, runErr)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

func (h *EngineHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("companyId")
	reports, err := h.runLogger.ListRuns(r.Context(), companyID, 50)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func parseAsOf(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

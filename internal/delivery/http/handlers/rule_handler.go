package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	bonusRequest "github.com/LavaJover/shvark-bonus-service/internal/delivery/http/dto/bonus/request"
	bonusResponse "github.com/LavaJover/shvark-bonus-service/internal/delivery/http/dto/bonus/response"
	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	"github.com/LavaJover/shvark-bonus-service/internal/usecase"
	ruledto "github.com/LavaJover/shvark-bonus-service/internal/usecase/dto/rule"
	"github.com/go-chi/chi/v5"
)

type RuleHandler struct {
	ruleUsecase usecase.RuleUsecase
}

func NewRuleHandler(ruleUsecase usecase.RuleUsecase) *RuleHandler {
	return &RuleHandler{ruleUsecase: ruleUsecase}
}

func (h *RuleHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req bonusRequest.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	output, err := h.ruleUsecase.CreateRule(r.Context(), &ruledto.CreateRuleInput{
		CompanyID:  req.CompanyID,
		Name:       req.Name,
		WindowType: domain.WindowType(req.WindowType),
		Priority:   req.Priority,
		Active:     req.Active,
		Config:     req.Config.ToDomainConfig(),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bonusResponse.FromDomainRule(&output.Rule))
}

func (h *RuleHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	var req bonusRequest.UpdateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := &ruledto.UpdateRuleInput{
		CompanyID: req.CompanyID,
		RuleID:    chi.URLParam(r, "id"),
		Name:      req.Name,
		Priority:  req.Priority,
	}
	if req.Config != nil {
		config := req.Config.ToDomainConfig()
		input.Config = &config
	}

	output, err := h.ruleUsecase.UpdateRule(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bonusResponse.FromDomainRule(&output.Rule))
}

func (h *RuleHandler) SetRuleActive(w http.ResponseWriter, r *http.Request) {
	var req bonusRequest.SetRuleActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.ruleUsecase.SetRuleActive(r.Context(), req.CompanyID, chi.URLParam(r, "id"), req.Active); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RuleHandler) CloneRule(w http.ResponseWriter, r *http.Request) {
	var req bonusRequest.CloneRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	output, err := h.ruleUsecase.CloneRule(r.Context(), &ruledto.CloneRuleInput{
		CompanyID: req.CompanyID,
		RuleID:    chi.URLParam(r, "id"),
		Name:      req.Name,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bonusResponse.FromDomainRule(&output.Rule))
}

func (h *RuleHandler) GetRule(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("companyId")
	output, err := h.ruleUsecase.GetRule(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bonusResponse.FromDomainRule(&output.Rule))
}

func (h *RuleHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("companyId")
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	output, err := h.ruleUsecase.ListRules(r.Context(), companyID, activeOnly)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := bonusResponse.ListRulesResponse{
		Rules: make([]bonusResponse.RuleResponse, 0, len(output.Rules)),
		Total: output.Total,
	}
	for _, rule := range output.Rules {
		resp.Rules = append(resp.Rules, bonusResponse.FromDomainRule(rule))
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, bonusResponse.ErrorResponse{Error: message})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRuleNotFound), errors.Is(err, domain.ErrWorkerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTierConfiguration), errors.Is(err, domain.ErrRuleInactive):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

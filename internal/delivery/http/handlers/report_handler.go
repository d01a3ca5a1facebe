package handlers

import (
	"net/http"
	"strconv"
	"time"

	bonusResponse "github.com/LavaJover/shvark-bonus-service/internal/delivery/http/dto/bonus/response"
	"github.com/LavaJover/shvark-bonus-service/internal/domain"
)

// ReportHandler отдает read-only выборки начислений и прогресса
type ReportHandler struct {
	awardRepo    domain.AwardRepository
	progressRepo domain.ProgressRepository
}

func NewReportHandler(awardRepo domain.AwardRepository, progressRepo domain.ProgressRepository) *ReportHandler {
	return &ReportHandler{awardRepo: awardRepo, progressRepo: progressRepo}
}

func (h *ReportHandler) ListAwards(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	companyID := query.Get("companyId")

	filters := domain.AwardFilters{
		WorkerID:  query.Get("workerId"),
		RuleID:    query.Get("ruleId"),
		MinAmount: parseInt64(query.Get("minAmount"), 0),
		MaxAmount: parseInt64(query.Get("maxAmount"), 0),
	}
	if from := query.Get("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be RFC3339")
			return
		}
		filters.From = parsed
	}
	if to := query.Get("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			writeError(w, http.StatusBadRequest, "to must be RFC3339")
			return
		}
		filters.To = parsed
	}

	page := parseInt64(query.Get("page"), 1)
	limit := parseInt64(query.Get("limit"), 50)

	awards, totals, err := h.awardRepo.ListAwards(r.Context(), companyID, filters, page, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := bonusResponse.ListAwardsResponse{
		Awards:           make([]bonusResponse.AwardResponse, 0, len(awards)),
		TotalCount:       totals.Count,
		TotalAmountCents: totals.TotalAmountCents,
	}
	for _, award := range awards {
		resp.Awards = append(resp.Awards, bonusResponse.FromDomainAward(award))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ReportHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	companyID := query.Get("companyId")

	progress, err := h.progressRepo.ListProgress(r.Context(), companyID, domain.ProgressFilters{
		WorkerID: query.Get("workerId"),
		RuleID:   query.Get("ruleId"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := bonusResponse.ListProgressResponse{
		Progress: make([]bonusResponse.ProgressResponse, 0, len(progress)),
	}
	for _, p := range progress {
		resp.Progress = append(resp.Progress, bonusResponse.FromDomainProgress(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseInt64(raw string, fallback int64) int64 {
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/service/quota"
	"github.com/ignite/outreach/internal/service/send"
)

// SendRunner is the slice of the send orchestrator the API needs.
type SendRunner interface {
	Send(ctx context.Context, in send.Input) (*send.Output, error)
}

// QuotaReader serves the read-only quota endpoints.
type QuotaReader interface {
	State(ctx context.Context) (domain.QuotaState, error)
	ValidateSendRequest(ctx context.Context, requested int) (*quota.ValidationResult, error)
}

// CampaignLister serves the campaign listing.
type CampaignLister interface {
	List(ctx context.Context, limit, offset int) ([]domain.CampaignSummary, error)
}

// OpenStatsReader serves per-campaign open statistics.
type OpenStatsReader interface {
	CampaignStats(ctx context.Context, campaignID string) (domain.OpenStats, error)
}

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	sender    SendRunner
	quotas    QuotaReader
	prober    quota.CapacityProber
	campaigns CampaignLister
	opens     OpenStatsReader
}

// NewHandlers creates the API handlers. prober may be nil; the quota
// endpoint then reports the local state only.
func NewHandlers(sender SendRunner, quotas QuotaReader, prober quota.CapacityProber, campaigns CampaignLister, opens OpenStatsReader) *Handlers {
	return &Handlers{
		sender:    sender,
		quotas:    quotas,
		prober:    prober,
		campaigns: campaigns,
		opens:     opens,
	}
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type validateRequest struct {
	ContactIDs []string `json:"contact_ids"`
}

type validateResponse struct {
	CanSend   bool     `json:"can_send"`
	Reasons   []string `json:"reasons"`
	Warnings  []string `json:"warnings"`
	Remaining int      `json:"remaining"`
}

// HandleValidate runs the quota pre-flight for a prospective send
// without consuming anything.
func (h *Handlers) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ContactIDs) == 0 {
		respondError(w, http.StatusBadRequest, "contact_ids is required")
		return
	}

	res, err := h.quotas.ValidateSendRequest(r.Context(), len(req.ContactIDs))
	if err != nil {
		respondSafeError(w, http.StatusInternalServerError, err, "quota check failed")
		return
	}

	reasons := make([]string, 0, len(res.Reasons))
	for _, reason := range res.Reasons {
		reasons = append(reasons, reason.Message)
	}
	respondJSON(w, http.StatusOK, validateResponse{
		CanSend:   res.Allowed,
		Reasons:   reasons,
		Warnings:  res.Warnings,
		Remaining: res.EffectiveRemaining,
	})
}

// HandleSend runs one send request through the full pipeline.
func (h *Handlers) HandleSend(w http.ResponseWriter, r *http.Request) {
	var in send.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := h.sender.Send(r.Context(), in)
	if err != nil {
		h.respondSendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// respondSendError maps pipeline errors onto HTTP statuses. Input
// problems are 400, quota denials 429, everything else a sanitized 500.
func (h *Handlers) respondSendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, send.ErrNoRecipients),
		errors.Is(err, send.ErrEmptySubject),
		errors.Is(err, send.ErrEmptyBody),
		errors.Is(err, send.ErrNoValidContacts):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, quota.ErrQuotaExceeded):
		h.respondQuotaDenied(w, err)
	default:
		respondSafeError(w, http.StatusInternalServerError, err, "send failed")
	}
}

func (h *Handlers) respondQuotaDenied(w http.ResponseWriter, err error) {
	body := map[string]interface{}{"error": err.Error()}

	var denied *send.QuotaDeniedError
	if errors.As(err, &denied) {
		reasons := make([]string, 0, len(denied.Result.Reasons))
		for _, reason := range denied.Result.Reasons {
			reasons = append(reasons, reason.Message)
		}
		body["reasons"] = reasons
		body["remaining"] = denied.Result.EffectiveRemaining
	}
	var reservation *quota.ReservationError
	if errors.As(err, &reservation) {
		body["remaining"] = reservation.Limit - reservation.Used
	}

	respondJSON(w, http.StatusTooManyRequests, body)
}

// HandleQuota reports today's local quota state and, when the probe is
// wired and succeeds, the provider's own view.
func (h *Handlers) HandleQuota(w http.ResponseWriter, r *http.Request) {
	st, err := h.quotas.State(r.Context())
	if err != nil {
		respondSafeError(w, http.StatusInternalServerError, err, "quota state unavailable")
		return
	}

	body := map[string]interface{}{"local": st}
	if h.prober != nil {
		if pc, perr := h.prober.Capacity(r.Context()); perr == nil {
			body["provider"] = pc
		}
	}
	respondJSON(w, http.StatusOK, body)
}

// HandleListCampaigns lists campaigns with their aggregate send counts.
func (h *Handlers) HandleListCampaigns(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	campaigns, err := h.campaigns.List(r.Context(), limit, offset)
	if err != nil {
		respondSafeError(w, http.StatusInternalServerError, err, "failed to list campaigns")
		return
	}
	if campaigns == nil {
		campaigns = []domain.CampaignSummary{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"campaigns": campaigns})
}

// HandleCampaignOpens returns the open statistics for one campaign.
func (h *Handlers) HandleCampaignOpens(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")
	if campaignID == "" {
		respondError(w, http.StatusBadRequest, "campaign id is required")
		return
	}

	stats, err := h.opens.CampaignStats(r.Context(), campaignID)
	if err != nil {
		respondSafeError(w, http.StatusInternalServerError, err, "failed to load open stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

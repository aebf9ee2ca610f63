package send

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/service/dispatch"
	"github.com/ignite/outreach/internal/service/quota"
)

// ContactResolver resolves contact ids to full records. Ids that no
// longer resolve are dropped silently; only a fully-empty resolution is
// an error for the caller.
type ContactResolver interface {
	Resolve(ctx context.Context, ids []string) ([]domain.Contact, error)
}

// CampaignWriter persists the campaign record created for each send
// request.
type CampaignWriter interface {
	CreateCampaign(ctx context.Context, c *domain.Campaign) error
}

// QuotaGate is the slice of the quota service the orchestrator needs.
type QuotaGate interface {
	ValidateSendRequest(ctx context.Context, requested int) (*quota.ValidationResult, error)
	Reserve(ctx context.Context, count int) (domain.QuotaState, error)
}

// BatchRunner runs the dispatch loop. Satisfied by *dispatch.Dispatcher.
type BatchRunner interface {
	Run(ctx context.Context, campaign *domain.Campaign, contacts []domain.Contact) (*dispatch.BatchResult, error)
}

// Input is one send request.
type Input struct {
	ContactIDs []string `json:"contact_ids"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

// Counts summarizes a completed batch.
type Counts struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Output is the aggregate response for a completed send.
type Output struct {
	CampaignID string             `json:"campaign_id"`
	Results    Counts             `json:"results"`
	Failed     []dispatch.Failure `json:"failed"`
	Warnings   []string           `json:"warnings"`
}

// Service orchestrates one send request end to end.
type Service struct {
	contacts   ContactResolver
	quota      QuotaGate
	campaigns  CampaignWriter
	dispatcher BatchRunner
}

// NewService wires the orchestrator.
func NewService(contacts ContactResolver, q QuotaGate, campaigns CampaignWriter, dispatcher BatchRunner) *Service {
	return &Service{contacts: contacts, quota: q, campaigns: campaigns, dispatcher: dispatcher}
}

// Send runs the full pipeline. Pre-flight failures (validation, quota)
// abort before any provider call with zero rows written and zero quota
// consumed. Once dispatch starts it runs to completion for all
// resolved recipients; per-recipient failures land in the result, not
// in the returned error.
func (s *Service) Send(ctx context.Context, in Input) (*Output, error) {
	if len(in.ContactIDs) == 0 {
		return nil, ErrNoRecipients
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		return nil, ErrEmptySubject
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, ErrEmptyBody
	}

	contacts, err := s.contacts.Resolve(ctx, in.ContactIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve contacts: %w", err)
	}
	if len(contacts) == 0 {
		return nil, ErrNoValidContacts
	}

	// Reservation uses the resolved count, not the requested id count:
	// a shrinking resolution must not reserve more than will be sent.
	validation, err := s.quota.ValidateSendRequest(ctx, len(contacts))
	if err != nil {
		return nil, fmt.Errorf("quota validation: %w", err)
	}
	if !validation.Allowed {
		return nil, &QuotaDeniedError{Result: validation}
	}

	if _, err := s.quota.Reserve(ctx, len(contacts)); err != nil {
		return nil, err
	}

	campaign := &domain.Campaign{
		ID:        uuid.New().String(),
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.campaigns.CreateCampaign(ctx, campaign); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	log.Printf("[send.Service] campaign %s: dispatching to %d of %d requested recipients",
		campaign.ID, len(contacts), len(in.ContactIDs))

	batch, err := s.dispatcher.Run(ctx, campaign, contacts)
	if err != nil {
		return nil, fmt.Errorf("dispatch campaign %s: %w", campaign.ID, err)
	}

	return &Output{
		CampaignID: campaign.ID,
		Results: Counts{
			Total:      batch.Total,
			Successful: len(batch.Successful),
			Failed:     len(batch.Failed),
		},
		Failed:   batch.Failed,
		Warnings: validation.Warnings,
	}, nil
}

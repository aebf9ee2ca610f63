package send_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/service/dispatch"
	"github.com/ignite/outreach/internal/service/quota"
	"github.com/ignite/outreach/internal/service/send"
)

type fakeResolver struct {
	contacts map[string]domain.Contact
}

func (f *fakeResolver) Resolve(_ context.Context, ids []string) ([]domain.Contact, error) {
	var out []domain.Contact
	for _, id := range ids {
		if c, ok := f.contacts[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeQuota struct {
	reserved   []int
	validation *quota.ValidationResult
	reserveErr error
}

func (f *fakeQuota) ValidateSendRequest(_ context.Context, requested int) (*quota.ValidationResult, error) {
	if f.validation != nil {
		return f.validation, nil
	}
	return &quota.ValidationResult{Allowed: true, Warnings: []string{}}, nil
}

func (f *fakeQuota) Reserve(_ context.Context, count int) (domain.QuotaState, error) {
	if f.reserveErr != nil {
		return domain.QuotaState{}, f.reserveErr
	}
	f.reserved = append(f.reserved, count)
	return domain.QuotaState{Used: count}, nil
}

type fakeCampaigns struct {
	created []*domain.Campaign
}

func (f *fakeCampaigns) CreateCampaign(_ context.Context, c *domain.Campaign) error {
	f.created = append(f.created, c)
	return nil
}

type fakeRunner struct {
	ran    int
	result *dispatch.BatchResult
	err    error
}

func (f *fakeRunner) Run(_ context.Context, _ *domain.Campaign, contacts []domain.Contact) (*dispatch.BatchResult, error) {
	f.ran++
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	res := &dispatch.BatchResult{Total: len(contacts), Successful: []dispatch.Success{}, Failed: []dispatch.Failure{}}
	for _, c := range contacts {
		res.Successful = append(res.Successful, dispatch.Success{Email: c.Email})
	}
	return res, nil
}

func fixtures() (*fakeResolver, *fakeQuota, *fakeCampaigns, *fakeRunner, *send.Service) {
	resolver := &fakeResolver{contacts: map[string]domain.Contact{
		"c1": {ID: "c1", Email: "a@example.com"},
		"c2": {ID: "c2", Email: "b@example.com"},
		"c3": {ID: "c3", Email: "c@example.com"},
	}}
	q := &fakeQuota{}
	campaigns := &fakeCampaigns{}
	runner := &fakeRunner{}
	svc := send.NewService(resolver, q, campaigns, runner)
	return resolver, q, campaigns, runner, svc
}

func TestSend(t *testing.T) {
	_, q, campaigns, runner, svc := fixtures()

	out, err := svc.Send(context.Background(), send.Input{
		ContactIDs: []string{"c1", "c2", "c3"},
		Subject:    "Hi {first_name}",
		Body:       "Hello",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if out.Results.Total != 3 || out.Results.Successful != 3 || out.Results.Failed != 0 {
		t.Fatalf("unexpected counts: %+v", out.Results)
	}
	if len(campaigns.created) != 1 || campaigns.created[0].Subject != "Hi {first_name}" {
		t.Fatalf("campaign not created with raw template: %+v", campaigns.created)
	}
	if runner.ran != 1 {
		t.Fatalf("dispatch ran %d times", runner.ran)
	}
	if len(q.reserved) != 1 || q.reserved[0] != 3 {
		t.Fatalf("expected one reservation of 3, got %v", q.reserved)
	}
}

func TestSendPreflightValidation(t *testing.T) {
	tests := []struct {
		name string
		in   send.Input
		want error
	}{
		{"empty recipients", send.Input{Subject: "s", Body: "b"}, send.ErrNoRecipients},
		{"empty subject", send.Input{ContactIDs: []string{"c1"}, Subject: "   ", Body: "b"}, send.ErrEmptySubject},
		{"empty body", send.Input{ContactIDs: []string{"c1"}, Subject: "s", Body: "\n\t"}, send.ErrEmptyBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, q, campaigns, runner, svc := fixtures()
			_, err := svc.Send(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			// Pre-flight abort: nothing written, nothing reserved, no sends.
			if len(q.reserved) != 0 || len(campaigns.created) != 0 || runner.ran != 0 {
				t.Fatalf("pre-flight failure had side effects: reserved=%v campaigns=%d runs=%d",
					q.reserved, len(campaigns.created), runner.ran)
			}
		})
	}
}

func TestSendResolutionShrinkage(t *testing.T) {
	_, q, _, _, svc := fixtures()

	// Five ids requested, only three resolve; exactly three reserved.
	out, err := svc.Send(context.Background(), send.Input{
		ContactIDs: []string{"c1", "c2", "c3", "gone-1", "gone-2"},
		Subject:    "s",
		Body:       "b",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(q.reserved) != 1 || q.reserved[0] != 3 {
		t.Fatalf("expected reservation of resolved count 3, got %v", q.reserved)
	}
	if out.Results.Total != 3 {
		t.Fatalf("expected 3 total, got %d", out.Results.Total)
	}
}

func TestSendNoValidContacts(t *testing.T) {
	_, q, campaigns, runner, svc := fixtures()

	_, err := svc.Send(context.Background(), send.Input{
		ContactIDs: []string{"gone-1", "gone-2"},
		Subject:    "s",
		Body:       "b",
	})
	if !errors.Is(err, send.ErrNoValidContacts) {
		t.Fatalf("expected ErrNoValidContacts, got %v", err)
	}
	if len(q.reserved) != 0 || len(campaigns.created) != 0 || runner.ran != 0 {
		t.Fatal("zero-resolution send had side effects")
	}
}

func TestSendQuotaValidationDeny(t *testing.T) {
	_, q, campaigns, runner, svc := fixtures()
	q.validation = &quota.ValidationResult{
		Allowed: false,
		Reasons: []quota.DenyReason{{Code: "local_quota_exceeded", Message: "nope"}},
	}

	_, err := svc.Send(context.Background(), send.Input{
		ContactIDs: []string{"c1"}, Subject: "s", Body: "b",
	})
	if !errors.Is(err, quota.ErrQuotaExceeded) {
		t.Fatalf("expected quota-exceeded error, got %v", err)
	}

	var denied *send.QuotaDeniedError
	if !errors.As(err, &denied) || len(denied.Result.Reasons) != 1 {
		t.Fatalf("expected QuotaDeniedError with reasons, got %v", err)
	}
	if len(q.reserved) != 0 || len(campaigns.created) != 0 || runner.ran != 0 {
		t.Fatal("denied send had side effects")
	}
}

func TestSendReservationFailureAborts(t *testing.T) {
	_, q, campaigns, runner, svc := fixtures()
	q.reserveErr = &quota.ReservationError{Requested: 1, Used: 250, Limit: 250}

	_, err := svc.Send(context.Background(), send.Input{
		ContactIDs: []string{"c1"}, Subject: "s", Body: "b",
	})
	if !errors.Is(err, quota.ErrQuotaExceeded) {
		t.Fatalf("expected reservation failure to surface, got %v", err)
	}
	if len(campaigns.created) != 0 || runner.ran != 0 {
		t.Fatal("failed reservation still attempted sends")
	}
}

func TestSendCarriesWarnings(t *testing.T) {
	_, q, _, _, svc := fixtures()
	q.validation = &quota.ValidationResult{
		Allowed:  true,
		Warnings: []string{"remaining quota low: 5 emails left today after this send"},
	}

	out, err := svc.Send(context.Background(), send.Input{
		ContactIDs: []string{"c1"}, Subject: "s", Body: "b",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(out.Warnings) != 1 {
		t.Fatalf("expected quota warnings carried through, got %v", out.Warnings)
	}
}

func TestSendPartialFailureAggregation(t *testing.T) {
	_, _, _, runner, svc := fixtures()
	runner.result = &dispatch.BatchResult{
		Total:      3,
		Successful: []dispatch.Success{{Email: "a@example.com"}, {Email: "c@example.com"}},
		Failed:     []dispatch.Failure{{Email: "b@example.com", Category: domain.ErrorCategoryThrottled, Error: "provider throttling in effect, retry later"}},
	}

	out, err := svc.Send(context.Background(), send.Input{
		ContactIDs: []string{"c1", "c2", "c3"}, Subject: "s", Body: "b",
	})
	if err != nil {
		t.Fatalf("partial failure must not error: %v", err)
	}
	if out.Results.Successful != 2 || out.Results.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", out.Results)
	}
	if len(out.Failed) != 1 || out.Failed[0].Email != "b@example.com" {
		t.Fatalf("failure detail missing: %+v", out.Failed)
	}
}

func TestSendDispatchPersistenceErrorSurfaces(t *testing.T) {
	_, _, _, runner, svc := fixtures()
	runner.err = fmt.Errorf("record send outcome for contact c2: disk full")

	_, err := svc.Send(context.Background(), send.Input{
		ContactIDs: []string{"c1", "c2"}, Subject: "s", Body: "b",
	})
	if err == nil {
		t.Fatal("expected persistence error to surface")
	}
}

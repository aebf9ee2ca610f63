package dispatch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/personalize"
)

// Success describes one delivered message.
type Success struct {
	Email      string `json:"email"`
	MessageID  string `json:"message_id"`
	TrackingID string `json:"tracking_id"`
}

// Failure describes one recipient the provider refused, with the
// normalized user-facing error.
type Failure struct {
	Email    string               `json:"email"`
	Category domain.ErrorCategory `json:"category"`
	Error    string               `json:"error"`
}

// BatchResult aggregates every outcome of one dispatch run. No partial
// result is ever discarded.
type BatchResult struct {
	Total      int       `json:"total"`
	Successful []Success `json:"successful"`
	Failed     []Failure `json:"failed"`
}

// Dispatcher runs the per-recipient send loop for one campaign.
type Dispatcher struct {
	sender    Sender
	records   RecordWriter
	pacer     Pacer
	fromEmail string
	fromName  string
	pixelBase string // tracking service base URL, e.g. https://t.example.com
}

// NewDispatcher creates a dispatcher. pacer controls the inter-message
// pause; pass FixedDelayPacer{100 * time.Millisecond} for the default.
func NewDispatcher(sender Sender, records RecordWriter, pacer Pacer, fromEmail, fromName, pixelBase string) *Dispatcher {
	return &Dispatcher{
		sender:    sender,
		records:   records,
		pacer:     pacer,
		fromEmail: fromEmail,
		fromName:  fromName,
		pixelBase: strings.TrimRight(pixelBase, "/"),
	}
}

// Run delivers the campaign to each contact in order. For every
// contact, regardless of provider outcome, exactly one SentEmailRecord
// is written synchronously before moving on. Provider failures are
// collected into the result; only a record-write failure aborts the
// loop, returning the partial result alongside the error.
func (d *Dispatcher) Run(ctx context.Context, campaign *domain.Campaign, contacts []domain.Contact) (*BatchResult, error) {
	result := &BatchResult{
		Total:      len(contacts),
		Successful: []Success{},
		Failed:     []Failure{},
	}

	for i, contact := range contacts {
		trackingID := uuid.New().String()
		fields := contact.PersonalizationFields()
		subject := personalize.Apply(campaign.Subject, fields)
		body := personalize.Apply(campaign.Body, fields)

		msg := &domain.EmailMessage{
			To:          contact.Email,
			FromName:    d.fromName,
			FromEmail:   d.fromEmail,
			Subject:     subject,
			HTMLContent: d.injectPixel(body, trackingID),
			TextContent: body,
		}

		sendRes, sendErr := d.sender.Send(ctx, msg)

		rec := &domain.SentEmailRecord{
			ID:         uuid.New().String(),
			CampaignID: campaign.ID,
			ContactID:  contact.ID,
			TrackingID: trackingID,
			Subject:    subject,
			SentAt:     time.Now().UTC(),
		}

		if sendErr != nil || sendRes == nil || !sendRes.Success {
			category, message := d.failureDetail(sendRes, sendErr)
			rec.Status = domain.SendStatusFailed
			rec.ErrorMessage = message
			result.Failed = append(result.Failed, Failure{
				Email:    contact.Email,
				Category: category,
				Error:    message,
			})
			log.Printf("[dispatch] send failed campaign=%s contact=%s category=%s", campaign.ID, contact.ID, category)
		} else {
			rec.Status = domain.SendStatusSent
			result.Successful = append(result.Successful, Success{
				Email:      contact.Email,
				MessageID:  sendRes.MessageID,
				TrackingID: trackingID,
			})
		}

		if err := d.records.CreateSentEmail(ctx, rec); err != nil {
			return result, fmt.Errorf("record send outcome for contact %s: %w", contact.ID, err)
		}

		if i < len(contacts)-1 {
			d.pacer.Pause(ctx)
		}
	}

	return result, nil
}

func (d *Dispatcher) failureDetail(res *domain.SendResult, err error) (domain.ErrorCategory, string) {
	if err != nil {
		return NormalizeSendError(err)
	}
	if res != nil && res.Error != "" {
		return NormalizeSendError(fmt.Errorf("%s", res.Error))
	}
	return domain.ErrorCategoryUnexpected, "provider reported failure without detail"
}

// injectPixel appends the covert open-tracking reference: a zero-size
// image pointing at the public tracking endpoint for this token.
func (d *Dispatcher) injectPixel(html, trackingID string) string {
	pixel := fmt.Sprintf(`<img src="%s/track/open/%s" width="1" height="1" style="display:none" alt="" />`,
		d.pixelBase, trackingID)
	if strings.Contains(html, "</body>") {
		return strings.Replace(html, "</body>", pixel+"</body>", 1)
	}
	return html + pixel
}

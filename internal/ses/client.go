// Package ses is the email provider collaborator, backed by AWS SES v2.
// It exposes the two operations the send pipeline needs: delivering a
// single message and probing the account's own sending capacity.
package ses

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/domain"
)

// Client is an AWS SES v2 API client for sending and capacity checks.
type Client struct {
	client  *sesv2.Client
	timeout time.Duration
}

// NewClient creates a new SES API client
func NewClient(ctx context.Context, cfg appconfig.SESConfig) (*Client, error) {
	// Create AWS credentials
	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKey,
		cfg.SecretKey,
		"", // session token (empty for static creds)
	)

	// Load AWS config with static credentials
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Client{
		client:  sesv2.NewFromConfig(awsCfg),
		timeout: cfg.Timeout(),
	}, nil
}

// Send delivers a single message. Provider refusals come back as an
// error; the dispatch loop normalizes them into stable categories.
func (c *Client) Send(ctx context.Context, msg *domain.EmailMessage) (*domain.SendResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(formatFrom(msg.FromName, msg.FromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTMLContent)},
					Text: &types.Content{Data: aws.String(msg.TextContent)},
				},
			},
		},
	}

	out, err := c.client.SendEmail(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("ses send to %s: %w", msg.To, err)
	}

	return &domain.SendResult{
		Success:   true,
		MessageID: aws.ToString(out.MessageId),
		SentAt:    time.Now().UTC(),
	}, nil
}

// Capacity probes the account's 24-hour send quota via GetAccount.
// A transport failure is returned as an error; a reachable account
// that reports no usable quota yields Known=false.
func (c *Client) Capacity(ctx context.Context) (domain.ProviderCapacity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.client.GetAccount(ctx, &sesv2.GetAccountInput{})
	if err != nil {
		return domain.ProviderCapacity{}, fmt.Errorf("ses get account: %w", err)
	}

	return capacityFromAccount(out.SendQuota, out.ProductionAccessEnabled), nil
}

// capacityFromAccount converts the SES quota into the tri-state
// capacity result. Max24HourSend of -1 means the account is unlimited,
// which the pipeline treats the same as unknown: the local cap governs.
func capacityFromAccount(q *types.SendQuota, productionAccess bool) domain.ProviderCapacity {
	pc := domain.ProviderCapacity{Sandboxed: !productionAccess}
	if q == nil || q.Max24HourSend < 0 {
		return pc
	}

	pc.Known = true
	pc.MaxWindow = q.Max24HourSend
	pc.SentInWindow = q.SentLast24Hours
	remaining := int(q.Max24HourSend - q.SentLast24Hours)
	if remaining < 0 {
		remaining = 0
	}
	pc.Remaining = remaining
	return pc
}

func formatFrom(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"staffhub-backend/shared/config"
	"staffhub-backend/shared/database/models/notification"
	"staffhub-backend/shared/utils/retry"
)

// NotificationClient handles communication with the notification service.
// All sends go through the shared retry policy; a client-side 4xx is
// permanent and not retried.
type NotificationClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNotificationClient creates a new notification client
func NewNotificationClient() *NotificationClient {
	cfg := config.GetConfig()
	return &NotificationClient{
		baseURL: cfg.NotificationServiceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Email request structs
type WelcomeEmailRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type ApprovalDecisionEmailRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// EmailResponse represents email service response
type EmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	SentAt  string `json:"sent_at"`
}

// SendWelcomeEmail sends the post-registration pending-approval email
func (nc *NotificationClient) SendWelcomeEmail(to, name string) error {
	request := WelcomeEmailRequest{
		Email: to,
		Name:  name,
	}
	return nc.postJSON("/api/notifications/email/welcome", request)
}

// SendAccountApprovedEmail notifies an account holder of approval
func (nc *NotificationClient) SendAccountApprovedEmail(to, name, role string) error {
	request := ApprovalDecisionEmailRequest{
		Email: to,
		Name:  name,
		Role:  role,
	}
	return nc.postJSON("/api/notifications/email/account-approved", request)
}

// SendAccountRejectedEmail notifies an account holder of rejection
func (nc *NotificationClient) SendAccountRejectedEmail(to, name, reason string) error {
	request := ApprovalDecisionEmailRequest{
		Email:  to,
		Name:   name,
		Reason: reason,
	}
	return nc.postJSON("/api/notifications/email/account-rejected", request)
}

// PublishChange broadcasts an entity change event so subscribed panels
// re-fetch their collections. Failures are logged, never surfaced: a
// lost event means a stale panel until the next change, not a lost write.
func (nc *NotificationClient) PublishChange(entity, action string, entityID, userID *uuid.UUID) {
	event := notification.ChangeEvent{
		Type:      "change",
		Level:     notification.NotificationLevelInfo,
		Entity:    entity,
		Action:    action,
		EntityID:  entityID,
		UserID:    userID,
		Timestamp: notification.GetCurrentTime(),
	}

	go func() {
		if err := nc.postJSON("/ws/broadcast", event); err != nil {
			log.Printf("⚠️ Failed to publish %s/%s change event: %v", entity, action, err)
		}
	}()
}

// postJSON sends payload to the notification service with retries
func (nc *NotificationClient) postJSON(endpoint string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %v", err)
	}

	url := fmt.Sprintf("%s%s", nc.baseURL, endpoint)

	return retry.Do(context.Background(), retry.Config{}, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := nc.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			err := fmt.Errorf("notification service returned %d: %s", resp.StatusCode, string(body))
			if resp.StatusCode < 500 {
				return retry.Permanent(err)
			}
			return err
		}
		return nil
	})
}

package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sweeper/internal/config"
)

const userAgent = "Sweeper/0.1.0"

// Service defines the notification surface exposed to the orchestrator.
type Service interface {
	NotifyPassCompleted(ctx context.Context, processed, quarantined, skipped int, duration time.Duration) error
	NotifyQuarantine(ctx context.Context, fileName, runToken, reason string) error
	NotifyError(ctx context.Context, err error, detail string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:   topic,
		client:     &http.Client{Timeout: timeout},
		pass:       cfg.Notifications.PassSummary,
		quarantine: cfg.Notifications.Quarantine,
		errors:     cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	client     *http.Client
	pass       bool
	quarantine bool
	errors     bool
}

func (n *ntfyService) NotifyPassCompleted(ctx context.Context, processed, quarantined, skipped int, duration time.Duration) error {
	if !n.pass {
		return nil
	}
	data := payload{
		title: "Sweeper - Pass Complete",
		message: fmt.Sprintf("Processed %d, quarantined %d, skipped %d in %s",
			processed, quarantined, skipped, duration.Round(time.Second)),
		tags: []string{"sweeper", "pass", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyQuarantine(ctx context.Context, fileName, runToken, reason string) error {
	if !n.quarantine {
		return nil
	}
	data := payload{
		title:    "Sweeper - File Quarantined",
		message:  fmt.Sprintf("%s quarantined (run %s): %s", fileName, runToken, reason),
		tags:     []string{"sweeper", "quarantine"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, detail string) error {
	if !n.errors {
		return nil
	}
	detail = strings.TrimSpace(detail)
	message := fmt.Sprintf("Error: %v", err)
	if detail != "" {
		message = fmt.Sprintf("Error (%s): %v", detail, err)
	}
	data := payload{
		title:    "Sweeper - Error",
		message:  message,
		tags:     []string{"sweeper", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:   "Sweeper - Test",
		message: "Test notification from sweeper",
		tags:    []string{"sweeper", "test"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyPassCompleted(context.Context, int, int, int, time.Duration) error {
	return nil
}
func (noopService) NotifyQuarantine(context.Context, string, string, string) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error               { return nil }
func (noopService) TestNotification(context.Context) error                         { return nil }

package communicator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-resty/resty/v2"

	"github.com/sentineledge/hostreport/pkg/models"
)

const (
	DefaultIPLookupURL    = "https://api.ipify.org?format=json"
	DefaultExpectedStatus = http.StatusNoContent
	DefaultTimeout        = 30 * time.Second

	userAgent = "hostreport/0.1.0"
)

// DeliveryError is returned when the webhook answers with anything other
// than the expected status code.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook responded with code %d", e.StatusCode)
	}
	return fmt.Sprintf("webhook responded with code %d: %s", e.StatusCode, e.Body)
}

var errMissingIP = errors.New("lookup response has no ip field")

func newClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	// Delivery is attempted exactly once.
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent)
}

// ── Webhook ──────────────────────────────────────────────────────────────

type Webhook struct {
	client         *resty.Client
	url            string
	expectedStatus int
	log            logr.Logger
}

func NewWebhook(log logr.Logger, url string, expectedStatus int, timeout time.Duration) *Webhook {
	if expectedStatus == 0 {
		expectedStatus = DefaultExpectedStatus
	}
	return &Webhook{
		client:         newClient(timeout).SetHeader("Content-Type", "application/json"),
		url:            url,
		expectedStatus: expectedStatus,
		log:            log,
	}
}

// Send posts msg once. Only the expected status code counts as success;
// anything else is returned as a *DeliveryError.
func (w *Webhook) Send(ctx context.Context, msg models.WebhookMessage) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(msg).
		Post(w.url)

	if err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}

	if resp.StatusCode() != w.expectedStatus {
		return &DeliveryError{
			StatusCode: resp.StatusCode(),
			Body:       strings.TrimSpace(resp.String()),
		}
	}

	w.log.V(1).Info("webhook accepted message", "status", resp.StatusCode(), "duration", resp.Time())
	return nil
}

// ── Public IP ────────────────────────────────────────────────────────────

type ipResponse struct {
	IP string `json:"ip"`
}

// IPLookup resolves the public address through a JSON service answering
// {"ip": "..."}.
type IPLookup struct {
	client *resty.Client
	url    string
}

func NewIPLookup(url string, timeout time.Duration) *IPLookup {
	if url == "" {
		url = DefaultIPLookupURL
	}
	return &IPLookup{
		client: newClient(timeout).SetHeader("Accept", "application/json"),
		url:    url,
	}
}

func (l *IPLookup) PublicIP(ctx context.Context) (string, error) {
	var body ipResponse
	resp, err := l.client.R().
		SetContext(ctx).
		SetResult(&body).
		ForceContentType("application/json").
		Get(l.url)

	if err != nil {
		return "", fmt.Errorf("error in ip lookup: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("ip lookup responded %d", resp.StatusCode())
	}

	ip := strings.TrimSpace(body.IP)
	if ip == "" {
		return "", errMissingIP
	}
	if _, err := netip.ParseAddr(ip); err != nil {
		return "", fmt.Errorf("ip lookup returned invalid address %q", ip)
	}
	return ip, nil
}

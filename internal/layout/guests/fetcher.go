package guests

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wedding-layout/internal/common/logger"
)

// ============================================================
// Guest records
// ============================================================

// Guest is owned by the guest-management service; the layout only reads it.
type Guest struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Contact    string   `json:"contact,omitempty"`
	RSVPStatus string   `json:"rsvpStatus,omitempty"`
	Dietary    string   `json:"dietary,omitempty"`
	Allergies  []string `json:"allergies,omitempty"`
}

type Fetcher interface {
	FetchGuests(ctx context.Context, eventID string) ([]Guest, error)
}

// ============================================================
// HTTP fetcher
// ============================================================

// HTTPFetcher reads GET {BaseURL}/events/{eventID}/guests.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
	log     *logger.Logger
}

func NewHTTPFetcher(baseURL string, timeout time.Duration, log *logger.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		log:     logger.OrNop(log).Component("guests"),
	}
}

func (f *HTTPFetcher) FetchGuests(ctx context.Context, eventID string) ([]Guest, error) {
	target := fmt.Sprintf("%s/events/%s/guests", f.BaseURL, url.PathEscape(eventID))
	f.log.Debug("fetching guests", "event_id", eventID, "url", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build guest request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		f.log.Warn("guest service unreachable", "event_id", eventID, "error", err)
		return nil, fmt.Errorf("fetch guests: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		f.log.Warn("guest service error", "event_id", eventID, "status", resp.StatusCode)
		return nil, fmt.Errorf("fetch guests: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var guests []Guest
	if err := json.NewDecoder(resp.Body).Decode(&guests); err != nil {
		return nil, fmt.Errorf("decode guests: %w", err)
	}
	return guests, nil
}

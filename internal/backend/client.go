package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	circuit "github.com/rubyist/circuitbreaker"
	"github.com/shopspring/decimal"

	"prontoticket/internal/models"
)

// Config represents backend API client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the ticketing backend's REST API. All storefront data comes
// from here; the client never caches. Requests go through a circuit breaker so
// a dead backend fails fast instead of tying up handlers, but nothing is
// retried (the caller's recourse is to re-trigger the action).
type Client struct {
	baseURL string
	client  *circuit.HTTPClient
}

// NewClient creates a backend API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  circuit.NewHTTPClient(timeout, 10, nil),
	}
}

// GetEvents fetches all events. Malformed entries are dropped with a
// diagnostic rather than poisoning the whole list.
func (c *Client) GetEvents(ctx context.Context) ([]models.Event, error) {
	var raw []models.Event
	if err := c.getJSON(ctx, "/api/events", &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	events := make([]models.Event, 0, len(raw))
	for _, e := range raw {
		e.Normalize()
		if err := e.Validate(); err != nil {
			log.Printf("Skipping malformed event from backend: %v", err)
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

// GetEvent fetches a single event by id.
func (c *Client) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := c.getJSON(ctx, "/api/events/"+url.PathEscape(id), &event); err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", id, err)
	}

	event.Normalize()
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("malformed event %s from backend: %w", id, err)
	}
	return &event, nil
}

// GetTicketTypes fetches the ticket types belonging to an event.
func (c *Client) GetTicketTypes(ctx context.Context, eventID string) ([]models.TicketType, error) {
	var raw []models.TicketType
	if err := c.getJSON(ctx, "/api/tickettypes/event/"+url.PathEscape(eventID), &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch ticket types for event %s: %w", eventID, err)
	}

	types := make([]models.TicketType, 0, len(raw))
	for _, t := range raw {
		t.Normalize()
		if err := t.Validate(); err != nil {
			log.Printf("Skipping malformed ticket type from backend: %v", err)
			continue
		}
		types = append(types, t)
	}
	return types, nil
}

// CreatePaymentLink submits a payment request and returns the provider
// redirect URL. The backend answers in one of two shapes: a plain-text URL, or
// a JSON object with a stripeLink field. Anything else is ErrNoRedirectLink.
func (c *Client) CreatePaymentLink(ctx context.Context, req models.PaymentRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/payments/link", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create payment link request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send payment link request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read payment link response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	return ParseRedirectTarget(respBody)
}

// ParseRedirectTarget extracts the payment-provider redirect URL from a
// payment-link response body.
func ParseRedirectTarget(body []byte) (string, error) {
	text := strings.Trim(strings.TrimSpace(string(body)), `"`)
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		return text, nil
	}

	var parsed struct {
		StripeLink string `json:"stripeLink"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoRedirectLink, err)
	}
	if parsed.StripeLink == "" {
		return "", ErrNoRedirectLink
	}
	return parsed.StripeLink, nil
}

// GenerateTickets asks the backend to issue tickets for a completed payment,
// identified by the provider's confirmation id.
func (c *Client) GenerateTickets(ctx context.Context, confirmation string) ([]models.Ticket, error) {
	payload := struct {
		Confirmation string `json:"Confirmation"`
	}{Confirmation: confirmation}

	var tickets []models.Ticket
	if err := c.postJSON(ctx, "/api/tickets/generate", payload, &tickets); err != nil {
		return nil, fmt.Errorf("failed to generate tickets for confirmation %s: %w", confirmation, err)
	}
	return tickets, nil
}

// Login checks credentials with the backend. The login endpoint takes
// lowercase keys, unlike most of the API.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var result models.LoginResult
	if err := c.postJSON(ctx, "/api/users/login", payload, &result); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if result.ID == "" || result.Token == "" {
		return nil, fmt.Errorf("malformed login response from backend")
	}
	return &result, nil
}

// Signup creates an account.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) error {
	if err := c.postJSON(ctx, "/api/users/signup", req, nil); err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}
	return nil
}

// GetUser fetches a user profile by id.
func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := c.getJSON(ctx, "/api/users/"+url.PathEscape(id), &user); err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", id, err)
	}
	return &user, nil
}

// UpdateUser forwards profile edits to the backend.
func (c *Client) UpdateUser(ctx context.Context, id string, req models.UserUpdateRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal user update: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/users/"+url.PathEscape(id), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create user update request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusErrorFrom(resp)
	}
	return nil
}

// GetProducer fetches the organizing entity for an event.
func (c *Client) GetProducer(ctx context.Context, id string) (*models.Producer, error) {
	var producer models.Producer
	if err := c.getJSON(ctx, "/api/producers/"+url.PathEscape(id), &producer); err != nil {
		return nil, fmt.Errorf("failed to fetch producer %s: %w", id, err)
	}
	return &producer, nil
}

// CountUsers returns the total number of registered users.
func (c *Client) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := c.getJSON(ctx, "/api/users/count", &count); err != nil {
		return 0, fmt.Errorf("failed to fetch user count: %w", err)
	}
	return count, nil
}

// CountTransactions returns the total number of transactions.
func (c *Client) CountTransactions(ctx context.Context) (int, error) {
	var count int
	if err := c.getJSON(ctx, "/api/transactions/count", &count); err != nil {
		return 0, fmt.Errorf("failed to fetch transaction count: %w", err)
	}
	return count, nil
}

// TotalTransactionAmount returns the all-time transaction volume.
func (c *Client) TotalTransactionAmount(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := c.getJSON(ctx, "/api/transactions/totalamount", &total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch total transaction amount: %w", err)
	}
	return total, nil
}

// SalesLastMonth returns the last month's sales series across all events.
func (c *Client) SalesLastMonth(ctx context.Context) ([]models.SalesPoint, error) {
	var points []models.SalesPoint
	if err := c.getJSON(ctx, "/api/transactions/saleslastmonth", &points); err != nil {
		return nil, fmt.Errorf("failed to fetch last month sales: %w", err)
	}
	return points, nil
}

// SalesLastMonthForEvent returns the last month's sales series for one event.
func (c *Client) SalesLastMonthForEvent(ctx context.Context, eventID string) ([]models.SalesPoint, error) {
	var points []models.SalesPoint
	if err := c.getJSON(ctx, "/api/transactions/saleslastmonth/"+url.PathEscape(eventID), &points); err != nil {
		return nil, fmt.Errorf("failed to fetch last month sales for event %s: %w", eventID, err)
	}
	return points, nil
}

// SalesLast12Months returns the trailing-year sales series.
func (c *Client) SalesLast12Months(ctx context.Context) ([]models.SalesPoint, error) {
	var points []models.SalesPoint
	if err := c.getJSON(ctx, "/api/transactions/saleslast12months", &points); err != nil {
		return nil, fmt.Errorf("failed to fetch last 12 months sales: %w", err)
	}
	return points, nil
}

// EventRevenue returns the total revenue collected for one event.
func (c *Client) EventRevenue(ctx context.Context, eventID string) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	if err := c.getJSON(ctx, "/api/transactions/totalRevenue/"+url.PathEscape(eventID), &revenue); err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch revenue for event %s: %w", eventID, err)
	}
	return revenue, nil
}

// EventTicketsSold returns the number of tickets sold for one event.
func (c *Client) EventTicketsSold(ctx context.Context, eventID string) (int, error) {
	var sold int
	if err := c.getJSON(ctx, "/api/transactions/ticketsSold/"+url.PathEscape(eventID), &sold); err != nil {
		return 0, fmt.Errorf("failed to fetch tickets sold for event %s: %w", eventID, err)
	}
	return sold, nil
}

// getJSON issues a GET and decodes a JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusErrorFrom(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// postJSON issues a POST with a JSON body and decodes a JSON response into
// out when out is non-nil.
func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusErrorFrom(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

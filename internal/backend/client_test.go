package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prontoticket/internal/models"
)

func TestParseRedirectTarget(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"plain url", "https://pay.example.com/session/abc", "https://pay.example.com/session/abc", false},
		{"quoted url", `"https://pay.example.com/session/abc"`, "https://pay.example.com/session/abc", false},
		{"url with whitespace", "  https://pay.example.com/x \n", "https://pay.example.com/x", false},
		{"http url", "http://pay.example.com/x", "http://pay.example.com/x", false},
		{"stripe link object", `{"stripeLink":"https://checkout.stripe.com/c/pay_123"}`, "https://checkout.stripe.com/c/pay_123", false},
		{"empty stripe link", `{"stripeLink":""}`, "", true},
		{"empty body", "", "", true},
		{"unrelated text", "payment pending", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRedirectTarget([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoRedirectLink)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetEventsSkipsMalformedEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/events", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"Id":"evt-1","Name":"Concert"},
			{"Id":"","Name":"No id"},
			{"Id":"evt-2","Name":"Theatre"}
		]`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	events, err := client.GetEvents(context.Background())
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, "evt-2", events[1].ID)
}

func TestGetEventNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.GetEvent(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePaymentLink(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/payments/link", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte("https://pay.example.com/session/abc"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	link, err := client.CreatePaymentLink(context.Background(), models.PaymentRequest{
		EventID:   "evt-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Purchases: []models.Purchase{{TicketTypeID: "tt-1", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/session/abc", link)

	// Guests carry no UserId key at all.
	_, hasUserID := captured["UserId"]
	assert.False(t, hasUserID)
	assert.Equal(t, "evt-1", captured["EventId"])
}

func TestCreatePaymentLinkErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sold out", http.StatusConflict)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.CreatePaymentLink(context.Background(), models.PaymentRequest{EventID: "evt-1"})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusConflict, statusErr.Code)
	assert.Contains(t, statusErr.Body, "sold out")
}

func TestGenerateTickets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tickets/generate", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "txn-42", payload["Confirmation"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"Id":"tik-1"},{"Id":"tik-2"}]`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	tickets, err := client.GenerateTickets(context.Background(), "txn-42")
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestLoginUsesLowercaseKeys(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/login", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ada@example.com", payload["email"])
		assert.Equal(t, "secret", payload["password"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Id":"u-1","Token":"jwt-token"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	result, err := client.Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u-1", result.ID)
	assert.Equal(t, "jwt-token", result.Token)
}

func TestLoginMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Id":"","Token":""}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Login(context.Background(), "ada@example.com", "secret")
	assert.Error(t, err)
}

func TestCountUsersDecodesBareInt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/count", r.URL.Path)
		w.Write([]byte("1234"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	count, err := client.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1234, count)
}

func TestSalesLast12Months(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transactions/saleslast12months", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"Date":"2026-07","TotalAmount":150.5},{"Date":"2026-08","TotalAmount":99}]`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	points, err := client.SalesLast12Months(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2026-07", points[0].Date)
	assert.True(t, points[0].TotalAmount.Equal(decimal.RequireFromString("150.5")))
}

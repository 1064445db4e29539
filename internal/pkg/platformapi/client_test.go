package platformapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanceLinkHQ/DanceLink/app/models"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{BaseURL: srv.URL, HTTPClient: srv.Client()}
}

func TestListPlans(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/plans", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]models.Plan{
			{Slug: "free", Tier: "free"},
			{Slug: "gold", Tier: "gold", MonthlyPrice: 19},
		})
	})

	plans, err := client.ListPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "gold", plans[1].Slug)
}

func TestListPlansServerError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ListPlans(context.Background())
	assert.Error(t, err)
}

func TestRegisterAccount(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register", r.URL.Path)

		var in RegisterPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "tanzmaus", in.Username)
		assert.Equal(t, "silver", in.SubscriptionTier)

		_ = json.NewEncoder(w).Encode(RegisterResult{
			AccessToken: "tok-123",
			User:        RegisteredUser{ID: 7, Username: in.Username, Email: in.Email},
		})
	})

	out, err := client.RegisterAccount(context.Background(), RegisterPayload{
		FirstName: "Mina", LastName: "Koch",
		Email: "tanzmaus@example.com", Username: "tanzmaus",
		Password: "secret1", SubscriptionTier: "silver",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", out.AccessToken)
	assert.Equal(t, uint(7), out.User.ID)
}

func TestRegisterAccountMissingTokenIsError(t *testing.T) {
	// A reported success without a token is a fatal inconsistency, not a
	// silent pass-through.
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(RegisterResult{AccessToken: ""})
	})

	_, err := client.RegisterAccount(context.Background(), RegisterPayload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_token")
}

func TestCreateCheckoutSession(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		var in CheckoutPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "gold", in.PlanSlug)
		assert.Equal(t, "monthly", in.Frequency)

		_ = json.NewEncoder(w).Encode(CheckoutSession{URL: "https://pay.example.com/cs_1"})
	})

	out, err := client.CreateCheckoutSession(context.Background(), "tok-123", CheckoutPayload{
		PlanSlug: "gold", Tier: "gold", Frequency: "monthly", Email: "tanzmaus@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/cs_1", out.URL)
}

func TestCreateCheckoutSessionRequiresToken(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected without a token")
	})

	_, err := client.CreateCheckoutSession(context.Background(), "  ", CheckoutPayload{})
	assert.Error(t, err)
}

func TestCreateBooking(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings", r.URL.Path)
		_ = json.NewEncoder(w).Encode(BookingResult{BookingID: "bk-42"})
	})

	out, err := client.CreateBooking(context.Background(), BookingPayload{
		ServiceCategories: []string{"private_lessons"},
		Zipcode:           "10115",
	})
	require.NoError(t, err)
	assert.Equal(t, "bk-42", out.BookingID)
}

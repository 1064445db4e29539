package platformapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DanceLinkHQ/DanceLink/app/models"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/env"
)

const defaultAPIBaseURL = "http://localhost:8080/api/v1"

// Client talks to the platform account/checkout backend. Timeout and
// transport behavior live here; retry policy is the backend's concern, not
// ours.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// API is the consumed backend surface. The registration orchestrator and the
// booking wizard depend on this interface so tests can stub the backend.
type API interface {
	ListPlans(ctx context.Context) ([]models.Plan, error)
	RegisterAccount(ctx context.Context, in RegisterPayload) (*RegisterResult, error)
	CreateCheckoutSession(ctx context.Context, accessToken string, in CheckoutPayload) (*CheckoutSession, error)
	CreateBooking(ctx context.Context, in BookingPayload) (*BookingResult, error)
}

type RegisterPayload struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Username         string `json:"username"`
	Password         string `json:"password"`
	SubscriptionTier string `json:"subscription_tier"`
}

type RegisteredUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type RegisterResult struct {
	AccessToken string         `json:"access_token"`
	User        RegisteredUser `json:"user"`
}

type CheckoutPayload struct {
	PlanSlug  string `json:"plan_slug"`
	Tier      string `json:"tier"`
	Frequency string `json:"frequency"`
	Email     string `json:"email"`
}

type CheckoutSession struct {
	URL string `json:"url"`
}

// BookingPayload is the assembled booking wizard draft, submitted wholesale
// on completion of the last step.
type BookingPayload struct {
	ServiceCategories []string `json:"service_categories"`
	DanceStyles       []string `json:"dance_styles"`
	Zipcode           string   `json:"zipcode"`
	TravelRadiusKM    int      `json:"travel_radius_km"`
	Date              string   `json:"date"`
	PriceMin          float64  `json:"price_min"`
	PriceMax          float64  `json:"price_max"`
	YearsExperience   int      `json:"years_experience,omitempty"`
	Bio               string   `json:"bio,omitempty"`
	Services          []string `json:"services,omitempty"`
}

type BookingResult struct {
	BookingID string `json:"booking_id"`
}

func NewClientFromEnv() *Client {
	return &Client{
		BaseURL: strings.TrimRight(env.GetEnv("PLATFORM_API_BASE_URL", defaultAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) ListPlans(ctx context.Context) ([]models.Plan, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/plans", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("plan listing failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var plans []models.Plan
	if err := json.Unmarshal(body, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *Client) RegisterAccount(ctx context.Context, in RegisterPayload) (*RegisterResult, error) {
	body, err := c.postJSON(ctx, c.BaseURL+"/register", "", in)
	if err != nil {
		return nil, err
	}

	var out RegisterResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return nil, errors.New("registration succeeded but returned empty access_token")
	}
	return &out, nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, accessToken string, in CheckoutPayload) (*CheckoutSession, error) {
	token := strings.TrimSpace(accessToken)
	if token == "" {
		return nil, errors.New("access token is required")
	}

	body, err := c.postJSON(ctx, c.BaseURL+"/checkout/sessions", token, in)
	if err != nil {
		return nil, err
	}

	var out CheckoutSession
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.URL) == "" {
		return nil, errors.New("checkout session response missing url")
	}
	return &out, nil
}

func (c *Client) CreateBooking(ctx context.Context, in BookingPayload) (*BookingResult, error) {
	body, err := c.postJSON(ctx, c.BaseURL+"/bookings", "", in)
	if err != nil {
		return nil, err
	}

	var out BookingResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.BookingID) == "" {
		return nil, errors.New("booking response missing booking_id")
	}
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, url, bearer string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request to %s failed: status=%d body=%s", url, resp.StatusCode, string(body))
	}
	return body, nil
}

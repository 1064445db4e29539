package models

import "strings"

// Plan is a subscription plan as delivered by the platform backend.
// Plans are read-only within a flow session; derived recommendation data
// lives in recommend.Result, never on the Plan itself.
type Plan struct {
	ID           uint     `json:"id"`
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Tier         string   `json:"tier"`
	MonthlyPrice float64  `json:"monthly_price"`
	YearlyPrice  float64  `json:"yearly_price"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
	IsPopular    bool     `json:"is_popular"`
}

// FreePlanSlug marks the designated no-payment plan. Registration with this
// plan (or any zero-price plan) finalizes locally without a checkout session.
const FreePlanSlug = "free"

// Price returns the plan price for the given billing cycle.
func (p Plan) Price(cycle string) float64 {
	if strings.EqualFold(strings.TrimSpace(cycle), "yearly") {
		return p.YearlyPrice
	}
	return p.MonthlyPrice
}

// IsFree reports whether selecting this plan requires no payment.
func (p Plan) IsFree(cycle string) bool {
	return p.Price(cycle) == 0 || strings.EqualFold(p.Slug, FreePlanSlug)
}

package counter

import (
	"context"
	"strconv"

	"github.com/DanceLinkHQ/DanceLink/internal/pkg/cache"
)

const (
	registrationKey = "funnel:counters:registration"
	bookingKey      = "funnel:counters:booking"
)

// Registration funnel events.
const (
	EventFlowStarted      = "flow_started"
	EventAccountCreated   = "account_created"
	EventCheckoutStarted  = "checkout_started"
	EventFlowCompleted    = "flow_completed"
	EventBookingSubmitted = "submitted"
	EventBookingCancelled = "cancelled"
)

// AddRegistrationEvent increments a registration funnel counter in Redis
func AddRegistrationEvent(event string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, registrationKey, event, 1).Err()
}

// AddBookingEvent increments a booking funnel counter in Redis
func AddBookingEvent(event string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, bookingKey, event, 1).Err()
}

// Snapshot reads all funnel counters. Missing hashes read as empty maps.
func Snapshot() (map[string]int64, map[string]int64, error) {
	ctx := context.Background()
	rdb := cache.GetClient()

	reg, err := rdb.HGetAll(ctx, registrationKey).Result()
	if err != nil {
		return nil, nil, err
	}
	book, err := rdb.HGetAll(ctx, bookingKey).Result()
	if err != nil {
		return nil, nil, err
	}

	return toCounts(reg), toCounts(book), nil
}

func toCounts(raw map[string]string) map[string]int64 {
	counts := make(map[string]int64, len(raw))
	for field, value := range raw {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		counts[field] = n
	}
	return counts
}

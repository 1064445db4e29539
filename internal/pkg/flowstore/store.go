package flowstore

import (
	"encoding/json"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/redis"

	"github.com/DanceLinkHQ/DanceLink/internal/pkg/env"
)

const keyPrefix = "dancelink:regflow:"

// Store is the durable slot for in-progress registration flow state, one
// JSON blob per flow key. Load and Save never fail loudly: a missing or
// unreadable value is an empty state, a failed write keeps the in-memory
// state authoritative for the session.
type Store interface {
	Load(flowKey string) RegistrationFlowState
	Save(flowKey string, state RegistrationFlowState)
	Clear(flowKey string)
}

type storageStore struct {
	storage fiber.Storage
}

// NewStore wraps any fiber storage backend as a flow store.
func NewStore(storage fiber.Storage) Store {
	return &storageStore{storage: storage}
}

// NewRedisStore creates the default Redis-backed flow store. Flow state uses
// database 2 (cache uses 0, sessions use 1).
func NewRedisStore() Store {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	storage := redis.New(redis.Config{
		Host:     env.GetEnv("CACHE_HOST", "localhost"),
		Port:     port,
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		Database: 2,
		Reset:    false,
	})
	return NewStore(storage)
}

func (s *storageStore) Load(flowKey string) RegistrationFlowState {
	raw, err := s.storage.Get(keyPrefix + flowKey)
	if err != nil || len(raw) == 0 {
		return EmptyState()
	}

	state := EmptyState()
	if err := json.Unmarshal(raw, &state); err != nil {
		// Corrupted state is treated as absent, never surfaced.
		log.Printf("flowstore: discarding unreadable state for %s: %v", flowKey, err)
		return EmptyState()
	}
	if state.SelectedFeatures == nil {
		state.SelectedFeatures = []string{}
	}
	if state.BillingCycle == "" {
		state.BillingCycle = EmptyState().BillingCycle
	}
	return state
}

func (s *storageStore) Save(flowKey string, state RegistrationFlowState) {
	raw, err := json.Marshal(state)
	if err != nil {
		log.Printf("flowstore: failed to serialize state for %s: %v", flowKey, err)
		return
	}
	// Persist failure is non-fatal; the in-memory copy stays correct for the
	// current session.
	if err := s.storage.Set(keyPrefix+flowKey, raw, 0); err != nil {
		log.Printf("flowstore: failed to persist state for %s: %v", flowKey, err)
	}
}

func (s *storageStore) Clear(flowKey string) {
	if err := s.storage.Delete(keyPrefix + flowKey); err != nil {
		log.Printf("flowstore: failed to clear state for %s: %v", flowKey, err)
	}
}

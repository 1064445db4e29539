package flowstore

import (
	"encoding/json"
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DanceLinkHQ/DanceLink/app/models"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/env"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a flow store backed by the flow_states table, for
// deployments without durable Redis.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// NewFromEnv selects the flow store backend via FLOW_STORE_DRIVER
// (redis|mysql); redis is the default.
func NewFromEnv(db *gorm.DB) Store {
	if env.GetEnv("FLOW_STORE_DRIVER", "redis") == "mysql" && db != nil {
		return NewGormStore(db)
	}
	return NewRedisStore()
}

func (s *gormStore) Load(flowKey string) RegistrationFlowState {
	var record models.FlowStateRecord
	err := s.db.Where("flow_key = ?", flowKey).First(&record).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("flowstore: failed to read state for %s: %v", flowKey, err)
		}
		return EmptyState()
	}

	state := EmptyState()
	if err := json.Unmarshal([]byte(record.StateJSON), &state); err != nil {
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

func (s *gormStore) Save(flowKey string, state RegistrationFlowState) {
	raw, err := json.Marshal(state)
	if err != nil {
		log.Printf("flowstore: failed to serialize state for %s: %v", flowKey, err)
		return
	}

	record := models.FlowStateRecord{
		FlowKey:   flowKey,
		StateJSON: string(raw),
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "flow_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"state_json", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		log.Printf("flowstore: failed to persist state for %s: %v", flowKey, err)
	}
}

func (s *gormStore) Clear(flowKey string) {
	err := s.db.Where("flow_key = ?", flowKey).Delete(&models.FlowStateRecord{}).Error
	if err != nil {
		log.Printf("flowstore: failed to clear state for %s: %v", flowKey, err)
	}
}

package models

import "time"

// FlowStateRecord is the durable key-value slot holding one serialized
// registration flow state per flow key. One row per key; concurrent writers
// race with last-write-wins semantics.
type FlowStateRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FlowKey   string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_flow_states_key" json:"flow_key"`
	StateJSON string    `gorm:"type:longtext" json:"state_json"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

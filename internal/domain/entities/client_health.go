package entities

import (
	"time"

	"github.com/google/uuid"
)

// HealthStatus is the account health classification
type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "healthy"
	HealthStatusAtRisk   HealthStatus = "at_risk"
	HealthStatusChurning HealthStatus = "churning"
)

// DefaultSatisfactionScore is the mid-scale score of a lazily created row
const DefaultSatisfactionScore = 5

// ClientHealth holds one row per client
type ClientHealth struct {
	ClientID           uuid.UUID    `json:"client_id" gorm:"type:uuid;primary_key"`
	Status             HealthStatus `json:"status" gorm:"type:varchar(20);not null;default:'healthy'"`
	SatisfactionScore  int          `json:"satisfaction_score" gorm:"type:integer;not null;default:5"`
	LastPositiveSignal *time.Time   `json:"last_positive_signal,omitempty" gorm:"type:timestamp"`
	LastNegativeSignal *time.Time   `json:"last_negative_signal,omitempty" gorm:"type:timestamp"`
	Notes              *string      `json:"notes,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewAtRiskHealth creates the row for a client first seen with a negative signal
func NewAtRiskHealth(clientID uuid.UUID, at time.Time) *ClientHealth {
	return &ClientHealth{
		ClientID:           clientID,
		Status:             HealthStatusAtRisk,
		SatisfactionScore:  DefaultSatisfactionScore,
		LastNegativeSignal: &at,
		CreatedAt:          at,
		UpdatedAt:          at,
	}
}

// RecordPositive stamps a positive signal
func (h *ClientHealth) RecordPositive(at time.Time) {
	h.LastPositiveSignal = &at
	h.UpdatedAt = at
}

// RecordNegative stamps a negative signal and escalates healthy accounts.
// Status never moves back to healthy here.
func (h *ClientHealth) RecordNegative(at time.Time) {
	h.LastNegativeSignal = &at
	if h.Status == HealthStatusHealthy {
		h.Status = HealthStatusAtRisk
	}
	h.UpdatedAt = at
}

// TableName specifies the table name for GORM
func (ClientHealth) TableName() string {
	return "client_health"
}

package entities

import (
	"time"

	"github.com/google/uuid"
)

// AlertType classifies a health alert
type AlertType string

const (
	AlertTypeSentimentDrop AlertType = "sentiment_drop"
	AlertTypeRiskTopic     AlertType = "risk_topic"
)

// AlertSeverity of a health alert
type AlertSeverity string

const (
	AlertSeverityInfo     AlertSeverity = "info"
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityCritical AlertSeverity = "critical"
)

// HealthAlert is raised when an intelligence record carries a risk signal
type HealthAlert struct {
	ID             uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ClientID       uuid.UUID     `json:"client_id" gorm:"type:uuid;not null;index"`
	IntelligenceID *uuid.UUID    `json:"intelligence_id,omitempty" gorm:"type:uuid;index"`
	AlertType      AlertType     `json:"alert_type" gorm:"type:varchar(50);not null"`
	Severity       AlertSeverity `json:"severity" gorm:"type:varchar(20);not null"`
	Message        string        `json:"message" gorm:"type:text;not null"`
	Acknowledged   bool          `json:"acknowledged" gorm:"default:false;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// NewHealthAlert creates an unacknowledged alert
func NewHealthAlert(clientID, intelligenceID uuid.UUID, alertType AlertType, severity AlertSeverity, message string) *HealthAlert {
	return &HealthAlert{
		ID:             uuid.New(),
		ClientID:       clientID,
		IntelligenceID: &intelligenceID,
		AlertType:      alertType,
		Severity:       severity,
		Message:        message,
		CreatedAt:      time.Now(),
	}
}

// TableName specifies the table name for GORM
func (HealthAlert) TableName() string {
	return "health_alerts"
}

package entities

import (
	"time"

	"github.com/google/uuid"
)

// TeamMember is an internal user that auto-created tasks may be assigned to
type TeamMember struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FullName string    `json:"full_name" gorm:"type:varchar(255);not null"`
	Email    string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	IsActive bool      `json:"is_active" gorm:"default:true;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (TeamMember) TableName() string {
	return "team_members"
}

package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ClientStatus is the lifecycle status of an account
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusArchived ClientStatus = "archived"
)

// Contact is a person at a client organisation
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Client is a customer organisation
type Client struct {
	ID       uuid.UUID                    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name     string                       `json:"name" gorm:"type:varchar(255);not null"`
	Domain   string                       `json:"domain" gorm:"type:varchar(255);index"`
	Contacts datatypes.JSONSlice[Contact] `json:"contacts" gorm:"type:jsonb;default:'[]'"`
	Tags     datatypes.JSONSlice[string]  `json:"tags" gorm:"type:jsonb;default:'[]'"`
	Status   ClientStatus                 `json:"status" gorm:"type:varchar(50);default:'active';not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// HasDomain reports whether the client's primary domain equals domain, ignoring case
func (c *Client) HasDomain(domain string) bool {
	return c.Domain != "" && strings.EqualFold(strings.TrimSpace(c.Domain), domain)
}

// HasContactEmail reports whether any contact uses the given address, ignoring case
func (c *Client) HasContactEmail(email string) bool {
	for _, contact := range c.Contacts {
		if contact.Email != "" && strings.EqualFold(strings.TrimSpace(contact.Email), email) {
			return true
		}
	}
	return false
}

// TableName specifies the table name for GORM
func (Client) TableName() string {
	return "clients"
}

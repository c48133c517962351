package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

// ClientRepository is the account directory the matcher resolves against
type ClientRepository interface {
	ListAll(ctx context.Context) ([]entities.Client, error)
}

// TeamMemberRepository is the directory used for assignee resolution
type TeamMemberRepository interface {
	ListActive(ctx context.Context) ([]entities.TeamMember, error)
}

// ClientHealthRepository defines persistence operations for account health
type ClientHealthRepository interface {
	// GetByClientID returns nil, nil when the client has no health row yet
	GetByClientID(ctx context.Context, clientID uuid.UUID) (*entities.ClientHealth, error)
	Save(ctx context.Context, health *entities.ClientHealth) error
}

// HealthAlertRepository stores raised alerts
type HealthAlertRepository interface {
	Create(ctx context.Context, alert *entities.HealthAlert) error
}

// TaskRepository stores tasks
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
}

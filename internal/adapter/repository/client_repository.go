package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

// ClientRepository reads the account directory
type ClientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// ListAll returns every client in creation order
func (r *ClientRepository) ListAll(ctx context.Context) ([]entities.Client, error) {
	var clients []entities.Client
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// TeamMemberRepository reads the internal team directory
type TeamMemberRepository struct {
	db *gorm.DB
}

// NewTeamMemberRepository creates a new team member repository
func NewTeamMemberRepository(db *gorm.DB) *TeamMemberRepository {
	return &TeamMemberRepository{db: db}
}

// ListActive returns active members in creation order
func (r *TeamMemberRepository) ListActive(ctx context.Context) ([]entities.TeamMember, error) {
	var members []entities.TeamMember
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

// ClientHealthRepository handles account health rows
type ClientHealthRepository struct {
	db *gorm.DB
}

// NewClientHealthRepository creates a new client health repository
func NewClientHealthRepository(db *gorm.DB) *ClientHealthRepository {
	return &ClientHealthRepository{db: db}
}

// GetByClientID returns nil, nil when no row exists
func (r *ClientHealthRepository) GetByClientID(ctx context.Context, clientID uuid.UUID) (*entities.ClientHealth, error) {
	var health entities.ClientHealth
	if err := r.db.WithContext(ctx).Where("client_id = ?", clientID).First(&health).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find client health: %w", err)
	}
	return &health, nil
}

// Save upserts the row on client_id
func (r *ClientHealthRepository) Save(ctx context.Context, health *entities.ClientHealth) error {
	if health == nil {
		return entities.ErrNilEntity
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "client_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status",
			"last_positive_signal",
			"last_negative_signal",
			"updated_at",
		}),
	}).Create(health).Error
}

// HealthAlertRepository stores health alerts
type HealthAlertRepository struct {
	db *gorm.DB
}

// NewHealthAlertRepository creates a new health alert repository
func NewHealthAlertRepository(db *gorm.DB) *HealthAlertRepository {
	return &HealthAlertRepository{db: db}
}

// Create inserts an alert
func (r *HealthAlertRepository) Create(ctx context.Context, alert *entities.HealthAlert) error {
	if alert == nil {
		return entities.ErrNilEntity
	}
	if err := r.db.WithContext(ctx).Create(alert).Error; err != nil {
		return fmt.Errorf("failed to create health alert: %w", err)
	}
	return nil
}

// TaskRepository stores tasks
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task
func (r *TaskRepository) Create(ctx context.Context, task *entities.Task) error {
	if task == nil {
		return entities.ErrNilEntity
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

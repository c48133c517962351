package actions

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
	"github.com/johnquangdev/clientpulse/internal/domain/repositories"
)

// Pipeline turns a freshly persisted intelligence record into follow-up
// tasks, health updates and alerts. Every step is best effort.
type Pipeline struct {
	tasks   repositories.TaskRepository
	members repositories.TeamMemberRepository
	health  repositories.ClientHealthRepository
	alerts  repositories.HealthAlertRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewPipeline creates a new Pipeline
func NewPipeline(
	tasks repositories.TaskRepository,
	members repositories.TeamMemberRepository,
	health repositories.ClientHealthRepository,
	alerts repositories.HealthAlertRepository,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		tasks:   tasks,
		members: members,
		health:  health,
		alerts:  alerts,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes task creation and health evaluation independently
func (p *Pipeline) Run(ctx context.Context, intel *entities.Intelligence) {
	if intel == nil || !intel.HasClient() {
		return
	}
	p.CreateTasks(ctx, intel)
	p.EvaluateHealth(ctx, intel)
}

// CreateTasks inserts one todo task per action item. It returns the number
// of tasks created.
func (p *Pipeline) CreateTasks(ctx context.Context, intel *entities.Intelligence) int {
	if !intel.HasClient() || len(intel.ActionItems) == 0 {
		return 0
	}

	members, err := p.members.ListActive(ctx)
	if err != nil {
		// Still create the tasks, unassigned
		p.logError("Failed to load team members", intel, err)
		members = nil
	}

	created := 0
	for _, item := range intel.ActionItems {
		title := strings.TrimSpace(item.Description)
		if title == "" {
			continue
		}

		var assignee string
		if item.Assignee != nil {
			assignee = *item.Assignee
		}

		task := entities.NewAutoTask(*intel.ClientID, intel.ID, title, MatchAssignee(members, assignee), ParseDueDate(item.DueDate))
		if err := p.tasks.Create(ctx, task); err != nil {
			p.logError("Failed to create task from action item", intel, err)
			continue
		}
		created++
	}

	if p.logger != nil && created > 0 {
		p.logger.Info("📝 Tasks created from action items",
			zap.String("intelligence_id", intel.ID.String()),
			zap.String("client_id", intel.ClientID.String()),
			zap.Int("count", created),
		)
	}
	return created
}

// EvaluateHealth raises alerts for negative sentiment and risk topics, then
// updates the client's health row
func (p *Pipeline) EvaluateHealth(ctx context.Context, intel *entities.Intelligence) {
	if !intel.HasClient() {
		return
	}
	clientID := *intel.ClientID
	signals := Evaluate(intel)

	if signals.Sentiment {
		p.raise(ctx, entities.NewHealthAlert(clientID, intel.ID,
			entities.AlertTypeSentimentDrop, entities.AlertSeverityWarning, SentimentMessage(intel.Summary)))
	}
	if len(signals.RiskTopics) > 0 {
		p.raise(ctx, entities.NewHealthAlert(clientID, intel.ID,
			entities.AlertTypeRiskTopic, entities.AlertSeverityWarning, RiskTopicMessage(signals.RiskTopics)))
	}

	if !signals.Positive && !signals.Negative {
		return
	}

	health, err := p.health.GetByClientID(ctx, clientID)
	if err != nil {
		p.logError("Failed to load client health", intel, err)
		return
	}

	now := p.now().UTC()
	switch {
	case health == nil && signals.Negative:
		health = entities.NewAtRiskHealth(clientID, now)
	case health == nil:
		return
	default:
		if signals.Positive {
			health.RecordPositive(now)
		}
		if signals.Negative {
			health.RecordNegative(now)
		}
	}

	if err := p.health.Save(ctx, health); err != nil {
		p.logError("Failed to save client health", intel, err)
		return
	}

	if p.logger != nil {
		p.logger.Info("🩺 Client health updated",
			zap.String("client_id", clientID.String()),
			zap.String("status", string(health.Status)),
			zap.Bool("negative_signal", signals.Negative),
		)
	}
}

func (p *Pipeline) raise(ctx context.Context, alert *entities.HealthAlert) {
	if err := p.alerts.Create(ctx, alert); err != nil {
		if p.logger != nil {
			p.logger.Error("❌ Failed to create health alert",
				zap.String("client_id", alert.ClientID.String()),
				zap.String("alert_type", string(alert.AlertType)),
				zap.Error(err),
			)
		}
		return
	}
	if p.logger != nil {
		p.logger.Info("🚨 Health alert raised",
			zap.String("client_id", alert.ClientID.String()),
			zap.String("alert_type", string(alert.AlertType)),
		)
	}
}

func (p *Pipeline) logError(msg string, intel *entities.Intelligence, err error) {
	if p.logger == nil {
		return
	}
	p.logger.Error("❌ "+msg,
		zap.String("intelligence_id", intel.ID.String()),
		zap.Error(err),
	)
}

// ParseDueDate accepts YYYY-MM-DD or RFC3339 and returns nil otherwise
func ParseDueDate(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

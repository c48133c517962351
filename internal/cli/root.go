// Package cli implements the ingest operator command.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
	"github.com/johnquangdev/clientpulse/internal/usecase/ingest"
)

// SyncRunner runs and inspects the scheduler
type SyncRunner interface {
	Run(ctx context.Context) (*ingest.RunReport, error)
	Status(ctx context.Context) ([]ingest.SourceStatus, error)
}

// Migrator applies schema migrations
type Migrator interface {
	Migrate(down bool, limit int) (int, error)
}

// AlertReader lists recently dispatched ops alerts
type AlertReader interface {
	Recent(ctx context.Context, n int64) ([]entities.OpsAlert, error)
}

// Uploader stores a document in the document bucket
type Uploader interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
}

// Deps opens the dependencies a command needs. Each factory returns a
// release func the command calls when done.
type Deps struct {
	Runner   func(ctx context.Context) (SyncRunner, func(), error)
	Migrator func(ctx context.Context) (Migrator, func(), error)
	Alerts   func(ctx context.Context) (AlertReader, func(), error)
	Uploader func(ctx context.Context) (Uploader, func(), error)
}

// NewRootCmd builds the ingest command tree
func NewRootCmd(deps Deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "ingest",
		Short: "Operate the client-intelligence ingestion pipeline",
		Long: `ingest runs the knowledge-source scheduler outside the HTTP cron trigger,
manages the database schema and inspects sources and operational alerts.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newRunCmd(deps),
		newSourcesCmd(deps),
		newMigrateCmd(deps),
		newAlertsCmd(deps),
		newUploadCmd(deps),
	)
	return root
}

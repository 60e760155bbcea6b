package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/skirmish-go/internal/adapters/persistence"
	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/config"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/database"
)

// NewEventsCommand lists persisted simulation events
func NewEventsCommand() *cobra.Command {
	var (
		runID    string
		playerID int
		limit    int
		level    string
		since    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the persisted event log",
		Long: `Retrieve simulation events from the database, oldest first.

Events are only stored by runs with logging.persist enabled or --persist.

Examples:
  skirmish events --run 6f1c... --limit 50
  skirmish events --player 1 --level WARNING
  skirmish events --since 10m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			filter := common.EventLogFilter{RunID: runID, Limit: limit}
			if playerID > 0 {
				filter.PlayerID = &playerID
			}
			if level != "" {
				upper := strings.ToUpper(level)
				filter.Level = &upper
			}
			if since > 0 {
				from := time.Now().Add(-since)
				filter.Since = &from
			}

			repo := persistence.NewGormEventLogRepository(db, nil)
			entries, err := repo.List(context.Background(), filter)
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println("No events found")
				return nil
			}

			// newest first from the repository; print oldest first
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				fmt.Printf("[%s] [%-7s] [tick %5d] %s\n",
					e.Timestamp.Format("2006-01-02 15:04:05"),
					e.Level,
					e.Tick,
					e.Message,
				)
				if verbose && len(e.Metadata) > 0 {
					fmt.Printf("    %s\n", prettyPrint(e.Metadata))
				}
			}

			fmt.Printf("\nTotal: %d events\n", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Filter by run ID")
	cmd.Flags().IntVar(&playerID, "player", 0, "Filter by player ID")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of events")
	cmd.Flags().StringVar(&level, "level", "", "Filter by level (DEBUG, INFO, WARNING, ERROR)")
	cmd.Flags().DurationVar(&since, "since", 0, "Only events newer than this (e.g. 30m)")

	return cmd
}

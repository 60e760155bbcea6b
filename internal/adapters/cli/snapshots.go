package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/skirmish-go/internal/adapters/persistence"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/config"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/database"
)

// NewSnapshotsCommand lists saved player snapshots
func NewSnapshotsCommand() *cobra.Command {
	var (
		playerID int
		latest   bool
	)

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Show saved player snapshots",
		Long: `List the player state saved at the end of each simulate run.

Examples:
  skirmish snapshots --player 1
  skirmish snapshots --player 1 --latest`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerID <= 0 {
				return fmt.Errorf("--player is required")
			}

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			repo := persistence.NewGormPlayerSnapshotRepository(db)
			ctx := context.Background()

			if latest {
				s, err := repo.FindLatest(ctx, playerID)
				if err != nil {
					return err
				}
				fmt.Printf("Player %d (%s) at tick %d\n", s.PlayerID, s.Name, s.Tick)
				fmt.Println("══════════════════════════════════════════════")
				fmt.Printf("  Population:  %d/%d\n", s.Population, s.MaxPopulation)
				fmt.Printf("  Resources:   %s\n", formatResources(s.Resources))
				fmt.Printf("  Researched:  %s\n", strings.Join(s.Researched, ", "))
				fmt.Printf("  Units:       %s\n", formatCounts(s.UnitCounts))
				return nil
			}

			snapshots, err := repo.ListByPlayer(ctx, playerID)
			if err != nil {
				return fmt.Errorf("failed to list snapshots: %w", err)
			}
			if len(snapshots) == 0 {
				fmt.Println("No snapshots found for player", playerID)
				return nil
			}

			fmt.Printf("%-8s %-12s %s\n", "TICK", "POPULATION", "RESOURCES")
			fmt.Println("─────────────────────────────────────────────────")
			for _, s := range snapshots {
				fmt.Printf("%-8d %-12s %s\n", s.Tick, fmt.Sprintf("%d/%d", s.Population, s.MaxPopulation), formatResources(s.Resources))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&playerID, "player", 0, "Player ID")
	cmd.Flags().BoolVar(&latest, "latest", false, "Show only the latest snapshot in detail")

	return cmd
}

func formatResources(resources []shared.ResourceQuantity) string {
	if len(resources) == 0 {
		return "-"
	}
	parts := make([]string, len(resources))
	for i, r := range resources {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%dx %s", counts[name], name)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

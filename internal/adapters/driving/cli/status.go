package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the document library",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if stateStore == nil {
		return errors.New("state store not configured")
	}

	ctx := context.Background()
	records, err := stateStore.Records(ctx)
	if err != nil {
		return fmt.Errorf("reading library: %w", err)
	}
	manifest, err := stateStore.Manifest(ctx)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	cmd.Printf("Library: %d document(s), %d manifest entr%s\n",
		len(records), len(manifest), plural(len(manifest), "y", "ies"))

	if len(records) == 0 {
		return nil
	}

	byCategory := make(map[domain.Category]int)
	for _, r := range records {
		byCategory[r.Category]++
	}

	categories := make([]domain.Category, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	for _, c := range categories {
		cmd.Printf("  %-20s %d\n", c, byCategory[c])
	}

	var latest domain.ManifestEntry
	for _, entry := range manifest {
		if entry.ProcessedAt.After(latest.ProcessedAt) {
			latest = entry
		}
	}
	if !latest.ProcessedAt.IsZero() {
		cmd.Printf("Last processed: %s (%s)\n", latest.Path, latest.ProcessedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

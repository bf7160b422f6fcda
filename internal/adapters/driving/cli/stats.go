package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [doc-id]",
	Short: "Show metadata for an ingested document",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]

	doc, err := documentService.Stats(cmd.Context(), docID)
	if err != nil {
		return fmt.Errorf("failed to get document stats: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Filename: %s\n", doc.Filename)
	cmd.Printf("  Chunks:   %d\n", doc.ChunkCount)
	cmd.Printf("  Ingested: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var forgetCmd = &cobra.Command{
	Use:   "forget [doc-id]",
	Short: "Remove a document from the index",
	Long:  `Deletes the document and all of its chunks. Safe to repeat.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runForget,
}

func init() {
	rootCmd.AddCommand(forgetCmd)
}

func runForget(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]

	removed, err := documentService.Forget(cmd.Context(), docID)
	if err != nil {
		return fmt.Errorf("failed to forget document: %w", err)
	}

	if removed {
		cmd.Printf("Document %s removed from index.\n", docID)
	} else {
		cmd.Printf("Document %s was not in the index.\n", docID)
	}
	return nil
}

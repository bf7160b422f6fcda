package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [doc-id]",
	Short: "Suggest questions to ask about a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]

	questions, err := documentService.SuggestQuestions(cmd.Context(), docID)
	if err != nil {
		return fmt.Errorf("failed to suggest questions: %w", err)
	}

	cmd.Println("Suggested questions:")
	for _, q := range questions {
		cmd.Printf("  - %s\n", q)
	}
	return nil
}

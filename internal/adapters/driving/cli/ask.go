package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docwizard/docwizard/internal/core/domain"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [doc-id] [question]",
	Short: "Ask a question about an ingested document",
	Long: `Retrieves the most relevant chunks of the document, estimates how
confidently they ground an answer, and prints the generated answer when a
generator is configured.`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top", "k", 0, "retrieval candidate count (0 = default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID, question := args[0], args[1]

	answer, err := documentService.Ask(cmd.Context(), docID, question, askTopK)
	if err != nil {
		return fmt.Errorf("failed to answer question: %w", err)
	}

	if askJSON {
		out, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	return outputAnswer(cmd, answer)
}

func outputAnswer(cmd *cobra.Command, answer *domain.Answer) error {
	if answer.Text != "" {
		cmd.Println(answer.Text)
		cmd.Println()
	}

	cmd.Printf("Confidence: %s\n", answer.Confidence)

	if len(answer.Context) == 0 {
		cmd.Println("No relevant passages found.")
		return nil
	}

	cmd.Println()
	cmd.Println("Supporting passages:")
	for i, c := range answer.Context {
		snippet := c.Content
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		cmd.Printf("  [%d] chunk %d (%.2f)\n", i+1, c.Position, c.Similarity)
		cmd.Printf("      %s\n", snippet)
	}
	return nil
}

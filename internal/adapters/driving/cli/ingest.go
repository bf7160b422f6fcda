package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docwizard/docwizard/internal/extractors/plaintext"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Index a document for question answering",
	Long: `Reads a plain text file, splits it into overlapping chunks, embeds
them and stores the result. Prints the document ID used by ask, suggest,
stats and forget.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the index summary as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	path := args[0]
	filename := filepath.Base(path)
	ctx := cmd.Context()

	extractor := plaintext.New()
	if !extractor.Supports(filename) {
		return fmt.Errorf("unsupported file type: %s", filename)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	text, err := extractor.Extract(ctx, filename, data)
	if err != nil {
		return fmt.Errorf("extracting text: %w", err)
	}

	summary, err := documentService.Ingest(ctx, filename, text)
	if err != nil {
		return fmt.Errorf("failed to ingest document: %w", err)
	}

	if ingestJSON {
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Printf("Indexed %s\n\n", summary.Filename)
	cmd.Printf("  Document ID: %s\n", summary.DocumentID)
	cmd.Printf("  Chunks:      %d\n", summary.ChunkCount)
	return nil
}

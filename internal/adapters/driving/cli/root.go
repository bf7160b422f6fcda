// Package cli implements the docwizard command line interface. It wires
// configuration, the embedding chain, the document index and the answer
// generator into the document service consumed by every subcommand.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/docwizard/docwizard/internal/adapters/driven/ai"
	"github.com/docwizard/docwizard/internal/adapters/driven/config/file"
	memoryindex "github.com/docwizard/docwizard/internal/adapters/driven/index/memory"
	sqliteindex "github.com/docwizard/docwizard/internal/adapters/driven/index/sqlite"
	"github.com/docwizard/docwizard/internal/chunker"
	"github.com/docwizard/docwizard/internal/core/ports/driven"
	"github.com/docwizard/docwizard/internal/core/ports/driving"
	"github.com/docwizard/docwizard/internal/core/services"
	"github.com/docwizard/docwizard/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgPath string
	verbose bool

	documentService driving.DocumentService
	closers         []io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "docwizard",
	Short: "Ask questions about your documents",
	Long: `docwizard indexes a document and answers questions about it using
embedding-based retrieval with a confidence estimate for every answer.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}
		return initServices(cmd.Context())
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.docwizard/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices builds the document service from configuration. Tests can
// preassign documentService to bypass the real stack.
func initServices(ctx context.Context) error {
	if documentService != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// Credentials may live in a local .env during development.
	_ = godotenv.Load()

	cfg, err := file.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	embedder, err := ai.NewEmbeddingChain(ctx, cfg)
	if err != nil {
		return fmt.Errorf("building embedding chain: %w", err)
	}
	closers = append(closers, embedder)

	var index driven.DocumentIndex
	switch cfg.Index.Backend {
	case "sqlite":
		index, err = sqliteindex.NewIndex(cfg.Index.DataDir)
		if err != nil {
			closeServices()
			return fmt.Errorf("opening index: %w", err)
		}
	case "memory":
		index = memoryindex.NewIndex()
	default:
		closeServices()
		return fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
	}
	closers = append(closers, index)

	generator := ai.NewAnswerGenerator(cfg)
	closers = append(closers, generator)
	logger.Debug("Embeddings: %s, generator: %s, index: %s",
		embedder.ModelName(), generator.Name(), cfg.Index.Backend)

	splitter := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.ChunkSize),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)

	documentService = services.NewDocumentService(splitter, embedder, index, generator)
	return nil
}

func closeServices() {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Debug("close: %v", err)
		}
	}
	closers = nil
}

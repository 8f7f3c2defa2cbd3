package cmd

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/plazadigital/tribubot/internal/app"
	"github.com/plazadigital/tribubot/internal/config"
	"github.com/plazadigital/tribubot/internal/knowledge"
)

// maxChunkLen bounds a single indexed chunk. Paragraphs are merged up to
// this size so short lines don't become one-sentence documents.
const maxChunkLen = 1500

// runIndex loads campaign documents from a directory into the knowledge base.
func runIndex() error {
	indexFlags := flag.NewFlagSet("index", flag.ContinueOnError)
	indexFlags.SetOutput(os.Stderr)

	dir := indexFlags.String("dir", "", "Directory with .md/.txt documents to index")
	source := indexFlags.String("source", knowledge.SourceCampaign, "Source label (faq, campaign, manual)")
	reset := indexFlags.Bool("reset", false, "Delete existing documents with this source before indexing")

	args := []string{}
	if len(os.Args) > 2 {
		args = os.Args[2:]
	}
	if err := indexFlags.Parse(args); err != nil {
		return fmt.Errorf("parsing index flags: %w", err)
	}
	if *dir == "" {
		return fmt.Errorf("--dir is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err = cfg.ValidateServe(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	if *reset {
		deleted, err := a.Knowledge.DeleteBySource(ctx, *source)
		if err != nil {
			return fmt.Errorf("resetting source %q: %w", *source, err)
		}
		logger.Info("cleared existing documents", "source", *source, "deleted", deleted)
	}

	indexed, err := indexDirectory(ctx, a.Knowledge, *dir, *source, logger)
	if err != nil {
		return err
	}

	logger.Info("indexing complete", "source", *source, "documents", indexed)
	return nil
}

// indexDirectory walks dir, chunks every .md/.txt file and upserts the
// chunks into the store. Returns the number of documents written.
func indexDirectory(ctx context.Context, store *knowledge.Store, dir, source string, logger *slog.Logger) (int, error) {
	indexed := 0

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !indexableFile(path) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = filepath.Base(path)
		}

		chunks := splitChunks(string(data))
		for i, chunk := range chunks {
			doc := knowledge.Document{
				ID:       fmt.Sprintf("%s#%d", rel, i),
				Source:   source,
				Content:  chunk,
				Metadata: map[string]string{"file": rel},
			}
			if err := store.Add(ctx, doc); err != nil {
				return fmt.Errorf("indexing %s chunk %d: %w", rel, i, err)
			}
			indexed++
		}

		logger.Info("indexed file", "file", rel, "chunks", len(chunks))
		return nil
	})
	if err != nil {
		return indexed, fmt.Errorf("walking %s: %w", dir, err)
	}

	return indexed, nil
}

// indexableFile reports whether path holds a document format we ingest.
func indexableFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".txt":
		return true
	}
	return false
}

// splitChunks splits text on blank lines and merges adjacent paragraphs
// until a chunk reaches maxChunkLen. Oversized single paragraphs are kept
// whole; the embedder truncates, we don't.
func splitChunks(text string) []string {
	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")

	var chunks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(p) > maxChunkLen {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	flush()

	return chunks
}

// Package importer bulk-loads markdown card files into the deck.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/gitsource"
	"github.com/conorfennell/flashdeck/internal/knol"
	"github.com/conorfennell/flashdeck/internal/parser"
)

// Deck is the part of the deck store the importer writes through.
type Deck interface {
	Cards() []domain.Card
	Add(ctx context.Context, card domain.Card) (domain.Card, error)
}

// Report summarises one import run.
type Report struct {
	Files      int
	Parsed     int
	Added      int
	Duplicates int
	Invalid    int
	Errors     []error
}

// Importer walks a directory, or a git checkout, for .md files.
type Importer struct {
	deck     Deck
	reposDir string
	progress io.Writer
	logger   *slog.Logger
}

// New creates an Importer that keeps git checkouts under reposDir.
func New(deck Deck, reposDir string, progress io.Writer, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		deck:     deck,
		reposDir: reposDir,
		progress: progress,
		logger:   logger.With("component", "importer"),
	}
}

// Run imports every card found under source, which is either a directory or
// a git URL. Cards whose content already exists in the deck are skipped and
// cards that fail validation are reported and skipped. Run stops at the
// first failure to reach the remote collection.
func (im *Importer) Run(ctx context.Context, source string) (Report, error) {
	var report Report

	dir := source
	if gitsource.IsRemote(source) {
		local, err := gitsource.LocalPath(im.reposDir, source)
		if err != nil {
			return report, err
		}
		if err := gitsource.Sync(ctx, source, local, im.progress); err != nil {
			return report, err
		}
		dir = local
	}

	known := knol.Set(im.deck.Cards())
	im.logger.Info("Importing cards", "source", source, "dir", dir, "known", len(known))

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		report.Files++
		cards, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			report.Errors = append(report.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
			return nil
		}

		for _, card := range cards {
			report.Parsed++
			hash := knol.Hash(card)
			if _, dup := known[hash]; dup {
				report.Duplicates++
				continue
			}

			if _, err := im.deck.Add(ctx, card); err != nil {
				var vErr *domain.ValidationError
				if errors.As(err, &vErr) {
					report.Invalid++
					report.Errors = append(report.Errors, fmt.Errorf("%s: %q: %w", path, card.Question, err))
					continue
				}
				return fmt.Errorf("adding card from %s: %w", path, err)
			}
			known[hash] = struct{}{}
			report.Added++
			im.logger.Debug("Card imported", "path", path, "hash", hash)
		}
		return nil
	})

	im.logger.Info("import complete",
		"source", source,
		"files", report.Files,
		"parsed", report.Parsed,
		"added", report.Added,
		"duplicates", report.Duplicates,
		"invalid", report.Invalid,
		"errors", len(report.Errors),
	)

	if walkErr != nil {
		return report, walkErr
	}
	return report, nil
}

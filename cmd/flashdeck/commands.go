package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/flashdeck/internal/console"
	"github.com/conorfennell/flashdeck/internal/deck"
	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/importer"
	"github.com/conorfennell/flashdeck/internal/remote"
	"github.com/conorfennell/flashdeck/internal/review"
	"github.com/conorfennell/flashdeck/internal/storage"
	"github.com/conorfennell/flashdeck/internal/web"
)

func cardFlags(flags *pflag.FlagSet) {
	flags.StringP("question", "q", "", "Card question")
	flags.StringP("answer", "a", "", "Card answer")
}

func removeFlags(flags *pflag.FlagSet) {
	flags.BoolP("yes", "y", false, "Skip the confirmation prompt")
}

// deckStore wires a deck store to the configured backend and the terminal.
func (e *env) deckStore(term *console.Terminal, confirm deck.Confirmer) (*deck.Store, error) {
	client, err := remote.New(e.cfg.Backend.URL, e.cfg.Backend.Timeout, e.logger)
	if err != nil {
		return nil, err
	}
	if confirm == nil {
		confirm = term
	}
	return deck.New(client, confirm, deck.WithNotifier(term), deck.WithLogger(e.logger)), nil
}

func runServe(ctx context.Context, e *env) error {
	db, err := storage.Open(e.cfg.Server.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	e.logger.Info("Database opened successfully", "path", e.cfg.Server.Database)

	server := &http.Server{
		Addr:              e.cfg.Server.Addr,
		Handler:           web.NewServer(db, e.logger, e.cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		e.logger.Info("Listening", "addr", server.Addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	e.logger.Info("Server closed")
	return nil
}

func runList(ctx context.Context, e *env) error {
	term := console.New(e.stdin, e.stdout)
	store, err := e.deckStore(term, nil)
	if err != nil {
		return err
	}
	if err := store.Load(ctx); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tQUESTION\tANSWER")
	for _, c := range store.Cards() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, oneLine(c.Question), oneLine(c.Answer))
	}
	return tw.Flush()
}

func runAdd(ctx context.Context, e *env) error {
	term := console.New(e.stdin, e.stdout)
	store, err := e.deckStore(term, nil)
	if err != nil {
		return err
	}

	q, _ := e.flags.GetString("question")
	a, _ := e.flags.GetString("answer")
	store.SetDraft(domain.Card{Question: q, Answer: a})

	created, err := store.AddDraft(ctx)
	if err != nil {
		return err
	}
	term.Printf("%s\n", created.ID)
	return nil
}

func runEdit(ctx context.Context, e *env) error {
	if e.flags.NArg() != 1 {
		return errors.New("edit needs exactly one card id")
	}
	id := e.flags.Arg(0)

	term := console.New(e.stdin, e.stdout)
	store, err := e.deckStore(term, nil)
	if err != nil {
		return err
	}
	if err := store.Load(ctx); err != nil {
		return err
	}

	var editing *domain.Card
	for _, c := range store.Cards() {
		if c.ID == id {
			editing = &c
			break
		}
	}
	if editing == nil {
		return fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
	}

	if e.flags.Changed("question") {
		editing.Question, _ = e.flags.GetString("question")
	}
	if e.flags.Changed("answer") {
		editing.Answer, _ = e.flags.GetString("answer")
	}
	return store.Update(ctx, *editing)
}

func runRemove(ctx context.Context, e *env) error {
	if e.flags.NArg() != 1 {
		return errors.New("rm needs exactly one card id")
	}
	id := e.flags.Arg(0)

	term := console.New(e.stdin, e.stdout)
	var confirm deck.Confirmer
	if yes, _ := e.flags.GetBool("yes"); yes {
		confirm = deck.ConfirmFunc(func(context.Context, deck.Prompt) (bool, error) { return true, nil })
	}
	store, err := e.deckStore(term, confirm)
	if err != nil {
		return err
	}
	if err := store.Load(ctx); err != nil {
		return err
	}

	removed, err := store.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		term.Printf("Cancelled.\n")
	}
	return nil
}

func runStudy(ctx context.Context, e *env) error {
	client, err := remote.New(e.cfg.Backend.URL, e.cfg.Backend.Timeout, e.logger)
	if err != nil {
		return err
	}
	cards, err := client.List(ctx)
	if err != nil {
		return &deck.FetchError{Err: err}
	}

	var src rand.Source
	if e.cfg.Study.Seed != 0 {
		src = rand.NewPCG(e.cfg.Study.Seed, e.cfg.Study.Seed)
	}
	session := review.New(src)
	term := console.New(e.stdin, e.stdout)
	if err := session.Start(cards); err != nil {
		if errors.Is(err, review.ErrEmptyDeck) {
			term.Printf("No flashcards to study.\n")
			return nil
		}
		return err
	}
	return study(ctx, term, session)
}

// study reads single-letter commands until "q", end of input or ctx is done.
func study(ctx context.Context, term *console.Terminal, session *review.Session) error {
	for ctx.Err() == nil {
		card, cur, err := session.Current()
		if err != nil {
			return err
		}
		side, text := "Question", card.Question
		if cur.Flipped {
			side, text = "Answer", card.Answer
		}
		arrow := "->"
		if cur.Direction == review.Backward {
			arrow = "<-"
		}
		term.Printf("\n%s [%d/%d] %s: %s\n(f)lip (n)ext (p)revious (q)uit > ",
			arrow, cur.Position+1, session.Len(), side, text)

		line, err := term.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch line {
		case "f":
			_, err = session.Flip()
		case "n", "":
			_, err = session.Next()
		case "p":
			_, err = session.Previous()
		case "q":
			return nil
		default:
			term.Printf("Unknown command %q\n", line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func runImport(ctx context.Context, e *env) error {
	if e.flags.NArg() != 1 {
		return errors.New("import needs a directory or git URL")
	}

	term := console.New(e.stdin, e.stdout)
	store, err := e.deckStore(term, nil)
	if err != nil {
		return err
	}
	if err := store.Load(ctx); err != nil {
		return err
	}

	im := importer.New(store, e.cfg.Import.ReposDir, e.stdout, e.logger)
	report, err := im.Run(ctx, e.flags.Arg(0))
	term.Printf("Found %d cards in %d files: %d added, %d duplicates, %d invalid.\n",
		report.Parsed, report.Files, report.Added, report.Duplicates, report.Invalid)
	if len(report.Errors) > 0 {
		term.Printf("\nErrors:\n")
		for _, rerr := range report.Errors {
			term.Printf("- %s\n", rerr)
		}
	}
	return err
}

func oneLine(s string) string {
	const maxWidth = 60
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
	}
	if len(out) > maxWidth {
		return string(out[:maxWidth-3]) + "..."
	}
	return string(out)
}

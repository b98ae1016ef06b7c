package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/validate"
)

// CardStore is the persistence the server needs.
type CardStore interface {
	ListCards(ctx context.Context) ([]domain.Card, error)
	InsertCard(ctx context.Context, card domain.Card) (domain.Card, error)
	UpdateCard(ctx context.Context, card domain.Card) error
	FindCard(ctx context.Context, id string) (*domain.Card, error)
	DeleteCard(ctx context.Context, id string) error
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	store          CardStore
	router         chi.Router
	logger         *slog.Logger
	allowedOrigins []string
}

// NewServer creates and configures a new server. An empty allowedOrigins
// disables CORS handling.
func NewServer(store CardStore, logger *slog.Logger, allowedOrigins []string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:          store,
		router:         chi.NewRouter(),
		logger:         logger.With("component", "web"),
		allowedOrigins: allowedOrigins,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	if len(s.allowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.router.Route("/flashcards", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/", s.handleListCards())
		r.Post("/", s.handleCreateCard())
		r.Put("/{id}", s.handleUpdateCard())
		r.Delete("/{id}", s.handleDeleteCard())
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

// handleListCards returns the whole collection in insertion order.
func (s *Server) handleListCards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cards, err := s.store.ListCards(r.Context())
		if err != nil {
			s.logger.Error("Error listing cards", "error", err)
			s.respondError(w, r, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		render.JSON(w, r, cards)
	}
}

// handleCreateCard stores a new card and echoes it back with its id.
func (s *Server) handleCreateCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		card, ok := s.decodeCard(w, r)
		if !ok {
			return
		}

		created, err := s.store.InsertCard(r.Context(), card)
		if err != nil {
			s.logger.Error("Error inserting card", "error", err)
			s.respondError(w, r, http.StatusInternalServerError, "Failed to add flashcard")
			return
		}

		s.logger.Info("card created", "id", created.ID)
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, created)
	}
}

// handleUpdateCard replaces the card named in the path and responds with
// the stored row.
func (s *Server) handleUpdateCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		card, ok := s.decodeCard(w, r)
		if !ok {
			return
		}
		card.ID = id

		if err := s.store.UpdateCard(r.Context(), card); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.respondError(w, r, http.StatusNotFound, "Flashcard not found")
				return
			}
			s.logger.Error("Error updating card", "id", id, "error", err)
			s.respondError(w, r, http.StatusInternalServerError, "Failed to update flashcard")
			return
		}

		stored, err := s.store.FindCard(r.Context(), id)
		if err != nil {
			s.logger.Error("Error reading back updated card", "id", id, "error", err)
			s.respondError(w, r, http.StatusInternalServerError, "Failed to update flashcard")
			return
		}
		if stored == nil {
			s.respondError(w, r, http.StatusNotFound, "Flashcard not found")
			return
		}

		render.JSON(w, r, stored)
	}
}

// handleDeleteCard removes the card named in the path.
func (s *Server) handleDeleteCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := s.store.DeleteCard(r.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.respondError(w, r, http.StatusNotFound, "Flashcard not found")
				return
			}
			s.logger.Error("Error deleting card", "id", id, "error", err)
			s.respondError(w, r, http.StatusInternalServerError, "Failed to delete flashcard")
			return
		}

		s.logger.Info("card deleted", "id", id)
		render.NoContent(w, r)
	}
}

// decodeCard reads and validates a card body, writing the error response
// itself when it returns false.
func (s *Server) decodeCard(w http.ResponseWriter, r *http.Request) (domain.Card, bool) {
	var card domain.Card
	if err := render.DecodeJSON(r.Body, &card); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "Invalid request body")
		return domain.Card{}, false
	}

	if err := validate.Card(card); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			s.respondError(w, r, http.StatusUnprocessableEntity, vErr.Message)
			return domain.Card{}, false
		}
		s.logger.Error("Error validating card", "error", err)
		s.respondError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return domain.Card{}, false
	}
	return card, true
}

// logRequests writes one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

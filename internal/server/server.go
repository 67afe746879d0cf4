package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Aarti-panchal01/Khoj/config"
	"github.com/Aarti-panchal01/Khoj/internal/db"
	"github.com/Aarti-panchal01/Khoj/internal/handlers"
	"github.com/Aarti-panchal01/Khoj/internal/kv"
	"github.com/Aarti-panchal01/Khoj/internal/mq"
	"github.com/Aarti-panchal01/Khoj/internal/services"
	"github.com/Aarti-panchal01/Khoj/internal/storage"
	"github.com/Aarti-panchal01/Khoj/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	events     *mq.MQ
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	entityStore := store.New(kv.NewPostgresKV(dbConn))
	if err := entityStore.Initialize(ctx); err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	mediaStorage, err := newMediaStorage(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	if err := mediaStorage.EnsureBucket(ctx); err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	events, err := newEventBroker(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userService := services.NewUserService(entityStore)
	itemService := services.NewItemService(entityStore, events)
	messageService := services.NewMessageService(entityStore, events)

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, userService, jwtSecret)
		})
		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, userService, itemService, messageService, authMiddleware)
		})
		r.Route("/items", func(r chi.Router) {
			handlers.ItemRouter(r, itemService, authMiddleware)
		})
		r.Get("/categories", handlers.Categories)
		r.Route("/conversations", func(r chi.Router) {
			handlers.ConversationRouter(r, messageService, authMiddleware)
		})
		r.Route("/upload", func(r chi.Router) {
			handlers.UploadRouter(r, mediaStorage, cfg.Upload.Folder, authMiddleware)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		events:     events,
	}, nil
}

func newMediaStorage(ctx context.Context, cfg config.Config) (*storage.Storage, error) {
	switch cfg.Storage.Backend {
	case "minio":
		backend, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return storage.NewStorage(backend), nil
	case "gcs":
		backend, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		return storage.NewStorage(backend), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// newEventBroker returns nil when no broker is configured; event
// publishing is then a no-op.
func newEventBroker(ctx context.Context, cfg config.Config) (*mq.MQ, error) {
	switch cfg.MQ.Backend {
	case "":
		return nil, nil
	case "rabbitmq":
		backend, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(backend), nil
	case "pubsub":
		backend, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(backend), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQ.Backend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.events != nil {
		_ = s.events.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}

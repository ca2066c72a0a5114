package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GhadeBhavesh/QZone/internal/app"
	"github.com/GhadeBhavesh/QZone/internal/auth"
	"github.com/GhadeBhavesh/QZone/internal/config"
	"github.com/GhadeBhavesh/QZone/internal/domain"
	"github.com/GhadeBhavesh/QZone/internal/infra/memory"
	pgstore "github.com/GhadeBhavesh/QZone/internal/infra/postgres"
	redisstore "github.com/GhadeBhavesh/QZone/internal/infra/redis"
	transport "github.com/GhadeBhavesh/QZone/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia coordinator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.Duration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(sampleQuestionSets())
	if pool != nil {
		loader = pgstore.NewQuestionLoader(pool)
	}

	questionTTL := config.Duration(cfg.Questions.TTL, 10*time.Minute)
	var questions app.QuestionRepository
	if redisClient != nil {
		questions = redisstore.NewQuestionRepository(redisClient, loader, questionTTL)
	} else {
		questions = memory.NewQuestionRepository(loader, questionTTL)
	}

	var games app.GameStore
	if redisClient != nil {
		games = redisstore.NewGameStore(redisClient, redisTTL)
	} else {
		games = memory.NewGameStore()
	}

	setID := cfg.Questions.Set
	if setID == "" {
		setID = "general"
	}

	timing := app.DefaultTiming()
	timing.AnnounceDelay = config.Duration(cfg.Game.AnnounceDelay, timing.AnnounceDelay)
	timing.QuestionTime = config.Duration(cfg.Game.QuestionTime, timing.QuestionTime)
	timing.RevealDelay = config.Duration(cfg.Game.RevealDelay, timing.RevealDelay)

	rooms := app.NewRoomRegistry()
	hub := transport.NewHub()
	gateway := transport.NewGateway(hub, rooms)
	service := app.NewGameService(rooms, games, questions, gateway, timing, setID)
	wsHandler := transport.NewWSHandler(service, hub, gateway)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	if pool != nil {
		secret := cfg.Auth.Secret
		if secret == "" {
			secret = os.Getenv("JWT_SECRET")
		}
		tokens := auth.NewManager(secret, config.Duration(cfg.Auth.TokenTTL, 24*time.Hour))
		authHandler := auth.NewHandler(pgstore.NewUserRepository(pool), tokens)
		scoreHandler := transport.NewScoreHandler(pgstore.NewScoreRepository(pool))

		mux.HandleFunc("POST /api/signup", authHandler.Signup)
		mux.HandleFunc("POST /api/login", authHandler.Login)
		mux.HandleFunc("GET /api/profile", tokens.RequireAuth(authHandler.Profile))
		mux.HandleFunc("POST /api/save-score", tokens.RequireAuth(scoreHandler.Save))
		mux.HandleFunc("GET /api/scores", tokens.RequireAuth(scoreHandler.List))
		mux.HandleFunc("GET /api/best-score", tokens.RequireAuth(scoreHandler.Best))
		mux.HandleFunc("GET /api/leaderboard", tokens.RequireAuth(scoreHandler.Leaderboard))
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia coordinator on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuestionSets is the built-in general-knowledge bank, used when
// postgres is not configured.
func sampleQuestionSets() map[string]domain.QuestionSet {
	return map[string]domain.QuestionSet{
		"general": {
			ID: "general",
			Questions: []domain.Question{
				{
					Prompt:  "What is the capital of France?",
					Choices: []string{"London", "Berlin", "Paris", "Madrid"},
					Correct: 2,
				},
				{
					Prompt:  "Which planet is known as the Red Planet?",
					Choices: []string{"Venus", "Mars", "Jupiter", "Saturn"},
					Correct: 1,
				},
				{
					Prompt:  "What is 2 + 2 × 4?",
					Choices: []string{"16", "10", "8", "12"},
					Correct: 1,
				},
				{
					Prompt:  "Who painted the Mona Lisa?",
					Choices: []string{"Van Gogh", "Da Vinci", "Picasso", "Michelangelo"},
					Correct: 1,
				},
				{
					Prompt:  "What is the largest mammal?",
					Choices: []string{"African Elephant", "Blue Whale", "Giraffe", "Hippopotamus"},
					Correct: 1,
				},
				{
					Prompt:  "What is the smallest country in the world?",
					Choices: []string{"Monaco", "Vatican City", "San Marino", "Liechtenstein"},
					Correct: 1,
				},
				{
					Prompt:  "Which programming language is known for its use in web development?",
					Choices: []string{"Python", "JavaScript", "C++", "Assembly"},
					Correct: 1,
				},
				{
					Prompt:  "What is the chemical symbol for gold?",
					Choices: []string{"Go", "Gd", "Au", "Ag"},
					Correct: 2,
				},
				{
					Prompt:  "Which year did World War II end?",
					Choices: []string{"1944", "1945", "1946", "1947"},
					Correct: 1,
				},
				{
					Prompt:  "What is the fastest land animal?",
					Choices: []string{"Lion", "Cheetah", "Gazelle", "Horse"},
					Correct: 1,
				},
			},
		},
	}
}

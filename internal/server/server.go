package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docquery/factgraph/internal/db"
	"github.com/docquery/factgraph/internal/queue"
	mid "github.com/docquery/factgraph/internal/server/middleware"
	"github.com/docquery/factgraph/internal/storage"
	"github.com/docquery/factgraph/internal/util"
	"github.com/docquery/factgraph/pkg/ai"
	oai "github.com/docquery/factgraph/pkg/ai/ollama"
	gai "github.com/docquery/factgraph/pkg/ai/openai"
	"github.com/docquery/factgraph/pkg/logger"
	"github.com/docquery/factgraph/pkg/retrieval"
	storepgx "github.com/docquery/factgraph/pkg/store/pgx"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	databaseURL := util.GetEnv("DATABASE_URL")
	if err := db.Migrate(databaseURL); err != nil {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	conn, err := db.Connect(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	if err := queue.SetupQueues(ch, []string{queue.IngestQueue}); err != nil {
		logger.Fatal("Failed to setup queues", "err", err)
	}

	s3 := storage.NewS3Client(ctx)

	aiClient := NewAIClient()
	retriever, err := retrieval.NewRetriever(retrieval.NewRetrieverParams{
		Client:              aiClient,
		Store:               storepgx.NewTripleStore(conn),
		ExtractionModel:     util.GetEnv("AI_EXTRACT_MODEL"),
		JudgeModel:          util.GetEnv("AI_JUDGE_MODEL"),
		TranslationLanguage: util.GetEnvString("RETRIEVAL_TRANSLATION_LANGUAGE", "Tamil"),
		Options: retrieval.Options{
			MaxCandidates: util.GetEnvInt("RETRIEVAL_MAX_CANDIDATES", retrieval.DefaultMaxCandidates),
			FallbackTopK:  util.GetEnvInt("RETRIEVAL_FALLBACK_TOP_K", retrieval.DefaultFallbackTopK),
			StageTimeout:  time.Duration(util.GetEnvInt("RETRIEVAL_STAGE_TIMEOUT_MS", 30000)) * time.Millisecond,
		},
	})
	if err != nil {
		logger.Fatal("Failed to create retriever", "err", err)
	}

	app := &mid.App{
		DBConn:    conn,
		Queue:     ch,
		S3:        s3,
		Retriever: retriever,
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

// NewAIClient builds the generation client selected by AI_ADAPTER.
func NewAIClient() ai.Client {
	adapter := util.GetEnv("AI_ADAPTER")
	switch adapter {
	case "ollama":
		client, err := oai.NewClient(oai.NewClientParams{
			ExtractionModel:       util.GetEnv("AI_EXTRACT_MODEL"),
			JudgeModel:            util.GetEnv("AI_JUDGE_MODEL"),
			BaseURL:               util.GetEnv("AI_CHAT_URL"),
			APIKey:                util.GetEnv("AI_CHAT_KEY"),
			MaxConcurrentRequests: int64(util.GetEnvInt("AI_PARALLEL_REQ", 1)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewClient(gai.NewClientParams{
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			JudgeModel:      util.GetEnv("AI_JUDGE_MODEL"),
			BaseURL:         util.GetEnv("AI_CHAT_URL"),
			APIKey:          util.GetEnv("AI_CHAT_KEY"),
		})
	}
}

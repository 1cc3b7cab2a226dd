package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/resumescan/internal/ai/suitability"
	"github.com/Abraxas-365/resumescan/pkg/config"
	"github.com/Abraxas-365/resumescan/pkg/database"
	"github.com/Abraxas-365/resumescan/pkg/fsx"
	"github.com/Abraxas-365/resumescan/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/resumescan/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/resumescan/pkg/iam/auth"
	"github.com/Abraxas-365/resumescan/pkg/iam/user/userinfra"
	"github.com/Abraxas-365/resumescan/pkg/logx"
	"github.com/Abraxas-365/resumescan/recruitment/screening"
	"github.com/Abraxas-365/resumescan/recruitment/screening/screeningapi"
	"github.com/Abraxas-365/resumescan/recruitment/screening/screeninginfra"
	"github.com/Abraxas-365/resumescan/recruitment/screening/screeningsrv"
	"github.com/Abraxas-365/resumescan/recruitment/screening/worker"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/streadway/amqp"
	"golang.org/x/crypto/bcrypt"
)

const analysisQueuePrefix = "resumescan:analysis_jobs"

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	AMQP       *amqp.Connection
	Queue      *screeninginfra.RedisQueue
	Publisher  screening.EventPublisher

	// Services
	TokenService     *auth.TokenService
	AuthService      *auth.AuthService
	ScreeningService *screeningsrv.Service
	Worker           *worker.AnalysisWorker

	// API Handlers
	AuthHandlers      *auth.Handlers
	ScreeningHandlers *screeningapi.ScreeningHandlers

	// Middleware
	AuthMiddleware *auth.AuthMiddleware
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	c := &Container{Config: cfg}
	c.initInfrastructure()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	ctx := context.Background()

	// 1. Database Connection
	db, err := database.Connect(c.Config.DB)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		logx.Fatalf("Failed to migrate database: %v", err)
	}
	c.DB = db

	// 2. Redis Connection
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Addr,
		Password: c.Config.Redis.Pass,
		DB:       c.Config.Redis.DB,
	})
	if _, err := c.Redis.Ping(ctx).Result(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// 3. File storage
	switch c.Config.Storage.Driver {
	case config.StorageDriverS3:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.Config.Storage.Region))
		if err != nil {
			logx.Fatalf("unable to load SDK config, %v", err)
		}
		c.FileSystem = fsxs3.NewS3FileSystem(s3.NewFromConfig(awsCfg), c.Config.Storage.Bucket, c.Config.Storage.Prefix)
		logx.Infof("Storing uploads in s3://%s/%s", c.Config.Storage.Bucket, c.Config.Storage.Prefix)
	default:
		local, err := fsxlocal.NewLocalFileSystem(c.Config.Storage.LocalRoot)
		if err != nil {
			logx.Fatalf("Failed to prepare local storage: %v", err)
		}
		c.FileSystem = local
		logx.Infof("Storing uploads under %s", c.Config.Storage.LocalRoot)
	}

	// 4. Events
	c.Publisher = screeninginfra.NoopPublisher{}
	if url := c.Config.Events.RabbitMQURL; url != "" {
		conn, err := amqp.Dial(url)
		if err != nil {
			logx.Warnf("Failed to connect to RabbitMQ, events disabled: %v", err)
		} else {
			publisher, err := screeninginfra.NewAMQPPublisher(conn, c.Config.Events.Exchange)
			if err != nil {
				logx.Warnf("Failed to set up RabbitMQ exchange, events disabled: %v", err)
				conn.Close()
			} else {
				c.AMQP = conn
				c.Publisher = publisher
			}
		}
	}

	// 5. Job queue
	c.Queue = screeninginfra.NewRedisQueue(c.Redis, analysisQueuePrefix)
}

func (c *Container) initServices() {
	// --- Repositories ---
	userRepo := userinfra.NewPostgresUserRepository(c.DB)
	analysisRepo := screeninginfra.NewPostgresAnalysisRepository(c.DB)

	// --- Auth ---
	c.TokenService = auth.NewTokenService(
		c.Config.JWT.SecretKey,
		c.Config.JWT.AccessTokenTTL,
		c.Config.JWT.Issuer,
	)
	revocations := auth.NewRedisRevocationStore(c.Redis)
	c.AuthService = auth.NewAuthService(userRepo, auth.NewPasswordHasher(bcrypt.DefaultCost), c.TokenService, revocations, c.Config.Auth.AllowAdminSignup)

	// --- Screening ---
	scorer := c.newScorer()
	logx.Infof("Scoring mode: %s", scorer.Name())

	var queue screening.JobQueue
	if c.Config.Worker.Async {
		queue = c.Queue
	}
	c.ScreeningService = screeningsrv.NewService(analysisRepo, scorer, c.FileSystem, queue, c.Publisher)
	if c.Config.Worker.Async {
		c.Worker = worker.NewAnalysisWorker(c.ScreeningService, c.Queue, c.Config.Worker.Workers)
	}

	// --- Handlers ---
	c.AuthHandlers = auth.NewHandlers(c.AuthService)
	c.ScreeningHandlers = screeningapi.NewScreeningHandlers(c.ScreeningService)

	// --- Middleware ---
	c.AuthMiddleware = auth.NewAuthMiddleware(c.TokenService, revocations)
}

func (c *Container) newScorer() screening.Scorer {
	var (
		model      *screening.Model
		classifier screening.RoleClassifier
		err        error
	)
	switch c.Config.Scoring.Mode {
	case config.ScoringModeModel:
		if model, err = screening.LoadModel(c.Config.Scoring.ModelPath); err != nil {
			logx.Fatalf("Failed to load model %s: %v", c.Config.Scoring.ModelPath, err)
		}
	case config.ScoringModeLLM:
		classifier = suitability.NewClassifier(c.Config.Scoring.OpenAIKey, c.Config.Scoring.OpenAIModel)
	}

	scorer, err := screening.NewScorer(c.Config.Scoring.Mode, model, classifier)
	if err != nil {
		logx.Fatalf("Failed to create scorer: %v", err)
	}
	return scorer
}

// Health reports dependency status for the /health endpoint
func (c *Container) Health(ctx context.Context) map[string]any {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]any{
		"status": "ok",
		"db":     c.DB.PingContext(ctx) == nil,
		"redis":  c.Redis.Ping(ctx).Err() == nil,
		"events": c.AMQP != nil && !c.AMQP.IsClosed(),
	}
	if c.Worker != nil {
		if stats, err := c.Queue.Stats(ctx); err == nil {
			status["queue"] = stats
		}
	}
	return status
}

// Close releases connections in reverse order of creation
func (c *Container) Close() {
	if p, ok := c.Publisher.(*screeninginfra.AMQPPublisher); ok {
		_ = p.Close()
	}
	if c.AMQP != nil {
		_ = c.AMQP.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/wintolabs/farrukhnagar-realty-sub000/handlers"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/config"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/database"
	leadhandler "github.com/wintolabs/farrukhnagar-realty-sub000/internal/lead/handler"
	leadservice "github.com/wintolabs/farrukhnagar-realty-sub000/internal/lead/service"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/mailer"
	propertyhandler "github.com/wintolabs/farrukhnagar-realty-sub000/internal/property/handler"
	propertyrepo "github.com/wintolabs/farrukhnagar-realty-sub000/internal/property/repository"
	propertyservice "github.com/wintolabs/farrukhnagar-realty-sub000/internal/property/service"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/sessions"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/storage"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/throttle"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/tokens"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/logger"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/metrics"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

const (
	mongoAttempts = 5
	mongoBackoff  = time.Second
	readyTimeout  = 2 * time.Second
)

// backends holds the optional infrastructure. A nil member means the backing
// service is not configured or could not be reached.
type backends struct {
	redis *redis.Client
	mongo *mongo.Client
	store *storage.MinIOStorage
	mail  mailer.Sender

	properties propertyservice.Service
	leads      *leadservice.Service
}

func connect(ctx context.Context, cfg *config.Config) *backends {
	b := &backends{}

	if addr := cfg.Redis.Addr(); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pctx).Err()
		cancel()
		if err != nil {
			logger.Warnf("redis %s unreachable, continuing without it: %v", addr, err)
			_ = client.Close()
		} else {
			logger.Infof("connected to redis at %s", addr)
			b.redis = client
		}
	}

	if cfg.MinIO.Endpoint != "" {
		st, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("object storage unavailable: %v", err)
		} else {
			b.store = st
		}
	}

	if cfg.SendGrid.APIKey != "" {
		b.mail = mailer.NewSendGridSender(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		logger.Infof("SENDGRID_API_KEY not set; notifications are logged only")
		b.mail = mailer.LogSender{}
	}

	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, mongoAttempts, mongoBackoff)
		if err != nil {
			logger.Warnf("mongodb unavailable, using in-memory repositories: %v", err)
		} else {
			b.mongo = client
		}
	}

	b.buildServices(cfg)
	return b
}

func (b *backends) buildServices(cfg *config.Config) {
	// a typed nil must not leak into the interface
	var images propertyservice.ImageStore
	if b.store != nil {
		images = b.store
	}

	if b.mongo != nil {
		db := b.mongo.Database(cfg.MongoDB.Database)
		b.properties = propertyservice.NewMongoService(db.Collection(propertyrepo.CollectionName), images)
		b.leads = leadservice.NewMongoService(db, b.properties, b.mail, cfg.SendGrid.NotifyEmail)
		return
	}
	b.properties = propertyservice.NewMemoryService(images)
	b.leads = leadservice.NewMemoryService(b.properties, b.mail, cfg.SendGrid.NotifyEmail)
}

func (b *backends) close() {
	if b.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = b.mongo.Disconnect(ctx)
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

// buildRouter assembles middlewares and routes. It fails when the session
// secret is missing or a trusted proxy entry does not parse.
func buildRouter(cfg *config.Config, b *backends) (*gin.Engine, error) {
	revocations := sessions.NewRevocations(b.redis)
	issuer, err := tokens.NewIssuer(cfg.JWT.Secret, cfg.JWT.TokenTTL, nil)
	if err != nil {
		return nil, err
	}
	verifier, err := tokens.NewVerifier(cfg.JWT.Secret, nil, revocations)
	if err != nil {
		return nil, err
	}
	cookies := sessions.NewCookiePolicy(cfg)
	thr := throttle.New(b.redis, cfg.LoginThrottle.MaxFailures, cfg.LoginThrottle.Window)

	r := gin.New()
	// nil trusts no proxy: ClientIP is the TCP peer unless a proxy is configured
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery(), logger.GinLogger(), middleware.CORS(cfg.Server.AllowedOrigins))

	// optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		r.Use(middleware.IdentifySession(verifier, cookies))
		if cfg.RateLimit.UseRedis && b.redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(b.redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.Use(middleware.SessionGate(verifier, cookies, middleware.DefaultGateConfig()))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readiness(cfg, b))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	handlers.NewAuthHandler(cfg, issuer, verifier, cookies, thr, revocations).Register(r.Group("/api"))

	admin := middleware.RequireAdmin(verifier, cookies)
	propertyhandler.RegisterPropertyRoutes(r, b.properties, admin)
	leadhandler.RegisterLeadRoutes(r, b.leads, admin)

	var objects handlers.ObjectStore
	if b.store != nil {
		objects = b.store
	}
	handlers.NewUploadHandler(objects, cfg.MinIO.MaxUploadBytes).Register(r, admin)

	handlers.RegisterPages(r, cfg.Server.FrontendDir)
	return r, nil
}

// readiness pings every connected dependency and answers 503 when a configured
// one is missing or does not answer. Unconfigured dependencies are reported
// but do not fail the check.
func readiness(cfg *config.Config, b *backends) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		deps := map[string]bool{
			"store":   b.mongo != nil && b.mongo.Ping(ctx, nil) == nil,
			"redis":   b.redis != nil && b.redis.Ping(ctx).Err() == nil,
			"storage": b.store != nil && b.store.Ping(ctx) == nil,
		}
		ready := true
		if cfg.MongoDB.URI != "" && !deps["store"] {
			ready = false
		}
		if cfg.Redis.Addr() != "" && !deps["redis"] {
			ready = false
		}
		if cfg.MinIO.Endpoint != "" && !deps["storage"] {
			ready = false
		}

		uptime := time.Since(startTime).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	}
}

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.ValidateAuth(); err != nil {
		logger.Fatalf("refusing to start: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Infof("config loaded: env=%s mongo=%v redis=%v minio=%v sendgrid=%v",
		cfg.Server.Environment, cfg.MongoDB.URI != "", cfg.Redis.Addr() != "", cfg.MinIO.Endpoint != "", cfg.SendGrid.APIKey != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := connect(ctx, cfg)
	defer b.close()

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r, err := buildRouter(cfg, b)
	if err != nil {
		logger.Fatalf("router: %v", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown: %v", err)
	}
}

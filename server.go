package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bsm/redislock"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"

	"github.com/acmeops/backlog-alerts/config"
	"github.com/acmeops/backlog-alerts/mailer"
	"github.com/acmeops/backlog-alerts/reports"
	"github.com/acmeops/backlog-alerts/workflow"
)

const defaultPort = "8080"

// One lock per cost center: runs for different centers may overlap, a second
// run for the same center would double-send the same alert.
const runLockKeyPrefix = "backlog-alerts:run:"

const runLockTTL = 5 * time.Minute

var tracer = otel.Tracer("backlog-alerts")

var errRunInProgress = errors.New("another alert run is in progress")

func newCoordinator(settings config.AlertSettings) *workflow.Coordinator {
	var dispatcher workflow.Dispatcher
	if config.DryRun() {
		dispatcher = &mailer.DryRunDispatcher{Logger: config.GetLogger()}
	} else {
		dispatcher = &mailer.SMTPDispatcher{
			Host:     settings.SMTPHost,
			Port:     settings.SMTPPort,
			Username: settings.SMTPUser,
			Password: settings.SMTPPassword,
		}
	}
	return &workflow.Coordinator{
		Source:     workflow.DatabaseSource{},
		Writer:     reports.ExcelWriter{},
		Dispatcher: dispatcher,
		Settings:   settings,
		Logger:     config.GetLogger(),
	}
}

// runAlerts executes one evaluation under the best-effort run lock.
// The lock is an optimization against overlapping triggers; a run without
// Redis still behaves correctly, it just loses overlap protection.
func runAlerts(ctx context.Context) (workflow.RunMetrics, error) {
	ctx, span := tracer.Start(ctx, "alert-run")
	defer span.End()

	settings, err := config.LoadAlertSettings()
	if err != nil {
		return workflow.RunMetrics{}, err
	}

	if locker := config.GetRedisLock(); locker != nil {
		lock, lockErr := locker.Obtain(ctx, runLockKeyPrefix+settings.CostCenter, runLockTTL, nil)
		if lockErr == redislock.ErrNotObtained {
			return workflow.RunMetrics{}, errRunInProgress
		}
		if lockErr == nil {
			defer lock.Release(context.WithoutCancel(ctx))
		}
	}

	return newCoordinator(settings).Run(ctx)
}

func runHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.GetDB() == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not ready"})
			return
		}

		metrics, err := runAlerts(c.Request.Context())
		if err != nil {
			if errors.Is(err, errRunInProgress) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   err.Error(),
				"metrics": metrics,
			})
			return
		}
		c.JSON(http.StatusOK, metrics)
	}
}

func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if config.GetDB() == nil {
			status["database"] = "connecting"
		}
		c.JSON(http.StatusOK, status)
	}
}

// startSchedule registers the in-process trigger when ALERT_CRON is set.
// The usual deployment leaves this unset and lets the platform scheduler
// POST /run instead.
func startSchedule(spec string) (*cron.Cron, error) {
	logger := config.GetLogger()
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		metrics, err := runAlerts(context.Background())
		if err != nil && !errors.Is(err, errRunInProgress) {
			config.LogError(logger, "server.go", "startSchedule", "runAlerts", metrics, err)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	logger.WithField("cron", spec).Info("alert schedule registered")
	return c, nil
}

func main() {
	logger := config.GetLogger()

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	// Start listening before the DB is up; the trigger endpoint reports 503
	// until the connection lands.
	go func() {
		config.ConnectDatabaseWithRetry()
		config.ConnectRedis()
	}()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.GET("/healthz", healthHandler())
	router.POST("/run", runHandler())

	var schedule *cron.Cron
	if spec := strings.TrimSpace(os.Getenv("ALERT_CRON")); spec != "" {
		var err error
		schedule, err = startSchedule(spec)
		if err != nil {
			logger.WithField("cron", spec).Fatalf("invalid ALERT_CRON: %v", err)
		}
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.WithField("port", port).Info("backlog-alerts listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if schedule != nil {
		schedule.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	logger.Info("backlog-alerts stopped")
}

package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/burakmert236/firstblood/common/cache"
	"github.com/burakmert236/firstblood/common/config"
	"github.com/burakmert236/firstblood/common/database"
	apperrors "github.com/burakmert236/firstblood/common/errors"
	"github.com/burakmert236/firstblood/common/events"
	"github.com/burakmert236/firstblood/common/logger"
	"github.com/burakmert236/firstblood/common/models"
	"github.com/burakmert236/firstblood/common/natsjetstream"
	"github.com/burakmert236/firstblood/internal/export"
	fberrors "github.com/burakmert236/firstblood/services/firstblood-service/internal/errors"
	fbevents "github.com/burakmert236/firstblood/services/firstblood-service/internal/events"
	"github.com/burakmert236/firstblood/services/firstblood-service/internal/repository"
	"github.com/burakmert236/firstblood/services/firstblood-service/internal/service"
	"github.com/spf13/afero"
)

const serviceName = "firstblood"

type App struct {
	cfg            *config.Config
	fs             afero.Fs
	stdout         io.Writer
	stderr         io.Writer
	logger         *logger.Logger
	redisClient    *cache.RedisClient
	dynamoDBClient *database.DynamoDBClient
	natsClient     *natsjetstream.Client

	loader            *export.Loader
	reportCache       *repository.ReportCacheRepository
	sinks             []service.ReportSink
	firstBloodService service.FirstBloodService

	cleanup []func() error
}

type Option func(*App)

type initStep func(a *App, ctx context.Context) *apperrors.AppError

// WithFs replaces the OS filesystem for both the export and the report file.
func WithFs(fs afero.Fs) Option {
	return func(a *App) {
		a.fs = fs
	}
}

// WithOutput sets where a "-" report and the logs are written.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

// New wires every configured sink for a full run.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, *apperrors.AppError) {
	return build(ctx, cfg, opts,
		(*App).initReportFile,
		(*App).initRedis,
		(*App).initDynamoDB,
		(*App).initNATS,
		(*App).initLoader,
		(*App).initService,
	)
}

// NewExtractor only builds the export loader; no sink is connected.
func NewExtractor(ctx context.Context, cfg *config.Config, opts ...Option) (*App, *apperrors.AppError) {
	return build(ctx, cfg, opts, (*App).initLoader)
}

// NewReportReader connects to the Redis report cache only.
func NewReportReader(ctx context.Context, cfg *config.Config, opts ...Option) (*App, *apperrors.AppError) {
	if !cfg.Redis.Enabled {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "reading cached reports requires redis.enabled")
	}
	return build(ctx, cfg, opts, (*App).initRedis)
}

func build(ctx context.Context, cfg *config.Config, opts []Option, steps ...initStep) (*App, *apperrors.AppError) {
	app := &App{
		cfg:     cfg,
		fs:      afero.NewOsFs(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		cleanup: make([]func() error, 0),
	}
	for _, opt := range opts {
		opt(app)
	}

	app.initLogger()

	for _, step := range steps {
		if err := step(app, ctx); err != nil {
			app.Stop()
			return nil, err
		}
	}

	return app, nil
}

func (a *App) initLogger() {
	a.logger = logger.New(logger.Config{
		Level:       a.cfg.Log.Level,
		Format:      a.cfg.Log.Format,
		ServiceName: serviceName,
		Output:      a.stderr,
	})
}

func (a *App) initReportFile(ctx context.Context) *apperrors.AppError {
	if a.cfg.Output.Path == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "output path must not be empty")
	}

	a.sinks = append(a.sinks, repository.NewReportFileRepository(
		a.fs,
		a.cfg.Output.Path,
		a.cfg.Output.Indent,
		a.stdout,
		a.logger,
	))
	return nil
}

func (a *App) initRedis(ctx context.Context) *apperrors.AppError {
	if !a.cfg.Redis.Enabled {
		return nil
	}

	redisClient, err := cache.NewRedisClient(ctx, a.cfg.Redis)
	if err != nil {
		return err
	}

	a.redisClient = redisClient
	a.cleanup = append(a.cleanup, redisClient.Close)
	a.reportCache = repository.NewReportCacheRepository(redisClient, a.cfg.Redis.TTL, a.logger)
	a.sinks = append(a.sinks, a.reportCache)

	a.logger.Info("Redis report cache enabled", "address", redisClient.Addr())
	return nil
}

func (a *App) initDynamoDB(ctx context.Context) *apperrors.AppError {
	if !a.cfg.DynamoDB.Enabled {
		return nil
	}

	dynamoDBClient, err := database.NewDynamoDBClient(ctx, a.cfg)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "dynamodb client could not be created")
	}

	a.dynamoDBClient = dynamoDBClient
	transactionRepo := database.NewTransactionRepository(dynamoDBClient.Client)
	a.sinks = append(a.sinks, repository.NewAwardRepository(transactionRepo, dynamoDBClient.Table(), a.logger))

	a.logger.Info("DynamoDB award store enabled", "table", dynamoDBClient.Table())
	return nil
}

func (a *App) initNATS(ctx context.Context) *apperrors.AppError {
	if !a.cfg.NATS.Enabled {
		return nil
	}

	natsClient, err := natsjetstream.NewClient(&natsjetstream.Config{
		URL:           a.cfg.NATS.URL,
		MaxReconnect:  a.cfg.NATS.MaxReconnect,
		ReconnectWait: time.Duration(a.cfg.NATS.ReconnectWaitSeconds) * time.Second,
		Timeout:       time.Duration(a.cfg.NATS.TimeoutSeconds) * time.Second,
	}, a.logger)
	if err != nil {
		return err
	}

	a.natsClient = natsClient
	a.cleanup = append(a.cleanup, natsClient.Close)

	if err := natsClient.EnsureStream(ctx, natsjetstream.StreamConfig{
		Name:     events.FirstBloodEventsStream,
		Subjects: []string{events.FirstBloodEventsWildcard},
	}); err != nil {
		return err
	}

	publisher := natsjetstream.NewPublisher(natsClient)
	a.sinks = append(a.sinks, fbevents.NewEventPublisher(publisher, a.logger))

	a.logger.Info("NATS award events enabled", "url", a.cfg.NATS.URL)
	return nil
}

func (a *App) initLoader(ctx context.Context) *apperrors.AppError {
	a.loader = export.NewLoader(a.fs, a.logger)
	return nil
}

func (a *App) initService(ctx context.Context) *apperrors.AppError {
	a.firstBloodService = service.NewFirstBloodService(
		a.loader,
		a.sinks,
		a.cfg.Pipeline.Workers,
		a.logger,
	)
	return nil
}

// Run computes the first bloods of one export and hands the report to every
// configured sink.
func (a *App) Run(ctx context.Context, source string) error {
	if dir := a.cfg.Export.ExtractDir; dir != "" && export.IsArchive(a.fs, source) {
		if _, err := a.Extract(source, dir); err != nil {
			return err
		}
		source = dir
	}

	report, err := a.firstBloodService.Generate(ctx, source)
	if err != nil {
		return err
	}

	if err := a.firstBloodService.Publish(ctx, report); err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("First Blood results saved to %s", a.cfg.Output.Path),
		"run_id", report.RunID,
		"awards", len(report.Awards),
	)
	return nil
}

// Extract unpacks an export archive into dest and returns the number of
// files written.
func (a *App) Extract(source, dest string) (int, error) {
	n, err := a.loader.Extract(source, dest)
	if err != nil {
		a.logger.Error("Failed to extract export", "error", err, "source", source)
		return 0, fberrors.ExtractError(source, err)
	}

	a.logger.Info("Export extracted", "source", source, "dest", dest, "files", n)
	return n, nil
}

// CachedReport returns the awards cached for runID, or the latest run's
// awards when runID is empty.
func (a *App) CachedReport(ctx context.Context, runID string) ([]models.AwardRecord, error) {
	if runID == "" {
		return a.reportCache.GetLatestReport(ctx)
	}
	return a.reportCache.GetReport(ctx, runID)
}

func (a *App) CachedWinners(ctx context.Context) ([]repository.CachedWinner, error) {
	return a.reportCache.GetLatestWinners(ctx)
}

func (a *App) Stop() *apperrors.AppError {
	for _, cleanup := range a.cleanup {
		if err := cleanup(); err != nil {
			a.logger.Error(fmt.Sprintf("Cleanup error: %v", err))
		}
	}
	a.cleanup = nil

	// stderr cannot be synced on most terminals; the error is expected.
	_ = a.logger.Sync()
	return nil
}

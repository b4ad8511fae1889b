package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/docportal-access/internal"
	"github.com/frahmantamala/docportal-access/internal/assignment"
	assignmentPostgres "github.com/frahmantamala/docportal-access/internal/assignment/postgres"
	"github.com/frahmantamala/docportal-access/internal/audit"
	auditPostgres "github.com/frahmantamala/docportal-access/internal/audit/postgres"
	"github.com/frahmantamala/docportal-access/internal/auth"
	authPostgres "github.com/frahmantamala/docportal-access/internal/auth/postgres"
	"github.com/frahmantamala/docportal-access/internal/category"
	categoryPostgres "github.com/frahmantamala/docportal-access/internal/category/postgres"
	"github.com/frahmantamala/docportal-access/internal/core/events"
	"github.com/frahmantamala/docportal-access/internal/department"
	departmentPostgres "github.com/frahmantamala/docportal-access/internal/department/postgres"
	"github.com/frahmantamala/docportal-access/internal/document"
	documentPostgres "github.com/frahmantamala/docportal-access/internal/document/postgres"
	"github.com/frahmantamala/docportal-access/internal/grant"
	grantPostgres "github.com/frahmantamala/docportal-access/internal/grant/postgres"
	"github.com/frahmantamala/docportal-access/internal/permission"
	"github.com/frahmantamala/docportal-access/internal/report"
	"github.com/frahmantamala/docportal-access/internal/template"
	templatePostgres "github.com/frahmantamala/docportal-access/internal/template/postgres"
	"github.com/frahmantamala/docportal-access/internal/transport"
	"github.com/frahmantamala/docportal-access/internal/transport/rest"
	"github.com/frahmantamala/docportal-access/internal/user"
	userPostgres "github.com/frahmantamala/docportal-access/internal/user/postgres"
	"github.com/frahmantamala/docportal-access/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, buildHandlers(config, gormDB, log), log)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Logger: log,
	}, nil
}

// buildHandlers wires repositories, services and handlers. The audit
// recorder subscribes to the event bus before any service publishes, so
// every mutation's event reaches the trail.
func buildHandlers(config *internal.Config, gormDB *gorm.DB, log *slog.Logger) rest.Handlers {
	catalog := permission.NewCatalog(
		config.Permissions.AvailableOrDefault(),
		config.Permissions.AdminRoleOrDefault(),
	)

	bus := events.NewEventBus(log)

	auditRepo := auditPostgres.NewAuditRepository(gormDB)
	auditService := audit.NewService(auditRepo, log)
	auditService.RegisterHandlers(bus)

	grantRepo := grantPostgres.NewGrantRepository(gormDB)
	grantService := grant.NewService(grantRepo, catalog, bus, log)

	assignmentRepo := assignmentPostgres.NewAssignmentRepository(gormDB)
	assignmentService := assignment.NewService(assignmentRepo, bus, log)

	templateRepo := templatePostgres.NewTemplateRepository(gormDB)
	templateService := template.NewService(templateRepo, grantService, auditService, catalog, bus, log)

	userRepo := userPostgres.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, log)

	categoryRepo := categoryPostgres.NewCategoryRepository(gormDB)
	categoryService := category.NewService(categoryRepo, log)

	departmentRepo := departmentPostgres.NewDepartmentRepository(gormDB)
	departmentService := department.NewService(departmentRepo, log)

	documentRepo := documentPostgres.NewDocumentRepository(gormDB)
	documentService := document.NewService(documentRepo, log)

	resolver := permission.NewResolver(catalog, userService, documentService, categoryService, grantService, assignmentService, log)

	reportService := report.NewService(grantService, assignmentService, log)

	tokenGenerator := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenTTL,
		config.Security.RefreshTokenTTL,
	)
	authRepo := authPostgres.NewRepository(gormDB)
	authService := auth.NewService(authRepo, tokenGenerator, log)

	base := transport.NewBaseHandler(log)

	return rest.Handlers{
		Auth:        auth.NewHandler(base, authService),
		Permission:  permission.NewHandler(base, catalog, resolver),
		Grant:       grant.NewHandler(base, grantService),
		Template:    template.NewHandler(base, templateService),
		Assignment:  assignment.NewHandler(base, assignmentService),
		Report:      report.NewHandler(base, reportService),
		Audit:       audit.NewHandler(base, auditService),
		User:        user.NewHandler(base, userService),
		Category:    category.NewHandler(base, categoryService),
		Department:  department.NewHandler(base, departmentService),
		AuthGateway: auth.NewMiddleware(authService, log),
		Authorizer:  auth.NewAuthorizer(resolver, log),
	}
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

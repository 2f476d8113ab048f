package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/workforce-planner/internal/application"
	"github.com/example/workforce-planner/internal/config"
	httptransport "github.com/example/workforce-planner/internal/http"
	"github.com/example/workforce-planner/internal/logging"
	"github.com/example/workforce-planner/internal/persistence"
	"github.com/example/workforce-planner/internal/persistence/sqlite"
)

func main() {
	logger := logging.New(os.Stdout, os.Getenv("PLANNER_LOG_LEVEL"))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := db.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	leaveThresholds, err := cfg.Policy.LeaveThresholds()
	if err != nil {
		logger.Error("failed to parse policy thresholds", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	operators := sqlite.NewOperatorRepository(db)
	services := sqlite.NewServiceRepository(db)
	employees := sqlite.NewEmployeeRepository(db)
	housekeeping := sqlite.NewHousekeepingRepository(db)
	leaveRecords := sqlite.NewLeaveRepository(db)
	planningTrace := sqlite.NewPlanningRepository(db)

	if err := bootstrapAdmin(ctx, logger, operators, idGenerator, now); err != nil {
		logger.Error("failed to bootstrap administrator", "error", err)
		os.Exit(1)
	}

	authService := application.NewAuthServiceWithLogger(operators, operators, application.VerifyPassword, tokenGenerator, now, cfg.SessionTTL, logger)
	catalogService := application.NewCatalogServiceWithLogger(services, idGenerator, now, logger)
	employeeService := application.NewEmployeeServiceWithLogger(employees, services, idGenerator, now, logger)
	housekeepingService := application.NewHousekeepingServiceWithLogger(housekeeping, idGenerator, now, logger)
	leaveService := application.NewLeaveServiceWithLogger(leaveRecords, employees, housekeeping, idGenerator, now, logger)
	leaveService.ConfigurePolicy(leaveThresholds)
	planningService := application.NewPlanningServiceWithLogger(employees, housekeeping, leaveRecords, planningTrace, idGenerator, now, logger)
	planningService.ConfigurePolicy(leaveThresholds, cfg.Policy.AlertThresholds())

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:         httptransport.NewAuthHandler(authService, logger),
		Services:     httptransport.NewServiceHandler(catalogService, logger),
		Employees:    httptransport.NewEmployeeHandler(employeeService, logger),
		Housekeeping: httptransport.NewHousekeepingHandler(housekeepingService, logger),
		Leave:        httptransport.NewLeaveHandler(leaveService, logger),
		Planning:     httptransport.NewPlanningHandler(planningService, logger),
	})

	protected := httptransport.RequireSession(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(r.URL.Path, "/login") {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("planner API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// bootstrapAdmin seeds the initial administrator account when
// PLANNER_ADMIN_EMAIL and PLANNER_ADMIN_PASSWORD are set and the account
// does not exist yet. Existing accounts are left untouched so rotating the
// password still goes through the normal channels.
func bootstrapAdmin(ctx context.Context, logger *slog.Logger, operators persistence.OperatorRepository, idGenerator func() string, now func() time.Time) error {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("PLANNER_ADMIN_EMAIL")))
	password := os.Getenv("PLANNER_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	_, err := operators.GetOperatorByEmail(ctx, email)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, persistence.ErrNotFound):
		return err
	}

	hash, err := application.HashPassword(password, application.DefaultPasswordParams)
	if err != nil {
		return err
	}

	created := now().UTC()
	operator := persistence.Operator{
		ID:           idGenerator(),
		Email:        email,
		DisplayName:  "Administrateur",
		PasswordHash: hash,
		IsAdmin:      true,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	if err := operators.CreateOperator(ctx, operator); err != nil {
		return err
	}

	logger.Info("bootstrapped administrator account", "operator_id", operator.ID, "email", email)
	return nil
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

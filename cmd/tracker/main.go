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
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/maintenance-tracker/internal/application"
	"github.com/example/maintenance-tracker/internal/config"
	"github.com/example/maintenance-tracker/internal/directory"
	httptransport "github.com/example/maintenance-tracker/internal/http"
	"github.com/example/maintenance-tracker/internal/persistence"
	"github.com/example/maintenance-tracker/internal/persistence/sqlite"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("failed to resolve timezone", "error", err)
		os.Exit(1)
	}

	repos, err := openRepositories(cfg, loc)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := repos.close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	offices, err := directory.LoadSeed(cfg.OfficeSeedPath)
	if err != nil {
		logger.Error("failed to load office seed", "error", err)
		os.Exit(1)
	}
	if err := repos.offices.SeedOffices(context.Background(), offices); err != nil {
		if !errors.Is(err, persistence.ErrConstraintViolation) {
			logger.Error("failed to seed office catalog", "error", err)
			os.Exit(1)
		}
		logger.Info("office catalog already seeded")
	} else {
		logger.Info("office catalog seeded", "office_count", len(offices))
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	catalog := newOfficeCatalogAdapter(repos.offices)
	eventRepo := newEventRepositoryAdapter(repos.events)
	userStore := newUserStoreAdapter(repos.users)
	sessionRepo := newSessionRepositoryAdapter(repos.sessions)

	directoryService := application.NewDirectoryServiceWithLogger(catalog, logger)
	calendarService := application.NewCalendarServiceWithLogger(eventRepo, catalog, idGenerator, now, loc, logger)
	authService := application.NewAuthServiceWithLogger(userStore, sessionRepo, idGenerator, tokenGenerator, now, cfg.SessionTTL, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:     httptransport.NewAuthHandler(authService, logger),
		Offices:  httptransport.NewOfficeHandler(directoryService, logger),
		Calendar: httptransport.NewCalendarHandler(calendarService, loc, logger),
	})

	protected := httptransport.RequireSession(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isOpenRoute(r) {
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

	logger.Info("maintenance tracker API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func isOpenRoute(r *http.Request) bool {
	if r.URL.Path == "/signup" && r.Method == http.MethodPost {
		return true
	}
	if r.URL.Path == "/sessions" && r.Method == http.MethodPost {
		return true
	}
	return false
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

// repositories bundles the storage backends selected at startup. An empty
// TRACKER_SQLITE_DSN selects the in-memory store; any other value opens a
// SQLite database (including ":memory:").
type repositories struct {
	offices  persistence.OfficeRepository
	events   persistence.EventRepository
	users    persistence.UserRepository
	sessions persistence.SessionRepository
	close    func() error
}

func openRepositories(cfg config.Config, loc *time.Location) (repositories, error) {
	if cfg.SQLiteDSN == "" {
		storage := sqlite.NewStorage(loc)
		return repositories{
			offices:  storage,
			events:   storage,
			users:    storage,
			sessions: storage,
			close:    storage.Close,
		}, nil
	}

	pool, err := sqlite.OpenPool(cfg.SQLiteDSN)
	if err != nil {
		return repositories{}, err
	}
	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		return repositories{}, err
	}
	return repositories{
		offices:  sqlite.NewOfficeRepository(pool),
		events:   sqlite.NewEventRepository(pool, loc),
		users:    sqlite.NewUserRepository(pool),
		sessions: sqlite.NewSessionRepository(pool),
		close:    pool.Close,
	}, nil
}

func toApplicationError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return application.ErrAlreadyExists
	default:
		return err
	}
}

type officeCatalogAdapter struct {
	repo persistence.OfficeRepository
}

func newOfficeCatalogAdapter(repo persistence.OfficeRepository) *officeCatalogAdapter {
	return &officeCatalogAdapter{repo: repo}
}

func (a *officeCatalogAdapter) ListOffices(ctx context.Context) ([]application.Office, error) {
	models, err := a.repo.ListOffices(ctx)
	if err != nil {
		return nil, toApplicationError(err)
	}
	offices := make([]application.Office, 0, len(models))
	for _, model := range models {
		offices = append(offices, toApplicationOffice(model))
	}
	return offices, nil
}

func (a *officeCatalogAdapter) GetOffice(ctx context.Context, id string) (application.Office, error) {
	model, err := a.repo.GetOffice(ctx, id)
	if err != nil {
		return application.Office{}, toApplicationError(err)
	}
	return toApplicationOffice(model), nil
}

type eventRepositoryAdapter struct {
	repo persistence.EventRepository
}

func newEventRepositoryAdapter(repo persistence.EventRepository) *eventRepositoryAdapter {
	return &eventRepositoryAdapter{repo: repo}
}

func (a *eventRepositoryAdapter) CreateEvent(ctx context.Context, event application.Event) (application.Event, error) {
	if err := a.repo.CreateEvent(ctx, toPersistenceEvent(event)); err != nil {
		return application.Event{}, toApplicationError(err)
	}
	stored, err := a.repo.GetEvent(ctx, event.ID)
	if err != nil {
		return application.Event{}, toApplicationError(err)
	}
	return toApplicationEvent(stored), nil
}

func (a *eventRepositoryAdapter) UpdateEvent(ctx context.Context, event application.Event) (application.Event, error) {
	if err := a.repo.UpdateEvent(ctx, toPersistenceEvent(event)); err != nil {
		return application.Event{}, toApplicationError(err)
	}
	stored, err := a.repo.GetEvent(ctx, event.ID)
	if err != nil {
		return application.Event{}, toApplicationError(err)
	}
	return toApplicationEvent(stored), nil
}

func (a *eventRepositoryAdapter) GetEvent(ctx context.Context, id string) (application.Event, error) {
	stored, err := a.repo.GetEvent(ctx, id)
	if err != nil {
		return application.Event{}, toApplicationError(err)
	}
	return toApplicationEvent(stored), nil
}

func (a *eventRepositoryAdapter) GetEventForDay(ctx context.Context, date time.Time) (application.Event, error) {
	stored, err := a.repo.GetEventForDay(ctx, date)
	if err != nil {
		return application.Event{}, toApplicationError(err)
	}
	return toApplicationEvent(stored), nil
}

func (a *eventRepositoryAdapter) ListEvents(ctx context.Context) ([]application.Event, error) {
	models, err := a.repo.ListEvents(ctx)
	if err != nil {
		return nil, toApplicationError(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	events := make([]application.Event, 0, len(models))
	for _, model := range models {
		events = append(events, toApplicationEvent(model))
	}
	return events, nil
}

type userStoreAdapter struct {
	repo persistence.UserRepository
}

func newUserStoreAdapter(repo persistence.UserRepository) *userStoreAdapter {
	return &userStoreAdapter{repo: repo}
}

func (a *userStoreAdapter) CreateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	model := persistence.User{
		ID:           user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		PasswordHash: passwordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if err := a.repo.CreateUser(ctx, model); err != nil {
		return application.User{}, toApplicationError(err)
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, toApplicationError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, toApplicationError(err)
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

func (a *userStoreAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, toApplicationError(err)
	}
	return toApplicationUser(stored), nil
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, toApplicationError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, toApplicationError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, toApplicationError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return toApplicationError(a.repo.DeleteExpiredSessions(ctx, reference))
}

func toApplicationOffice(model persistence.Office) application.Office {
	return application.Office{
		ID:          model.ID,
		Name:        model.Name,
		Address:     model.Address,
		PayRate:     model.PayRate,
		Description: model.Description,
	}
}

func toApplicationEvent(model persistence.Event) application.Event {
	return application.Event{
		ID:           model.ID,
		Title:        model.Title,
		Start:        model.Start,
		End:          model.End,
		AllDay:       model.AllDay,
		OfficeIDs:    append([]string(nil), model.OfficeIDs...),
		TotalPayRate: model.TotalPayRate,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func toPersistenceEvent(event application.Event) persistence.Event {
	return persistence.Event{
		ID:           event.ID,
		Title:        event.Title,
		Start:        event.Start,
		End:          event.End,
		AllDay:       event.AllDay,
		OfficeIDs:    append([]string(nil), event.OfficeIDs...),
		TotalPayRate: event.TotalPayRate,
		CreatedAt:    event.CreatedAt,
		UpdatedAt:    event.UpdatedAt,
	}
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:          model.ID,
		Email:       model.Email,
		DisplayName: model.DisplayName,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:        model.ID,
		UserID:    model.UserID,
		Token:     model.Token,
		ExpiresAt: model.ExpiresAt,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		RevokedAt: cloneTime(model.RevokedAt),
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		RevokedAt: cloneTime(session.RevokedAt),
	}
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

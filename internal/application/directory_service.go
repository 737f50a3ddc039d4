package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// OfficeCatalog exposes read access to the seeded office directory.
type OfficeCatalog interface {
	ListOffices(ctx context.Context) ([]Office, error)
	GetOffice(ctx context.Context, id string) (Office, error)
}

// DirectoryService serves the immutable office catalog.
type DirectoryService struct {
	catalog OfficeCatalog
	logger  *slog.Logger
}

// NewDirectoryService constructs a DirectoryService backed by the provided catalog.
func NewDirectoryService(catalog OfficeCatalog) *DirectoryService {
	return NewDirectoryServiceWithLogger(catalog, nil)
}

// NewDirectoryServiceWithLogger constructs a DirectoryService with a specified logger.
func NewDirectoryServiceWithLogger(catalog OfficeCatalog, logger *slog.Logger) *DirectoryService {
	return &DirectoryService{
		catalog: catalog,
		logger:  defaultLogger(logger),
	}
}

func (s *DirectoryService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DirectoryService", operation, attrs...)
}

// ListOffices returns every office in catalog order.
func (s *DirectoryService) ListOffices(ctx context.Context) ([]Office, error) {
	if s == nil {
		return nil, fmt.Errorf("DirectoryService is nil")
	}
	if s.catalog == nil {
		return nil, fmt.Errorf("office catalog not configured")
	}

	offices, err := s.catalog.ListOffices(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListOffices").ErrorContext(ctx, "failed to list offices", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return offices, nil
}

// FindOffice looks up a single office by its identifier.
func (s *DirectoryService) FindOffice(ctx context.Context, id string) (Office, error) {
	if s == nil {
		return Office{}, fmt.Errorf("DirectoryService is nil")
	}
	if s.catalog == nil {
		return Office{}, fmt.Errorf("office catalog not configured")
	}

	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return Office{}, ErrNotFound
	}

	office, err := s.catalog.GetOffice(ctx, trimmed)
	if err != nil {
		s.loggerWith(ctx, "FindOffice", "office_id", trimmed).ErrorContext(ctx, "failed to find office", "error", err, "error_kind", ErrorKind(err))
		return Office{}, err
	}
	return office, nil
}

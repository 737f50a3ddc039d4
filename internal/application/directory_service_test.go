package application

import (
	"context"
	"errors"
	"testing"
)

func TestDirectoryService_ListOffices(t *testing.T) {
	t.Parallel()

	service := NewDirectoryService(testCatalog())

	offices, err := service.ListOffices(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offices) != 5 {
		t.Fatalf("expected 5 offices, got %d", len(offices))
	}
	if offices[0].ID != "1" || offices[4].ID != "5" {
		t.Fatalf("expected catalog order preserved, got %+v", offices)
	}
}

func TestDirectoryService_FindOffice(t *testing.T) {
	t.Parallel()

	service := NewDirectoryService(testCatalog())
	ctx := context.Background()

	office, err := service.FindOffice(ctx, "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if office.Name != "Eastside Branch" || office.PayRate != 135 {
		t.Fatalf("unexpected office %+v", office)
	}

	if _, err := service.FindOffice(ctx, "999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.FindOffice(ctx, "  "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank id, got %v", err)
	}
}

func TestDirectoryService_PropagatesCatalogErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("catalog unavailable")
	service := NewDirectoryService(&catalogStub{listErr: boom})

	if _, err := service.ListOffices(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected catalog error, got %v", err)
	}
}

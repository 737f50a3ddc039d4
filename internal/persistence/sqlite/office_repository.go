package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/maintenance-tracker/internal/persistence"
)

// OfficeRepository implements persistence.OfficeRepository using SQLite.
type OfficeRepository struct {
	pool *ConnectionPool
}

// NewOfficeRepository creates a SQLite-backed office repository.
func NewOfficeRepository(pool *ConnectionPool) *OfficeRepository {
	return &OfficeRepository{pool: pool}
}

// SeedOffices loads the office catalog into an empty offices table. The
// catalog is read-only afterwards, so seeding a non-empty table fails.
func (r *OfficeRepository) SeedOffices(ctx context.Context, offices []persistence.Office) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM offices`).Scan(&count); err != nil {
			return mapSQLError(err)
		}
		if count > 0 {
			return persistence.ErrConstraintViolation
		}

		for _, office := range offices {
			_, err := tx.Exec(
				`INSERT INTO offices (id, name, address, pay_rate, description) VALUES (?, ?, ?, ?, ?)`,
				office.ID, office.Name, office.Address, office.PayRate, office.Description,
			)
			if err != nil {
				return mapSQLError(err)
			}
		}
		return nil
	})
}

// GetOffice retrieves an office by ID.
func (r *OfficeRepository) GetOffice(ctx context.Context, id string) (persistence.Office, error) {
	var office persistence.Office
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT id, name, address, pay_rate, description FROM offices WHERE id = ?`, id,
	).Scan(&office.ID, &office.Name, &office.Address, &office.PayRate, &office.Description)
	if err != nil {
		return persistence.Office{}, mapSQLError(err)
	}
	return office, nil
}

// ListOffices returns the catalog in seed (rowid) order.
func (r *OfficeRepository) ListOffices(ctx context.Context) ([]persistence.Office, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT id, name, address, pay_rate, description FROM offices ORDER BY rowid`,
	)
	if err != nil {
		return nil, mapSQLError(err)
	}
	defer rows.Close()

	var offices []persistence.Office
	for rows.Next() {
		var office persistence.Office
		if err := rows.Scan(&office.ID, &office.Name, &office.Address, &office.PayRate, &office.Description); err != nil {
			return nil, mapSQLError(err)
		}
		offices = append(offices, office)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLError(err)
	}
	return offices, nil
}

package sqlite

import (
	"context"

	"github.com/example/workforce-planner/internal/persistence"
)

// ServiceRepository implements persistence.ServiceRepository on SQLite.
type ServiceRepository struct {
	db *DB
}

// NewServiceRepository returns a repository bound to the database.
func NewServiceRepository(db *DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// CreateService inserts a catalog entry.
func (r *ServiceRepository) CreateService(ctx context.Context, service persistence.HotelService) error {
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO services (id, name, kind, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		service.ID, service.Name, service.Kind,
		formatTime(service.CreatedAt), formatTime(service.UpdatedAt))
	return mapError(err)
}

// UpdateService rewrites a catalog entry.
func (r *ServiceRepository) UpdateService(ctx context.Context, service persistence.HotelService) error {
	result, err := r.db.db.ExecContext(ctx, `
		UPDATE services SET name = ?, kind = ?, updated_at = ? WHERE id = ?`,
		service.Name, service.Kind, formatTime(service.UpdatedAt), service.ID)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetService retrieves one catalog entry.
func (r *ServiceRepository) GetService(ctx context.Context, id string) (persistence.HotelService, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, name, kind, created_at, updated_at FROM services WHERE id = ?`, id)

	var service persistence.HotelService
	var createdAt, updatedAt string
	if err := row.Scan(&service.ID, &service.Name, &service.Kind, &createdAt, &updatedAt); err != nil {
		return persistence.HotelService{}, mapError(err)
	}
	var err error
	if service.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.HotelService{}, err
	}
	if service.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.HotelService{}, err
	}
	return service, nil
}

// ListServices returns the catalog ordered by name.
func (r *ServiceRepository) ListServices(ctx context.Context) ([]persistence.HotelService, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, name, kind, created_at, updated_at FROM services ORDER BY name, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var services []persistence.HotelService
	for rows.Next() {
		var service persistence.HotelService
		var createdAt, updatedAt string
		if err := rows.Scan(&service.ID, &service.Name, &service.Kind, &createdAt, &updatedAt); err != nil {
			return nil, mapError(err)
		}
		if service.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if service.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, mapError(rows.Err())
}

// DeleteService removes a catalog entry.
func (r *ServiceRepository) DeleteService(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

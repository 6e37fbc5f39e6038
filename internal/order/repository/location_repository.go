package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"karen/internal/domain"
	apperrors "karen/internal/errors"
	"karen/internal/infrastructure/mysql"
)

const duplicateLocationMessage = "location with this name already exists."

type MySQLLocationRepository struct {
	db *sql.DB
}

func NewMySQLLocationRepository(db *sql.DB) *MySQLLocationRepository {
	return &MySQLLocationRepository{db: db}
}

func (r *MySQLLocationRepository) FindAll(ctx context.Context) ([]domain.Location, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, delivery_price FROM Locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.DeliveryPrice); err != nil {
			return nil, fmt.Errorf("scanning location row: %w", err)
		}
		locations = append(locations, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating location rows: %w", err)
	}

	return locations, nil
}

func (r *MySQLLocationRepository) FindByID(ctx context.Context, id uint) (*domain.Location, error) {
	var l domain.Location
	err := r.db.QueryRowContext(ctx, `SELECT id, name, delivery_price FROM Locations WHERE id = ?`, id).
		Scan(&l.ID, &l.Name, &l.DeliveryPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("location with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying location by id: %w", err)
	}

	return &l, nil
}

func (r *MySQLLocationRepository) Insert(ctx context.Context, location domain.Location) (uint, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO Locations (name, delivery_price) VALUES (?, ?)`,
		location.Name, location.DeliveryPrice)
	if mysql.IsDuplicateEntry(err) {
		return 0, duplicateNameError()
	}
	if err != nil {
		return 0, fmt.Errorf("inserting location: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLLocationRepository) Update(ctx context.Context, location domain.Location) error {
	_, err := r.db.ExecContext(ctx, `UPDATE Locations SET name = ?, delivery_price = ? WHERE id = ?`,
		location.Name, location.DeliveryPrice, location.ID)
	if mysql.IsDuplicateEntry(err) {
		return duplicateNameError()
	}
	if err != nil {
		return fmt.Errorf("updating location: %w", err)
	}

	return nil
}

func (r *MySQLLocationRepository) Delete(ctx context.Context, id uint) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Locations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("location with id %d not found", id))
	}

	return nil
}

func duplicateNameError() error {
	return apperrors.NewValidationError(duplicateLocationMessage, apperrors.ValidationDetail{
		Field:   "name",
		Message: duplicateLocationMessage,
	})
}

package repositories

import (
	"context"

	"rentalcv/internal/models"

	"github.com/google/uuid"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	// GetByAddress resolves the (postcode, address line 1) pair used for
	// duplicate-address rejection. Returns pgx.ErrNoRows when absent.
	GetByAddress(ctx context.Context, postcode, addressLine1 string) (*models.Property, error)
	Update(ctx context.Context, property *models.Property) error
	ListByLandlord(ctx context.Context, landlordID uuid.UUID, limit, offset int) ([]*models.Property, error)
}

type propertyRepo struct {
	db Database
}

func NewPropertyRepo(db Database) PropertyRepository {
	return &propertyRepo{db: db}
}

const propertyColumns = `
	id, landlord_id, address_line1, address_line2, city, region, postcode, country,
	property_type, bedrooms, is_active, placeholder, created_by, created_at, updated_at`

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	query := `
		INSERT INTO properties (id, landlord_id, address_line1, address_line2, city, region, postcode, country,
			property_type, bedrooms, is_active, placeholder, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.LandlordID, p.AddressLine1, p.AddressLine2, p.City, p.Region, p.Postcode, p.Country,
		p.PropertyType, p.Bedrooms, p.IsActive, p.Placeholder, p.CreatedBy,
	)
	return err
}

func scanProperty(row interface {
	Scan(dest ...interface{}) error
}) (*models.Property, error) {
	p := &models.Property{}
	err := row.Scan(
		&p.ID, &p.LandlordID, &p.AddressLine1, &p.AddressLine2, &p.City, &p.Region, &p.Postcode, &p.Country,
		&p.PropertyType, &p.Bedrooms, &p.IsActive, &p.Placeholder, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	query := `SELECT` + propertyColumns + ` FROM properties WHERE id = $1`
	return scanProperty(r.db.QueryRow(ctx, query, id))
}

func (r *propertyRepo) GetByAddress(ctx context.Context, postcode, addressLine1 string) (*models.Property, error) {
	query := `SELECT` + propertyColumns + ` FROM properties
		WHERE LOWER(postcode) = LOWER($1) AND LOWER(address_line1) = LOWER($2)`
	return scanProperty(r.db.QueryRow(ctx, query, postcode, addressLine1))
}

func (r *propertyRepo) Update(ctx context.Context, p *models.Property) error {
	query := `
		UPDATE properties
		SET landlord_id = $2, address_line1 = $3, address_line2 = $4, city = $5, region = $6,
			postcode = $7, country = $8, property_type = $9, bedrooms = $10,
			is_active = $11, placeholder = $12, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.LandlordID, p.AddressLine1, p.AddressLine2, p.City, p.Region,
		p.Postcode, p.Country, p.PropertyType, p.Bedrooms, p.IsActive, p.Placeholder,
	)
	return err
}

func (r *propertyRepo) ListByLandlord(ctx context.Context, landlordID uuid.UUID, limit, offset int) ([]*models.Property, error) {
	query := `SELECT` + propertyColumns + ` FROM properties WHERE landlord_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, landlordID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

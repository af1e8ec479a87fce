package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jvitormendess/jaci-api/internal/pricing"
)

// Store persists products in Postgres. Tags are kept as a single
// comma-joined column, matching the flat product records the storefront
// consumes.
type Store struct {
	Pool *pgxpool.Pool
}

const productColumns = `id, name, price::text, image_url, description, category, tags, unit_type`

func (s *Store) List(ctx context.Context) ([]Product, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (Product, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (s *Store) Insert(ctx context.Context, p Product) (Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO products (id, name, price, image_url, description, category, tags, unit_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.Price.String(), p.ImageURL, p.Description, p.Category,
		joinTags(p.Tags), string(p.SaleUnit))
	if err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (s *Store) Update(ctx context.Context, p Product) (Product, error) {
	tag, err := s.Pool.Exec(ctx,
		`UPDATE products
		 SET name = $2, price = $3, image_url = $4, description = $5,
		     category = $6, tags = $7, unit_type = $8, updated_at = now()
		 WHERE id = $1`,
		p.ID, p.Name, p.Price.String(), p.ImageURL, p.Description, p.Category,
		joinTags(p.Tags), string(p.SaleUnit))
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var price, tags, unitType string
	if err := row.Scan(&p.ID, &p.Name, &price, &p.ImageURL, &p.Description,
		&p.Category, &tags, &unitType); err != nil {
		return Product{}, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return Product{}, fmt.Errorf("parse price for %s: %w", p.ID, err)
	}
	p.Price = parsed
	p.Tags = splitTags(tags)
	p.SaleUnit = pricing.Unit(unitType)
	p.Normalize()
	return p, nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

package product

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `id, name, price, seller_id, seller_name, location, image_data, created_at, updated_at`

func (r *PostgresRepository) List() []Product {
	rows, err := r.db.Query(`SELECT ` + productColumns + ` FROM products ORDER BY id DESC`)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()
	return collect(rows)
}

func (r *PostgresRepository) ListBySeller(sellerID int) []Product {
	rows, err := r.db.Query(`SELECT `+productColumns+` FROM products WHERE seller_id = $1 ORDER BY id DESC`, sellerID)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()
	return collect(rows)
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	row := r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	err := r.db.QueryRow(`INSERT INTO products (name, price, seller_id, seller_name, location, image_data, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`,
		p.Name, p.Price, p.SellerID, p.SellerName, p.Location, p.ImageData, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	var imageData sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.SellerID, &p.SellerName, &p.Location, &imageData, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Product{}, err
	}
	if imageData.Valid {
		p.ImageData = &imageData.String
	}
	return p, nil
}

func collect(rows *sql.Rows) []Product {
	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

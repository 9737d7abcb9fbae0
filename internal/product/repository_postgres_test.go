package product

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "price", "seller_id", "seller_name", "location", "image_data", "created_at", "updated_at"})
}

func TestPostgresList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := productRows().
		AddRow(1, "Crate", 1500.0, 9, "Sally", "Lagos", nil, "t", "t").
		AddRow(2, "Pallet", 2500.0, 8, "Bob", "Abuja", "base64data", "t", "t")
	mock.ExpectQuery("FROM products").WillReturnRows(rows)

	products := repo.List()
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ImageData != nil {
		t.Error("expected nil image data for first product")
	}
	if products[1].ImageData == nil || *products[1].ImageData != "base64data" {
		t.Error("expected image data for second product")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO products").
		WithArgs("Crate", 1500.0, 9, "Sally", "Lagos", nil, "t", "t").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	created, err := repo.Create(Product{
		Name:       "Crate",
		Price:      1500,
		SellerID:   9,
		SellerName: "Sally",
		Location:   "Lagos",
		CreatedAt:  "t",
		UpdatedAt:  "t",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 11 {
		t.Errorf("expected id 11, got %d", created.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM products").WithArgs(99).WillReturnRows(productRows())

	if _, err := repo.GetByID(99); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

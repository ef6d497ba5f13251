package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fairyhunter13/scan-to-cart-service/internal/model"
)

// productRow is the persisted catalog record.
type productRow struct {
	ID          string `gorm:"primaryKey"`
	Barcode     string `gorm:"uniqueIndex;not null"`
	Name        string `gorm:"not null"`
	Price       float64
	Image       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (productRow) TableName() string { return "products" }

func (r productRow) toModel() model.Product {
	return model.Product{
		ID:          r.ID,
		Barcode:     r.Barcode,
		Name:        r.Name,
		Price:       r.Price,
		Image:       r.Image,
		Description: r.Description,
	}
}

// Postgres is a catalog backed by a postgres database via gorm.
type Postgres struct {
	db *gorm.DB
}

// OpenPostgres connects, migrates the products table, and seeds it from the
// embedded sample data when it is empty.
func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}
	if err := db.AutoMigrate(&productRow{}); err != nil {
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	c := &Postgres{db: db}
	if err := c.seedIfEmpty(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Postgres) seedIfEmpty() error {
	var n int64
	if err := c.db.Model(&productRow{}).Count(&n).Error; err != nil {
		return fmt.Errorf("count catalog: %w", err)
	}
	if n > 0 {
		return nil
	}
	ps, err := SeedProducts()
	if err != nil {
		return err
	}
	rows := make([]productRow, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, productRow{
			ID:          p.ID,
			Barcode:     p.Barcode,
			Name:        p.Name,
			Price:       p.Price,
			Image:       p.Image,
			Description: p.Description,
		})
	}
	if err := c.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}

func (c *Postgres) Lookup(ctx context.Context, barcode string) (model.Product, error) {
	var r productRow
	err := c.db.WithContext(ctx).Where("barcode = ?", barcode).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("catalog lookup %q: %w", barcode, err)
	}
	return r.toModel(), nil
}

func (c *Postgres) List(ctx context.Context) ([]model.Product, error) {
	var rows []productRow
	if err := c.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("catalog list: %w", err)
	}
	out := make([]model.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

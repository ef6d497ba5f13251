// Package catalog resolves scanned barcodes to product records.
package catalog

import (
	"context"
	"errors"

	"github.com/fairyhunter13/scan-to-cart-service/internal/model"
)

// ErrNotFound is returned when no product matches a barcode.
var ErrNotFound = errors.New("catalog: product not found")

// Lookup resolves a barcode to a product record. Implementations return
// ErrNotFound for absent barcodes; any other error is a transient failure.
type Lookup interface {
	Lookup(ctx context.Context, barcode string) (model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
}

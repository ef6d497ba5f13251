// Package model defines domain types shared by the server and the cart client.
package model

// Product is a catalog record resolved from a scanned barcode.
type Product struct {
	ID          string  `json:"id,omitempty" yaml:"id"`
	Barcode     string  `json:"barcode" yaml:"barcode"`
	Name        string  `json:"name" yaml:"name"`
	Price       float64 `json:"price" yaml:"price"`
	Image       string  `json:"image,omitempty" yaml:"image"`
	Description string  `json:"description,omitempty" yaml:"description"`
}

// Identity returns the key line items are aggregated under: the barcode,
// falling back to the catalog id when a record carries no barcode.
func (p Product) Identity() string {
	if p.Barcode != "" {
		return p.Barcode
	}
	return p.ID
}

// Channel event names on the wire.
const (
	EventProductAdded    = "product_added"
	EventProductNotFound = "product_not_found"
	EventScanError       = "scan_error"
)

// Envelope is the single discrete message pushed over the relay channel.
type Envelope struct {
	Event   string   `json:"event"`
	Product *Product `json:"product,omitempty"`
	Barcode string   `json:"barcode,omitempty"`
	Message string   `json:"message,omitempty"`
}

// ScanAck is the response returned to the submitting device.
type ScanAck struct {
	Message string   `json:"message"`
	Product *Product `json:"product,omitempty"`
	Barcode string   `json:"barcode,omitempty"`
}

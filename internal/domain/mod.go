package domain

// Store is one configured upstream Shopify storefront. The store set is
// loaded once at startup and never mutated at runtime.
type Store struct {
	ID      string  `json:"id" validate:"required"`
	Name    string  `json:"name" validate:"required"`
	BaseURL string  `json:"base_url" validate:"required,url"`
	LogoURL *string `json:"logo_url,omitempty"`
}

// NormalizedMod is the canonical persisted product record. Its ID is derived
// as "{store_id}:{upstream_product_id}", which makes it globally unique and
// ties every row to its owning store.
type NormalizedMod struct {
	ID          string   `json:"id"`
	StoreID     string   `json:"store_id"`
	Title       string   `json:"title"`
	Images      []string `json:"images"`
	Price       float64  `json:"price"`
	Vendor      string   `json:"vendor"`
	ProductType string   `json:"product_type"`
	Tags        []string `json:"tags"`
	ProductURL  string   `json:"product_url"`
}

// ScrapeStats is the aggregate outcome of one scrape job. It is returned and
// logged, never persisted.
type ScrapeStats struct {
	StoresTotal     int `json:"stores_total"`
	StoresSucceeded int `json:"stores_succeeded"`
	StoresFailed    int `json:"stores_failed"`
	ModsUpserted    int `json:"mods_upserted"`
}

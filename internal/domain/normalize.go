package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Normalize maps one raw upstream product to its canonical record. It never
// fails: missing or malformed upstream fields fall back to defensive defaults.
func Normalize(product ShopifyProduct, store Store) NormalizedMod {
	vendor := "Unknown"
	if product.Vendor != nil && *product.Vendor != "" {
		vendor = *product.Vendor
	}

	images := make([]string, 0, len(product.Images))
	for _, image := range product.Images {
		images = append(images, image.Src)
	}

	baseURL := strings.TrimRight(store.BaseURL, "/")

	return NormalizedMod{
		ID:          fmt.Sprintf("%s:%d", store.ID, product.ID),
		StoreID:     store.ID,
		Title:       product.Title,
		Images:      images,
		Price:       extractPrice(product.Variants),
		Vendor:      vendor,
		ProductType: product.ProductType,
		Tags:        product.Tags,
		ProductURL:  fmt.Sprintf("%s/products/%s", baseURL, product.Handle),
	}
}

// extractPrice returns the first variant price that parses as a decimal,
// scanning variants in upstream order. Products without a parseable price
// are recorded at 0.
func extractPrice(variants []ShopifyVariant) float64 {
	for _, variant := range variants {
		if variant.Price == nil {
			continue
		}
		price, err := strconv.ParseFloat(*variant.Price, 64)
		if err == nil && price >= 0 {
			return price
		}
	}
	return 0
}

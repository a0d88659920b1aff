package domain

import (
	"encoding/json"
	"strings"
)

// ShopifyProductsResponse is one page of a storefront's products.json listing.
type ShopifyProductsResponse struct {
	Products []ShopifyProduct `json:"products"`
}

// ShopifyProduct is the raw upstream product representation.
type ShopifyProduct struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Handle      string           `json:"handle"`
	Vendor      *string          `json:"vendor"`
	ProductType string           `json:"product_type"`
	Tags        ShopifyTags      `json:"tags"`
	Images      []ShopifyImage   `json:"images"`
	Variants    []ShopifyVariant `json:"variants"`
}

// ShopifyImage is a single product image entry.
type ShopifyImage struct {
	Src string `json:"src"`
}

// ShopifyVariant carries the variant price as the decimal string Shopify
// emits; not every variant has one.
type ShopifyVariant struct {
	Price *string `json:"price"`
}

// ShopifyTags absorbs the two encodings storefronts use for the tags field:
// a single comma-separated string or a JSON array of strings. Both forms
// decode into one trimmed, non-empty list so downstream code never branches
// on the original shape.
type ShopifyTags []string

// UnmarshalJSON accepts either a string or an array of strings.
func (t *ShopifyTags) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*t = cleanTags(strings.Split(raw, ","))
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = cleanTags(list)
	return nil
}

// cleanTags trims each tag and drops empty results, preserving order.
func cleanTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

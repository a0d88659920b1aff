package config

import (
	"encoding/json"
	"fmt"

	"github.com/Zinedinarnaut/torqueindex/internal/domain"
	apperrors "github.com/Zinedinarnaut/torqueindex/pkg/errors"
	"github.com/Zinedinarnaut/torqueindex/pkg/validator"
)

// Stores returns the configured store registry: the STORES_JSON override if
// set, otherwise the embedded defaults. Every entry must carry an id, a
// display name, and a valid base catalog URL.
func (c *Config) Stores() ([]domain.Store, error) {
	if c.StoresJSON == "" {
		return defaultStores(), nil
	}

	var stores []domain.Store
	if err := json.Unmarshal([]byte(c.StoresJSON), &stores); err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid STORES_JSON: %v", err))
	}
	if len(stores) == 0 {
		return nil, apperrors.InvalidInput("STORES_JSON cannot be an empty list")
	}
	for i := range stores {
		if err := validator.Validate(&stores[i]); err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid STORES_JSON entry %q: %v", stores[i].ID, err))
		}
	}
	return stores, nil
}

func strPtr(s string) *string { return &s }

// defaultStores is the registry shipped with the binary: Australian
// performance-parts storefronts running on Shopify.
func defaultStores() []domain.Store {
	return []domain.Store{
		{
			ID:      "21overlays",
			Name:    "21 Overlays",
			BaseURL: "https://21overlays.com.au",
		},
		{
			ID:      "dubhaus",
			Name:    "Dubhaus",
			BaseURL: "https://dubhaus.com.au",
			LogoURL: strPtr("https://dubhaus.com.au/cdn/shop/files/Dubhaus-Logo-Dark_2x_aceaf8af-66d7-4aa4-9bdc-e7b868f4752b.png?v=1677123947&width=2000"),
		},
		{
			ID:      "modeautoconcepts",
			Name:    "Mode Auto Concepts",
			BaseURL: "https://modeautoconcepts.com",
			LogoURL: strPtr("https://modeautoconcepts.com/cdn/shop/files/mode_website_header.png?v=1726554561&width=130"),
		},
		{
			ID:      "xforce",
			Name:    "XForce",
			BaseURL: "https://xforce.com.au",
			LogoURL: strPtr("https://xforce.com.au/cdn/shop/files/Logo_Square_X_RED.png?v=1754529662"),
		},
		{
			ID:      "justjap",
			Name:    "JustJap",
			BaseURL: "https://justjap.com",
			LogoURL: strPtr("https://justjap.com/cdn/shop/t/76/assets/icon-logo.svg?v=158336173239139661481733262283"),
		},
		{
			ID:      "modsdirect",
			Name:    "Mods Direct",
			BaseURL: "https://www.modsdirect.com.au",
			LogoURL: strPtr("https://www.modsdirect.com.au/cdn/shop/files/MODSPPFBLK.png?v=1717205712&width=520"),
		},
		{
			ID:      "prospeedracing",
			Name:    "Prospeed Racing",
			BaseURL: "https://www.prospeedracing.com.au",
			LogoURL: strPtr("https://www.prospeedracing.com.au/cdn/shop/files/pro_speed_racing_logo.png?v=1702293418&width=340"),
		},
		{
			ID:      "shiftymods",
			Name:    "Shifty Mods",
			BaseURL: "https://shiftymods.com.au",
			LogoURL: strPtr("https://shiftymods.com.au/cdn/shop/files/3.png?v=1724340298&width=275"),
		},
		{
			ID:      "hi-torqueperformance",
			Name:    "Hi-Torque Performance",
			BaseURL: "https://hi-torqueperformance.myshopify.com",
			LogoURL: strPtr("https://hi-torqueperformance.myshopify.com/cdn/shop/files/HTP_logo_300x300.png?v=1751503487"),
		},
		{
			ID:      "performancewarehouse",
			Name:    "Performance Warehouse",
			BaseURL: "https://performancewarehouse.com.au",
			LogoURL: strPtr("https://cdn.shopify.com/s/files/1/0323/1596/5572/files/main-logo-v4.png?v=1707862321"),
		},
		{
			ID:      "streetelement",
			Name:    "Street Element",
			BaseURL: "https://streetelement.com.au",
		},
		{
			ID:      "allautomotiveparts",
			Name:    "All Automotive Parts",
			BaseURL: "https://allautomotiveparts.com.au",
			LogoURL: strPtr("https://allautomotiveparts.com.au/cdn/shop/files/logo_3.png?v=1662423972&width=438"),
		},
		{
			ID:      "eziautoparts",
			Name:    "Ezi Auto Parts",
			BaseURL: "https://eziautoparts.com.au",
			LogoURL: strPtr("https://eziautoparts.com.au/cdn/shop/files/eziauto_logo_white_inlay.png?v=1711271402&width=600"),
		},
		{
			ID:      "autocave",
			Name:    "Auto Cave",
			BaseURL: "https://autocave.com.au",
			LogoURL: strPtr("https://autocave.com.au/cdn/shop/files/Untitled_design_-_2024-12-09T203629.178_300x@2x.png?v=1733736998"),
		},
		{
			ID:      "jtmauto",
			Name:    "JTM Auto",
			BaseURL: "https://jtmauto.com.au",
			LogoURL: strPtr("https://jtmauto.com.au/cdn/shop/files/jtm-logo4_456x60.png?v=1704599783"),
		},
		{
			ID:      "tjautoparts",
			Name:    "TJ Auto Parts",
			BaseURL: "https://tjautoparts.com.au",
			LogoURL: strPtr("https://tjautoparts.com.au/cdn/shop/files/Logo-01_Crop_393x150.png?v=1711854530"),
		},
		{
			ID:      "nationwideautoparts",
			Name:    "Nationwide Auto Parts",
			BaseURL: "https://www.nationwideautoparts.com.au",
			LogoURL: strPtr("https://www.nationwideautoparts.com.au/cdn/shop/files/NW-Logo-Temp_200x50.png?v=1745620530"),
		},
		{
			ID:      "chicaneaustralia",
			Name:    "Chicane Australia",
			BaseURL: "https://www.chicaneaustralia.com.au",
			LogoURL: strPtr("https://www.chicaneaustralia.com.au/cdn/shop/files/ChicaneLogo_2048x2048-LockupWhiteTransparent_V1.png?v=1747808484&width=300"),
		},
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"apifinder/internal/slug"
)

// CORS support as stored in the catalog. Any other non-empty value is an
// "unknown" label kept verbatim.
const (
	CorsYes = "yes"
	CorsNo  = "no"
)

// CorsStatus is the display classification of an API's CORS label.
type CorsStatus string

const (
	CorsEnabled  CorsStatus = "enabled"
	CorsDisabled CorsStatus = "disabled"
	CorsOther    CorsStatus = "other"
	CorsUnknown  CorsStatus = "unknown"
)

// API is a single catalog entry.
//
// CategoryID is filled when the entry's category name matched a Category row
// at import time. CategoryName is always set and is what consumers display
// and filter on.
type API struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"api_name"`
	Description  string    `json:"description" db:"description"`
	Auth         string    `json:"auth" db:"auth"`
	HTTPS        bool      `json:"https" db:"https"`
	Cors         string    `json:"cors" db:"cors"`
	Link         string    `json:"link" db:"link"`
	CategoryID   *int64    `json:"category_id" db:"category_id"`
	CategoryName string    `json:"category" db:"category_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Slug returns the URL slug used for detail links.
func (a *API) Slug() string {
	return slug.Generate(a.Name)
}

// HasAuth reports whether the API requires any kind of authentication.
func (a *API) HasAuth() bool {
	return a.Auth != ""
}

// AuthBadge returns a short human label for the auth requirement.
func (a *API) AuthBadge() string {
	lower := strings.ToLower(a.Auth)
	switch {
	case a.Auth == "":
		return "No Auth"
	case strings.Contains(lower, "key"):
		return "API Key"
	case strings.Contains(lower, "oauth"):
		return "OAuth"
	default:
		return a.Auth
	}
}

// CorsStatus classifies the raw CORS label.
func (a *API) CorsStatus() CorsStatus {
	switch strings.ToLower(a.Cors) {
	case "":
		return CorsUnknown
	case CorsYes:
		return CorsEnabled
	case CorsNo:
		return CorsDisabled
	default:
		return CorsOther
	}
}

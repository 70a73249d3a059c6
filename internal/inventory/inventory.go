// Package inventory provides vehicle lookup for the qualification pipeline:
// the Service interface the orchestrator consumes, a SQLite-backed store fed
// from dealership feed files, and a static in-memory adapter for development
// and tests.
package inventory

import (
	"context"
	"fmt"
	"strings"
)

// Vehicle statuses as they arrive from dealership feeds.
const (
	StatusAvailable = "AVAILABLE"
	StatusPending   = "PENDING"
	StatusSold      = "SOLD"
)

// maxSummaryVehicles caps how many matches the pipeline renders into the
// prompt context.
const maxSummaryVehicles = 3

// Vehicle is one unit of inventory.
type Vehicle struct {
	VIN           string  `json:"vin"`
	Make          string  `json:"make"`
	Model         string  `json:"model"`
	Year          int     `json:"year"`
	Trim          string  `json:"trim,omitempty"`
	Price         float64 `json:"price,omitempty"`
	Mileage       int     `json:"mileage,omitempty"`
	Status        string  `json:"status"`
	ExteriorColor string  `json:"exteriorColor,omitempty"`
}

// Query filters an inventory search. Zero values mean "any".
type Query struct {
	Make     string
	Model    string
	Year     int
	MaxPrice float64
}

// Service is the lookup contract the pipeline consumes.
type Service interface {
	Search(ctx context.Context, q Query) ([]Vehicle, error)
}

// NoInterestContext is the fixed context string used when extraction found
// no vehicle interest; the pipeline skips the inventory call entirely.
const NoInterestContext = "No specific vehicle interest identified yet."

// Summarize renders search results as the human-readable bullet summary fed
// into the response prompt: at most three matches, or a "none found" line
// naming the requested vehicle.
func Summarize(vehicles []Vehicle, q Query) string {
	if len(vehicles) == 0 {
		requested := strings.TrimSpace(strings.Join([]string{yearString(q.Year), q.Make, q.Model}, " "))
		requested = strings.Join(strings.Fields(requested), " ")
		return fmt.Sprintf("Checked inventory: No vehicles found matching %s.", requested)
	}

	shown := vehicles
	if len(shown) > maxSummaryVehicles {
		shown = shown[:maxSummaryVehicles]
	}

	lines := make([]string, len(shown))
	for i, v := range shown {
		trim := v.Trim
		if trim == "" {
			trim = "Base"
		}
		lines[i] = fmt.Sprintf("- %d %s %s (%s), %dmi, $%.0f", v.Year, v.Make, v.Model, trim, v.Mileage, v.Price)
	}
	return "Available Inventory Matches:\n" + strings.Join(lines, "\n")
}

func yearString(year int) string {
	if year == 0 {
		return ""
	}
	return fmt.Sprintf("%d", year)
}

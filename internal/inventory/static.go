package inventory

import (
	"context"
	"strings"
)

// StaticService serves a fixed vehicle list from memory. Used in development
// when no inventory database is configured, and in tests.
type StaticService struct {
	vehicles []Vehicle
}

// NewStaticService creates a static service over the given vehicles. With no
// arguments it serves the built-in demo lot.
func NewStaticService(vehicles ...Vehicle) *StaticService {
	if len(vehicles) == 0 {
		vehicles = demoVehicles()
	}
	return &StaticService{vehicles: vehicles}
}

// Search filters the in-memory list. Matching mirrors Store.Search:
// case-insensitive make/model, exact year, sold units excluded.
func (s *StaticService) Search(_ context.Context, q Query) ([]Vehicle, error) {
	var out []Vehicle
	for _, v := range s.vehicles {
		if v.Status == StatusSold {
			continue
		}
		if q.Make != "" && !strings.EqualFold(v.Make, q.Make) {
			continue
		}
		if q.Model != "" && !strings.EqualFold(v.Model, q.Model) {
			continue
		}
		if q.Year != 0 && v.Year != q.Year {
			continue
		}
		if q.MaxPrice > 0 && v.Price > q.MaxPrice {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func demoVehicles() []Vehicle {
	return []Vehicle{
		{
			VIN: "1234567890ABCDEFG", Make: "Toyota", Model: "Camry", Year: 2023,
			Trim: "SE", Price: 28000, Mileage: 5000, Status: StatusAvailable, ExteriorColor: "Silver",
		},
		{
			VIN: "0987654321GFEDCBA", Make: "Honda", Model: "Civic", Year: 2024,
			Trim: "Sport", Price: 26500, Mileage: 1200, Status: StatusAvailable, ExteriorColor: "Black",
		},
		{
			VIN: "ABC123XYZ78900000", Make: "Ford", Model: "F-150", Year: 2022,
			Trim: "XLT", Price: 45000, Mileage: 30000, Status: StatusPending, ExteriorColor: "Blue",
		},
	}
}

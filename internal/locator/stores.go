package locator

import "github.com/suvai/freshmart-backend/pkg/geo"

// StoreRecord is one physical SUVAI store. The list is static for the
// lifetime of the process.
type StoreRecord struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Phone    string   `json:"phone"`
	Hours    string   `json:"hours"`
	Services []string `json:"services"`
	Location geo.Point `json:"location"`
}

// Default returns the SUVAI store list.
func Default() []StoreRecord {
	return []StoreRecord{
		{
			ID:       1,
			Name:     "SUVAI Downtown",
			Address:  "123 Main St, New York, NY 10001",
			Phone:    "(555) 123-4567",
			Hours:    "Mon-Sun 7:00 AM - 10:00 PM",
			Services: []string{"Grocery pickup", "Delivery", "Pharmacy"},
			Location: geo.Point{Latitude: 40.7589, Longitude: -73.9851},
		},
		{
			ID:       2,
			Name:     "SUVAI Uptown",
			Address:  "456 Broadway, New York, NY 10025",
			Phone:    "(555) 234-5678",
			Hours:    "Mon-Sun 6:00 AM - 11:00 PM",
			Services: []string{"Grocery pickup", "Delivery", "Bakery"},
			Location: geo.Point{Latitude: 40.7831, Longitude: -73.9712},
		},
		{
			ID:       3,
			Name:     "SUVAI East Side",
			Address:  "789 East Ave, New York, NY 10009",
			Phone:    "(555) 345-6789",
			Hours:    "Mon-Sun 7:00 AM - 10:00 PM",
			Services: []string{"Grocery pickup", "Delivery"},
			Location: geo.Point{Latitude: 40.7505, Longitude: -73.9934},
		},
		{
			ID:       4,
			Name:     "SUVAI West Village",
			Address:  "321 West St, New York, NY 10014",
			Phone:    "(555) 456-7890",
			Hours:    "Mon-Sun 8:00 AM - 9:00 PM",
			Services: []string{"Grocery pickup", "Organic section"},
			Location: geo.Point{Latitude: 40.7357, Longitude: -74.0036},
		},
		{
			ID:       5,
			Name:     "SUVAI Brooklyn",
			Address:  "654 Brooklyn Ave, Brooklyn, NY 11201",
			Phone:    "(555) 567-8901",
			Hours:    "Mon-Sun 7:00 AM - 10:00 PM",
			Services: []string{"Grocery pickup", "Delivery", "Deli"},
			Location: geo.Point{Latitude: 40.6892, Longitude: -73.9442},
		},
	}
}

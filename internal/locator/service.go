package locator

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"

	"github.com/suvai/freshmart-backend/internal/catalog"
	"github.com/suvai/freshmart-backend/pkg/enums"
	pkgerrors "github.com/suvai/freshmart-backend/pkg/errors"
	"github.com/suvai/freshmart-backend/pkg/geo"
)

const directionsURLTemplate = "https://www.openstreetmap.org/directions?engine=fossgis_osrm_car&route=%s%%2C%s%%3B%s%%2C%s"

// RankedStore pairs a store with its distance from the shopper.
type RankedStore struct {
	Store      StoreRecord `json:"store"`
	DistanceKm float64     `json:"distance_km"`
}

// StockedStore extends RankedStore with availability for a product set.
type StockedStore struct {
	RankedStore
	Availability      enums.Availability `json:"availability"`
	AvailableProducts []catalog.Product  `json:"available_products"`
}

// Service answers store-proximity questions over the static store list.
// Distances are recomputed on every call, never cached.
type Service interface {
	Stores() []StoreRecord
	ByID(id int) (StoreRecord, bool)
	Nearby(location *geo.Point) []RankedStore
	DirectionsURL(origin *geo.Point, storeID int) (string, error)
	WithProducts(location *geo.Point, products []catalog.Product) []StockedStore
}

type service struct {
	stores []StoreRecord
}

// NewService builds a locator over the given store list.
func NewService(stores []StoreRecord) (Service, error) {
	if len(stores) == 0 {
		return nil, fmt.Errorf("store list required")
	}
	return &service{stores: stores}, nil
}

func (s *service) Stores() []StoreRecord {
	out := make([]StoreRecord, len(s.stores))
	copy(out, s.stores)
	return out
}

func (s *service) ByID(id int) (StoreRecord, bool) {
	for _, store := range s.stores {
		if store.ID == id {
			return store, true
		}
	}
	return StoreRecord{}, false
}

// Nearby ranks all stores by distance ascending; ties keep list order. With
// no shopper location each store gets a placeholder distance in [1, 11) km so
// the listing still renders.
func (s *service) Nearby(location *geo.Point) []RankedStore {
	ranked := make([]RankedStore, 0, len(s.stores))
	for _, store := range s.stores {
		ranked = append(ranked, RankedStore{
			Store:      store,
			DistanceKm: s.distanceTo(location, store),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked
}

func (s *service) distanceTo(location *geo.Point, store StoreRecord) float64 {
	if location == nil {
		return rand.Float64()*10 + 1
	}
	return geo.DistanceKm(*location, store.Location)
}

// DirectionsURL templates an OpenStreetMap driving route from the shopper to
// the store. An origin is required; there is no placeholder for directions.
func (s *service) DirectionsURL(origin *geo.Point, storeID int) (string, error) {
	if origin == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "origin location is required for directions")
	}
	store, ok := s.ByID(storeID)
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return fmt.Sprintf(directionsURLTemplate,
		formatCoord(origin.Latitude),
		formatCoord(origin.Longitude),
		formatCoord(store.Location.Latitude),
		formatCoord(store.Location.Longitude),
	), nil
}

func formatCoord(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// WithProducts ranks stores by distance and tags each with simulated stock
// for the requested products: all available is in-stock, some is low-stock,
// none is out-of-stock.
func (s *service) WithProducts(location *geo.Point, products []catalog.Product) []StockedStore {
	ranked := s.Nearby(location)
	stocked := make([]StockedStore, 0, len(ranked))
	for _, entry := range ranked {
		available := make([]catalog.Product, 0, len(products))
		for _, product := range products {
			if rand.Float64() > 0.3 {
				available = append(available, product)
			}
		}

		availability := enums.AvailabilityOutOfStock
		switch {
		case len(available) == len(products) && len(products) > 0:
			availability = enums.AvailabilityInStock
		case len(available) > 0:
			availability = enums.AvailabilityLowStock
		}

		stocked = append(stocked, StockedStore{
			RankedStore:       entry,
			Availability:      availability,
			AvailableProducts: available,
		})
	}
	return stocked
}

package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"restaurant-admin/internal/model"
	"restaurant-admin/internal/seed"

	"github.com/google/uuid"
)

// generateSeed writes a sample seed file for local development.
// Two clients, three restaurants; each restaurant gets tables, products and
// one active menu. Run it twice and import both files: the second import
// skips every restaurant.
func main() {
	out := flag.String("out", "data/seeds/restaurants.ndjson.gz", "output file")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	clientA := uuid.NewString()
	clientB := uuid.NewString()

	records := []seed.Record{
		sampleRestaurant("Trattoria Roma", "Family-run Italian kitchen", clientA, true),
		sampleRestaurant("Casa Lola", "Tapas and natural wines", clientA, false),
		sampleRestaurant("Harbour Grill", "Seafood on the quay", clientB, true),
	}

	if err := writeSeedFile(*out, records); err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}

	fmt.Printf("Created %s with %d restaurants\n", *out, len(records))
	fmt.Printf("  client A: %s\n", clientA)
	fmt.Printf("  client B: %s\n", clientB)
}

func sampleRestaurant(name, description, clientID string, open bool) seed.Record {
	website := "https://example.com/" + uuid.NewString()[:8]
	return seed.Record{
		Restaurant: model.RestaurantInput{
			Name:        name,
			Description: description,
			Address:     "12 Market Square",
			Phone:       "+34 600 000 000",
			Email:       "hello@example.com",
			Website:     &website,
			ClientID:    clientID,
			IsOpen:      open,
		},
		Tables: []model.TableInput{
			{Number: 1, Capacity: 2},
			{Number: 2, Capacity: 4},
			{Number: 3, Capacity: 6, Status: model.TableReserved},
			{Number: 4, Capacity: 4, Status: model.TableMaintenance},
		},
		Products: []seed.ProductRecord{
			{Ref: "bread", ProductInput: model.ProductInput{Name: "Bread basket", Description: "Sourdough", Price: 3.5, Category: "starters", IsAvailable: true}},
			{Ref: "salad", ProductInput: model.ProductInput{Name: "House salad", Description: "Leaves and herbs", Price: 8, Category: "starters", IsAvailable: true}},
			{Ref: "main", ProductInput: model.ProductInput{Name: "Catch of the day", Description: "Market fish", Price: 21, Category: "mains", IsAvailable: true}},
			{Ref: "tart", ProductInput: model.ProductInput{Name: "Lemon tart", Description: "Seasonal", Price: 6.5, Category: "desserts"}},
		},
		Menus: []seed.MenuRecord{
			{Name: "Lunch", IsActive: true, ProductRefs: []string{"bread", "salad", "main"}},
			{Name: "Dessert", IsActive: false, ProductRefs: []string{"tart"}},
		},
	}
}

func writeSeedFile(path string, records []seed.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	enc := json.NewEncoder(gzipWriter)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	return nil
}

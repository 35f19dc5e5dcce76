// Command seed_catalog imports the ingredient reference data from a JSON
// file and installs the default tag set. Safe to run repeatedly: the upserts
// are keyed on the catalog's natural keys.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/service"
)

type ingredientRow struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

var defaultTags = []struct {
	name  string
	color string
	slug  string
}{
	{"Breakfast", "#AFB83B", "breakfast"},
	{"Lunch", "#FAD000", "lunch"},
	{"Brunch", "#FF9933", "brunch"},
	{"Dinner", "#DB4035", "dinner"},
	{"Late night", "#B8255F", "latenight"},
}

func main() {
	path := flag.String("ingredients", "data/ingredients.json", "path to the ingredients JSON file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	catalog := service.NewCatalogService(db, nil)
	ctx := context.Background()

	content, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *path, err)
	}
	var rows []ingredientRow
	if err := json.Unmarshal(content, &rows); err != nil {
		log.Fatalf("Failed to parse %s: %v", *path, err)
	}

	for _, row := range rows {
		if _, err := catalog.UpsertIngredient(ctx, row.Name, row.MeasurementUnit); err != nil {
			log.Fatalf("Failed to import ingredient %q: %v", row.Name, err)
		}
	}
	log.Printf("Imported %d ingredients", len(rows))

	for _, tag := range defaultTags {
		if _, err := catalog.UpsertTag(ctx, tag.name, tag.color, tag.slug); err != nil {
			log.Fatalf("Failed to install tag %q: %v", tag.slug, err)
		}
	}
	log.Printf("Installed %d tags", len(defaultTags))
}

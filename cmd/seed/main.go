// Command seed inserts sample listings so a fresh environment has something
// to browse. Without MONGODB_URI it prints the listings instead.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/config"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/database"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/property"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/property/repository"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/property/service"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/logger"
)

func sampleListings() []*property.Property {
	return []*property.Property{
		{
			Title: "3BHK Independent Floor, Sector 2", Description: "Corner plot with park view.",
			Price: 6500000, City: "Farrukhnagar", State: "Haryana", ZipCode: "122506",
			Bedrooms: 3, Bathrooms: 2, AreaSqFt: 1450, PropertyType: "apartment",
			ListingType: property.ListingSale, Featured: true,
			Amenities: []string{"parking", "power backup"},
		},
		{
			Title: "Residential Plot near KMP Expressway", Description: "200 sq yd, registry ready.",
			Price: 3200000, City: "Farrukhnagar", State: "Haryana",
			AreaSqFt: 1800, PropertyType: "plot", ListingType: property.ListingSale,
		},
		{
			Title: "2BHK Builder Floor for Rent", Description: "Semi-furnished, family preferred.",
			Price: 14000, City: "Gurugram", State: "Haryana", ZipCode: "122001",
			Bedrooms: 2, Bathrooms: 2, AreaSqFt: 1050, PropertyType: "apartment",
			ListingType: property.ListingRent,
		},
		{
			Title: "Farmhouse with Orchard", Description: "2 acres, tubewell and boundary wall.",
			Price: 21000000, City: "Farrukhnagar", State: "Haryana",
			Bedrooms: 4, Bathrooms: 3, AreaSqFt: 87120, PropertyType: "farmhouse",
			ListingType: property.ListingSale, Featured: true, Status: property.StatusPending,
		},
	}
}

func main() {
	dryRun := flag.Bool("dry-run", false, "print the listings instead of inserting them")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	listings := sampleListings()
	if *dryRun || cfg.MongoDB.URI == "" {
		if cfg.MongoDB.URI == "" {
			logger.Warnf("MONGODB_URI not set; printing sample listings")
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(listings); err != nil {
			logger.Fatalf("encode: %v", err)
		}
		return
	}

	ctx := context.Background()
	client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		logger.Fatalf("cannot connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	svc := service.NewMongoService(client.Database(cfg.MongoDB.Database).Collection(repository.CollectionName), nil)
	n, err := seed(ctx, svc, listings)
	if err != nil {
		logger.Fatalf("seed: %v", err)
	}
	logger.Infof("inserted %d listings into %s.%s", n, cfg.MongoDB.Database, repository.CollectionName)
}

// seed creates every listing through the service so ids, timestamps and
// validation match what the API would produce. It stops at the first error.
func seed(ctx context.Context, svc service.Service, listings []*property.Property) (int, error) {
	for i, p := range listings {
		if _, err := svc.Create(ctx, p); err != nil {
			return i, err
		}
	}
	return len(listings), nil
}

package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"stuhealth-backend/internal/catalog"
	"stuhealth-backend/internal/config"
	"stuhealth-backend/internal/db"
	"stuhealth-backend/internal/docstore"
	"stuhealth-backend/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	handle, err := db.Open(cfg.SQLitePath)
	if err != nil {
		log.Fatal(err)
	}
	defer handle.Close()

	userService := users.NewService(users.NewRepository(handle))
	created, err := userService.EnsureAdmin(ctx, cfg.AdminUser, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("seed admin error: %v", err)
	}
	if created {
		log.Printf("seed admin: created %s", cfg.AdminUser)
	} else {
		log.Println("seed admin: skipped (already present or not configured)")
	}

	catalogService := catalog.NewService(
		catalog.NewResourceRepository(docstore.NewFile(filepath.Join(cfg.DataDir, "resources.json"))),
		catalog.NewDoctorRepository(docstore.NewFile(filepath.Join(cfg.DataDir, "doctors.json"))),
		cfg.Timezone,
	)

	if err := catalogService.SeedDoctors(ctx, catalog.DefaultDoctors); err != nil {
		log.Fatalf("seed doctors error: %v", err)
	}
	log.Printf("seed doctors: %d ensured", len(catalog.DefaultDoctors))

	existing, err := catalogService.ListResources(ctx, "")
	if err != nil {
		log.Fatalf("seed resources error: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("seed resources: skipped (%d already present)", len(existing))
		log.Println("seed completed")
		return
	}

	for _, req := range catalog.DefaultResources {
		if _, err := catalogService.CreateResource(ctx, req); err != nil {
			log.Fatalf("seed error for %s: %v", req.Title, err)
		}
	}
	log.Printf("seed resources: %d created", len(catalog.DefaultResources))

	log.Println("seed completed")
}

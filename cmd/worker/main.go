package main

import (
	"context"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"veridoc/internal/convert"
	"veridoc/internal/db"
	"veridoc/internal/storage"
	"veridoc/internal/worker"
)

func main() {
	// Start services
	dbx := db.MustOpen()
	s3c, err := storage.New(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	// The LibreOffice fallback is optional; without a docker daemon the
	// worker runs native extraction only.
	conv, err := convert.New(context.Background())
	if err != nil {
		log.Printf("converter disabled: %v", err)
		conv = nil
	}
	if err := worker.Run(os.Getenv("REDIS_ADDR"), dbx, s3c, conv); err != nil {
		log.Fatal(err)
	}
}

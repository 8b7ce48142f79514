package main

import (
	"context"
	"fmt"

	"system-biblioteczny/internal/config"
	"system-biblioteczny/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newInitDBCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the database tables",
		Run:   runInitDBCommandFunc,
	}
}

func runInitDBCommandFunc(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		log.Fatalf("Nie można połączyć się z bazą danych: %v", err)
	}
	defer dbpool.Close()

	store := database.NewStore(dbpool)
	if err := store.ApplySchema(context.Background()); err != nil {
		log.Fatalf("Nie można zainicjować schematu: %v", err)
	}

	fmt.Println("Database initialized successfully.")
}

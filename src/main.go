package main

import (
	"fintrack-server/src/api"
	"fintrack-server/src/config"
	"fintrack-server/src/db"
	dbsql "fintrack-server/src/db/sql"
	"fintrack-server/src/services"
	"log"
	"net/http"
)

func main() {
	cfg := config.Load()

	// Connect to database
	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	db.InitCache()

	store := dbsql.NewStore(pool)
	ledger := services.NewLedgerService(store)
	budgets := services.NewBudgetService(store, services.SystemClock())

	// Router
	router := api.NewRouter(pool, ledger, budgets, cfg)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}

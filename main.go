package main

import (
	"log"

	"lifeops-server/confs"
	"lifeops-server/db"
	"lifeops-server/server"
)

func main() {
	// load config
	cfg, err := confs.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// connect to database and migrate
	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	log.Printf("Using %s database, calendar dates in %s", cfg.DBDriver, cfg.Location)

	// run server
	srv := server.NewServer(database, cfg)
	srv.Start()
}

package main

import (
	"flag"
	"log"

	"quizzy/database"
	"quizzy/internal/config"
	internaldb "quizzy/internal/database"
	"quizzy/internal/logger"

	"go.uber.org/zap"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := internaldb.NewPostgresDB(cfg)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if *down > 0 {
		if err := internaldb.RollbackMigrations(db.DB, database.Migrations, database.MigrationsPath, *down); err != nil {
			l.Fatal("Failed to roll back migrations", zap.Error(err))
		}
		return
	}

	if err := internaldb.RunMigrations(db.DB, database.Migrations, database.MigrationsPath); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
}

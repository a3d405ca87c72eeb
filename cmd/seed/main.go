package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/platebook/backend/config"
	"github.com/platebook/backend/internal/database"
	"github.com/platebook/backend/internal/logger"
	"github.com/platebook/backend/internal/seed"
)

func main() {
	log := logger.New()
	defer func() { _ = log.Sync() }()

	skipIngredients := flag.Bool("skip-ingredients", false, "do not load the ingredients CSV")
	skipTags := flag.Bool("skip-tags", false, "do not load the tags CSV")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if !*skipIngredients {
		n, err := seed.File(db, cfg.IngredientsCSV, log, seed.Ingredients)
		if err != nil {
			log.Fatal("failed to load ingredients", zap.String("path", cfg.IngredientsCSV), zap.Error(err))
		}
		log.Info("ingredients loaded", zap.Int("created", n))
	}

	if !*skipTags {
		n, err := seed.File(db, cfg.TagsCSV, log, seed.Tags)
		if err != nil {
			log.Fatal("failed to load tags", zap.String("path", cfg.TagsCSV), zap.Error(err))
		}
		log.Info("tags loaded", zap.Int("created", n))
	}
}

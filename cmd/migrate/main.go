package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"ai-search-be/internal/model"
	"ai-search-be/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	dims := 768
	if v, err := strconv.Atoi(os.Getenv("EMBEDDING_DIMENSIONS")); err == nil && v > 0 {
		dims = v
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, logger.Warn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting AI search migration...")

	// 3. Pre-Migration: Extensions
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.Collection{},
		&model.Content{},
		&model.PluginSetting{},
		&model.IndexStatus{},
		&model.SearchHistory{},
		&model.ContentChunk{},
		&model.ContentChunkRef{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: vector column size and ANN index
	log.Println("Step 3: Creating vector indexes...")

	postMigrationSQL := []string{
		fmt.Sprintf(`ALTER TABLE content_chunks ALTER COLUMN embedding_value TYPE vector(%d);`, dims),
		`CREATE INDEX IF NOT EXISTS idx_content_chunks_embedding ON content_chunks USING hnsw (embedding_value vector_cosine_ops);`,
		`CREATE INDEX IF NOT EXISTS idx_content_updated_at_desc ON content (updated_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_ai_search_history_query_lower ON ai_search_history (lower(query));`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("Success: AI search migration completed.")
}

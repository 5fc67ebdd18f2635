package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Applies every migrations/*.sql file in lexical order, recording applied
// files in schema_migrations so reruns are no-ops.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	db, err := sql.Open("postgres", os.Getenv("DB_ADDR"))
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	if _, err := db.Exec(`
	  CREATE TABLE IF NOT EXISTS schema_migrations (
	    filename TEXT PRIMARY KEY,
	    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	  )`); err != nil {
		log.Fatalf("create schema_migrations: %v", err)
	}

	files, err := filepath.Glob("migrations/*.sql")
	if err != nil {
		log.Fatalf("list migrations: %v", err)
	}
	sort.Strings(files)

	for _, file := range files {
		name := filepath.Base(file)

		var applied bool
		err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE filename = $1)`, name).Scan(&applied)
		if err != nil {
			log.Fatalf("check %s: %v", name, err)
		}
		if applied {
			continue
		}

		contents, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("read %s: %v", name, err)
		}
		if strings.TrimSpace(string(contents)) == "" {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			log.Fatalf("begin tx for %s: %v", name, err)
		}
		if _, err := tx.Exec(string(contents)); err != nil {
			tx.Rollback()
			log.Fatalf("apply %s: %v", name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (filename) VALUES ($1)`, name); err != nil {
			tx.Rollback()
			log.Fatalf("record %s: %v", name, err)
		}
		if err := tx.Commit(); err != nil {
			log.Fatalf("commit %s: %v", name, err)
		}

		fmt.Println("applied", name)
	}

	fmt.Println("migrations up to date")
}

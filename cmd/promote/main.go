// Command promote sets a user's role to admin by email address. It is the
// way to bootstrap the first admin; registration always creates plain
// users.
//
// Usage:
//
//	promote --email=user@example.com
//
// Reads the database path from DB_PATH (default "data/sweetshop.db").
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

func main() {
	email := flag.String("email", "", "email of user to promote to admin")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "Usage: promote --email=user@example.com")
		os.Exit(1)
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/sweetshop.db"
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	result, err := db.Exec(
		`UPDATE users SET role = 'admin', updated_at = ? WHERE email = ? AND role != 'admin'`,
		time.Now().UTC(), *email,
	)
	if err != nil {
		log.Fatalf("update role: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Fatalf("check rows affected: %v", err)
	}
	if rowsAffected == 0 {
		fmt.Printf("No user found with email %q, or already admin.\n", *email)
		os.Exit(1)
	}

	fmt.Printf("User %q promoted to admin.\n", *email)
}

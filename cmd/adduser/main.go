// cmd/adduser/main.go
// Creates or updates a golfer account in the database.
//
// Usage:
//
//	go run ./cmd/adduser -username mike -password testing -display-name "Big Mike"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/ForeO4/teeth/config"
	bundb "github.com/ForeO4/teeth/db"
	"github.com/ForeO4/teeth/handlers"
	"github.com/ForeO4/teeth/models"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "plain-text password (required)")
	displayName := flag.String("display-name", "", "name shown on ledgers (defaults to username)")
	flag.Parse()

	hash, err := handlers.HashPasswordForUser(*username, *password)
	if err != nil {
		log.Fatal(err)
	}
	if *displayName == "" {
		*displayName = *username
	}

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	user := &models.User{
		Username:    *username,
		Password:    hash,
		DisplayName: *displayName,
	}

	_, err = db.NewInsert().Model(user).
		On("CONFLICT (username) DO UPDATE SET password = EXCLUDED.password, display_name = EXCLUDED.display_name").
		Exec(context.Background())
	if err != nil {
		log.Fatal("insert user:", err)
	}

	fmt.Printf("user %q saved\n", *username)
}

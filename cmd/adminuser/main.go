// Command adminuser creates an admin account, or resets its password if it exists.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"shopfront/internal/config"
	"shopfront/internal/database"
	"shopfront/internal/obs"
	"shopfront/internal/services"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	dbPath := flag.String("db", cfg.DBPath, "path to the shop sqlite database")
	username := flag.String("username", "", "admin username")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if err := obs.InitLogger(cfg.LogLevel, true); err != nil {
		panic(err)
	}
	defer obs.Sync()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		obs.Logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		obs.Logger.Fatal("run migrations", zap.Error(err))
	}

	admin, err := services.NewAuthService(db).CreateAdmin(context.Background(), *username, *password)
	if err != nil {
		obs.Logger.Fatal("create admin", zap.Error(err))
	}
	fmt.Printf("admin %q saved (id %d)\n", admin.Username, admin.ID)
}

package main

import (
	"context"
	"log"

	"github.com/amyzhang-commits/spanish-cards/internal/server"
	"github.com/amyzhang-commits/spanish-cards/internal/server/config"
	"github.com/joho/godotenv"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded:", err)
	}

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}

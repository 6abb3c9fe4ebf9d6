package main

import (
	"context"
	"log"

	"github.com/amyzhang-commits/spanish-cards/internal/client/cli"
	"github.com/amyzhang-commits/spanish-cards/internal/client/config"
	"github.com/joho/godotenv"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded:", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}

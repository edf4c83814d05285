package main

import (
	"log"

	"maxybot/internal/bot"
	"maxybot/internal/config"
)

func main() {
	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Create and start bot
	maxyBot, err := bot.New(cfg)
	if err != nil {
		log.Fatal("Failed to create bot:", err)
	}

	if err := maxyBot.Start(); err != nil {
		log.Fatal("Failed to start bot:", err)
	}
}

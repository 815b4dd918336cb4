package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/shreshta-sdc/shreshta-server/app"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

func main() {
	// Local development reads .env; deployments set real env vars.
	if err := godotenv.Load(); err != nil {
		utils.Debug("No .env file loaded: %v", err)
	}

	application, err := app.New()
	if err != nil {
		log.Fatal(err)
	}

	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}

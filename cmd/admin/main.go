package main

import (
	"errors"
	"log"
	"os"

	"github.com/yukikurage/edutask-api/internal/config"
	"github.com/yukikurage/edutask-api/internal/database"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal(err)
	}

	cli := newCommandLine(cfg, db)
	err = cli.run(os.Args)
	database.Close(db)
	if err != nil {
		if !errors.Is(err, errHelp) {
			logger.Printf("error: %s", err)
		}
		os.Exit(1)
	}
}

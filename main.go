package main

import (
	"log"
	"os"

	"github.com/slack-go/slack"
)

func main() {
	cfg := LoadConfig()

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	os.MkdirAll(cfg.ReportOutputDir, 0755)

	var api *slack.Client
	if cfg.SlackConfigured() {
		api = slack.New(cfg.SlackBotToken)
	}

	run := func() error { return RunAnalysis(cfg, db, api) }

	log.Println("Starting appointment reappointment trend analyzer...")
	if err := run(); err != nil {
		log.Fatalf("Analysis error: %v", err)
	}

	if StartRefreshScheduler(cfg, run) {
		select {}
	}
}

package main

import (
	"os"

	"github.com/joho/godotenv"

	screenercmder "github.com/AISHITA-10/ai-resume-screener/cmd/screener"
)

func main() {
	// A missing .env is fine; config falls back to defaults and SCREENER_*
	// environment variables.
	_ = godotenv.Load()

	cmd := screenercmder.NewScreenerCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

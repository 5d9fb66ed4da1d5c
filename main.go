package main

import (
	"github.com/joho/godotenv"

	"github.com/storyreel/preedit-pipeline/cmd"
)

func main() {
	// .env is optional
	_ = godotenv.Load()
	cmd.Execute()
}

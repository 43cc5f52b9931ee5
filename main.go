package main

import (
	"github.com/joho/godotenv"

	"github.com/Akamitori/qcvault/cmd"
)

func main() {
	// .env is optional
	_ = godotenv.Load()
	cmd.Execute()
}

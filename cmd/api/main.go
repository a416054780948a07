package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/foraginglink/backend/internal/cmd"
)

func main() {
	cmd.Run()
}

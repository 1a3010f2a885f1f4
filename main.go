package main

import (
	"github.com/joho/godotenv"
	"github.com/tieubaoca/dreamer-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// Optional; API keys can come from the real environment instead.
	_ = godotenv.Load()
}

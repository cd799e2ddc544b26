package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/practicecomp/compensation-engine/internal/cli"
)

func main() {
	// a missing .env is normal; flags and the real environment still apply
	_ = godotenv.Load()

	if err := cli.NewRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

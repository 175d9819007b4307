// Command wiselyctl answers balance questions offline, from a JSON snapshot
// of users, groups, expenses and payments.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

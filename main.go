package main

import (
	"log"
	"os"

	"storagebackup/cmd"
	"storagebackup/config"
	"storagebackup/pkg/utils"
)

func main() {
	cnf, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cmd.Execute(cnf); err != nil {
		utils.PrintError(os.Stderr, err, "storagebackup")
		os.Exit(1)
	}
}

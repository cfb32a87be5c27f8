// Command portalctl inspects and maintains the portal store from the shell.
package main

import (
	"context"
	"log"
	"os"

	"course-portal/internal/adapters/persistence/store"
	"course-portal/internal/config"
)

func main() {
	opener := func(ctx context.Context) (*portal, func(), error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		repo, err := config.OpenRepository(cfg)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := config.CloseDatabase(); err != nil {
				log.Printf("❌ Error closing store: %v", err)
			}
		}
		return newPortal(cfg, store.New(repo)), closeFn, nil
	}

	if err := newRootCmd(opener, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// inventory-rebuild recomputes every product's quantity, average cost and
// total cost by replaying the purchase/sale/return history in date order.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/inventory-rebuild
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/colmadosys/colmado_backend/config"
	"github.com/colmadosys/colmado_backend/utils"
	"github.com/colmadosys/colmado_backend/workflow"
	"github.com/sirupsen/logrus"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Replay and report without writing product rows")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	logger := logrus.New()

	ctx = utils.SetUserIdInContext(ctx, 0)
	ctx = utils.SetUserNameInContext(ctx, "InventoryRebuild")

	updated, err := workflow.RebuildInventory(ctx, db, logger, *dryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rebuild failed: %v\n", err)
		os.Exit(1)
	}
	if *dryRun {
		fmt.Printf("Dry run: %d product rows would be rewritten\n", updated)
		return
	}
	fmt.Printf("Rebuilt %d product rows\n", updated)
}

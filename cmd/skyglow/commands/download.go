package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skyglowlab/skyglow/internal/config"
	"github.com/skyglowlab/skyglow/internal/download"
)

// DownloadCmd mirrors configured LAADS archive orders once and exits.
type DownloadCmd struct {
	Orders []int64 `short:"O" help:"Order IDs to download (overrides config)"`
}

func (d *DownloadCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	orders := cfg.Download.Orders
	if len(d.Orders) > 0 {
		orders = d.Orders
	}
	if len(orders) == 0 {
		return fmt.Errorf("no orders configured; set download.orders or pass --orders")
	}
	if cfg.Download.Token == "" {
		return fmt.Errorf("download token missing; set download.token (LAADS App Key)")
	}
	if cfg.Download.Directory == "" {
		return fmt.Errorf("download directory missing; set download.directory or the nighttime-lights input directory")
	}

	client := download.NewClient(cfg.Download.BaseURL, cfg.Download.Token)
	total := 0
	for _, orderID := range orders {
		fetched, err := client.DownloadOrder(context.Background(), orderID, cfg.Download.Directory)
		total += fetched
		if err != nil {
			return fmt.Errorf("order %d: %w", orderID, err)
		}
		slog.Info("Order complete", "order", orderID, "fetched", fetched)
	}
	fmt.Printf("Downloaded %d files from %d orders into %s\n", total, len(orders), cfg.Download.Directory)
	return nil
}

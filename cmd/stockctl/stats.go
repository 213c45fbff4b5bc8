package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stockroom/backend/internal/models"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show inventory statistics",
	Long: `Display aggregate inventory statistics.

Example:
  stockctl stats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var stats models.InventoryStats
		if err := getJSON("/items/stats", &stats); err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Println("📊 Inventory Statistics")
		fmt.Println("=======================")
		fmt.Printf("Total SKUs:   %d\n", stats.TotalSKUs)
		fmt.Printf("Total units:  %d\n", stats.TotalUnits)
		fmt.Printf("Low stock:    %d\n", stats.LowStock)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockroom/backend/internal/models"
)

var (
	listQuery    string
	listCategory string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List inventory items",
	Long: `List items, optionally filtered.

Examples:
  stockctl list                    # everything
  stockctl list --q widget         # name or SKU contains "widget"
  stockctl list --category Tools   # exact category match`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		if listQuery != "" {
			params.Set("q", listQuery)
		}
		if listCategory != "" {
			params.Set("category", listCategory)
		}
		path := "/items"
		if len(params) > 0 {
			path += "?" + params.Encode()
		}

		var items []models.Item
		if err := getJSON(path, &items); err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}

		if len(items) == 0 {
			fmt.Println("No items found.")
			return nil
		}

		fmt.Printf("%-26s %-16s %-30s %-12s %8s %9s %10s\n", "ID", "SKU", "NAME", "CATEGORY", "QTY", "MIN", "PRICE")
		fmt.Println(strings.Repeat("-", 117))
		for _, item := range items {
			name := item.Name
			if len(name) > 27 {
				name = name[:27] + "..."
			}
			fmt.Printf("%-26s %-16s %-30s %-12s %8d %9d %10.2f\n",
				item.ID.Hex(),
				item.SKU,
				name,
				item.Category,
				item.Quantity,
				item.MinStock,
				item.Price,
			)
		}

		fmt.Printf("\nShowing %d item(s)\n", len(items))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listQuery, "q", "", "substring to match against name or SKU")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "exact category filter")
}

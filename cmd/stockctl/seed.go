package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var (
	seedFile    string
	seedWorkers int
)

// seedItem mirrors the create payload so seed files stay readable YAML.
type seedItem struct {
	Name     string  `yaml:"name" json:"name"`
	SKU      string  `yaml:"sku" json:"sku"`
	Category string  `yaml:"category" json:"category"`
	Location string  `yaml:"location" json:"location"`
	Quantity int     `yaml:"quantity" json:"quantity"`
	MinStock int     `yaml:"min_stock" json:"min_stock"`
	Cost     float64 `yaml:"cost" json:"cost"`
	Price    float64 `yaml:"price" json:"price"`
}

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Bulk-create items from a YAML file",
	Long: `Read a YAML list of items and create them through the API.

Items whose SKU already exists are reported and skipped; any other server
error aborts the run.

Example:
  stockctl seed --file items.yaml --workers 8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(seedFile)
		if err != nil {
			return fmt.Errorf("failed to read seed file: %w", err)
		}

		var items []seedItem
		if err := yaml.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("failed to parse seed file: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("Nothing to seed.")
			return nil
		}

		if seedWorkers < 1 {
			seedWorkers = 1
		}

		var created, conflicts int64

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(seedWorkers)
		for _, item := range items {
			item := item
			g.Go(func() error {
				status, errMsg, err := postItem(ctx, item)
				if err != nil {
					return fmt.Errorf("create %s: %w", item.SKU, err)
				}
				switch {
				case status == http.StatusCreated:
					atomic.AddInt64(&created, 1)
					fmt.Printf("created   %-16s %s\n", item.SKU, item.Name)
				case status == http.StatusBadRequest && errMsg == "SKU already exists":
					atomic.AddInt64(&conflicts, 1)
					fmt.Printf("conflict  %-16s already present\n", item.SKU)
				default:
					return fmt.Errorf("create %s: server returned %d: %s", item.SKU, status, errMsg)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		fmt.Printf("\nSeeded %d item(s), %d conflict(s)\n", created, conflicts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "items.yaml", "YAML file with items to create")
	seedCmd.Flags().IntVarP(&seedWorkers, "workers", "w", 4, "concurrent create requests")
}

// postItem sends one create request and reports the status plus the server's
// error message, if any. A non-nil error means the request itself failed.
func postItem(ctx context.Context, item seedItem) (int, string, error) {
	body, err := json.Marshal(item)
	if err != nil {
		return 0, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+"/items", bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		return resp.StatusCode, "", nil
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)
	return resp.StatusCode, apiErr.Error, nil
}

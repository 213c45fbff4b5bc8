package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var apiBase string

// httpClient is shared by every subcommand.
var httpClient = &http.Client{Timeout: 15 * time.Second}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockctl",
	Short: "Admin CLI for the Inventory API",
	Long: `Stockctl drives the Inventory API over HTTP: bulk-seed items from a
YAML file, list the collection, and print inventory statistics.

The target server is chosen with --api (default http://localhost:8000).`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", "http://localhost:8000", "base URL of the Inventory API")
}

// getJSON fetches path relative to the API base and decodes the body into out.
func getJSON(path string, out interface{}) error {
	resp, err := httpClient.Get(apiBase + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %s for %s", resp.Status, path)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/CRui5in/agentd/internal/config"
)

// NewReloadCommand returns the reload subcommand.
func NewReloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "reload",
		Usage: "Reload the LLM provider configuration",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			host := cfg.Server.Host
			if host == "" || host == "0.0.0.0" {
				host = "127.0.0.1"
			}
			url := fmt.Sprintf("http://%s:%d/api/config/llm/reload", host, cfg.Server.Port)

			client := &http.Client{Timeout: 30 * time.Second}
			resp, err := client.Post(url, "application/json", strings.NewReader("{}"))
			if err != nil {
				return fmt.Errorf("gateway not reachable: %w", err)
			}
			defer resp.Body.Close()

			var body map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}

			fmt.Printf("Provider: %v\n", body["provider"])
			fmt.Printf("Model: %v\n", body["model"])
			fmt.Printf("Source: %v\n", body["source"])
			return nil
		},
	}
}

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/CRui5in/agentd/internal/config"
)

// NewStatusCommand returns the status subcommand.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show agentd gateway status",
		Action: func(_ context.Context, cmd *cli.Command) error {
			body, err := gatewayGet(cmd, "/api/health")
			if err != nil {
				fmt.Println("Gateway: NOT RUNNING")
				return nil
			}

			fmt.Printf("Gateway: %v\n", body["status"])
			fmt.Printf("LLM configured: %v\n", body["llm_configured"])
			if services, ok := body["services"].(map[string]any); ok {
				fmt.Printf("Tool services: %v\n", services["tool_services"])
				fmt.Printf("Active tasks: %v\n", services["active_tasks"])
			}
			return nil
		},
	}
}

// gatewayGet calls the local gateway API using the configured listen address.
func gatewayGet(cmd *cli.Command, path string) (map[string]any, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	host := cfg.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	url := fmt.Sprintf("http://%s:%d%s", host, cfg.Server.Port, path)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

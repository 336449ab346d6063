package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studyhall/studyhall/internal/config"
	"github.com/studyhall/studyhall/internal/llm"
	"github.com/studyhall/studyhall/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the model call log",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		calls, err := s.LLMCallRepo().ListCalls(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("list calls: %w", err)
		}

		if len(calls) == 0 {
			fmt.Println("No model calls found.")
			return nil
		}

		fmt.Printf("%-36s  %-19s  %-20s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("-", 130))

		for _, call := range calls {
			if purpose != "" && call.Purpose != purpose {
				continue
			}
			ok := "yes"
			if !call.Success {
				ok = "no"
			}
			fmt.Printf("%-36s  %-19s  %-20s  %-28s  %-6d  %-6d  %-7d  %s\n",
				call.ID,
				call.CreatedAt.Format("2006-01-02 15:04:05"),
				call.Purpose,
				call.Model,
				call.InputTokens,
				call.OutputTokens,
				call.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one model call in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		call, err := s.LLMCallRepo().GetCall(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("get call: %w", err)
		}
		if call == nil {
			return fmt.Errorf("no call with id %s", args[0])
		}

		fmt.Printf("ID:        %s\n", call.ID)
		fmt.Printf("Timestamp: %s\n", call.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Purpose:   %s\n", call.Purpose)
		fmt.Printf("Model:     %s\n", call.Model)
		fmt.Printf("Tokens:    %d in / %d out\n", call.InputTokens, call.OutputTokens)
		fmt.Printf("Latency:   %dms\n", call.LatencyMs)
		fmt.Printf("Success:   %t\n", call.Success)
		if call.ErrorMessage != "" {
			fmt.Printf("Error:     %s\n", call.ErrorMessage)
		}
		if cost := llm.LookupCost(call.Model); cost != nil {
			fmt.Printf("Cost:      $%.6f\n", cost.Cost(call.InputTokens, call.OutputTokens))
		}
		fmt.Println("\n--- Request ---")
		fmt.Println(call.RequestBody)
		fmt.Println("--- Response ---")
		fmt.Println(call.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate token usage and cost by purpose and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		repo := s.LLMCallRepo()

		byPurpose, err := repo.UsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("usage by purpose: %w", err)
		}
		byModel, err := repo.UsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("usage by model: %w", err)
		}

		fmt.Println("By purpose:")
		fmt.Printf("  %-24s  %-8s  %-10s  %s\n", "Purpose", "Calls", "In", "Out")
		for _, u := range byPurpose {
			fmt.Printf("  %-24s  %-8d  %-10d  %d\n", u.Purpose, u.Calls, u.InputTokens, u.OutputTokens)
		}

		fmt.Println("\nBy model:")
		fmt.Printf("  %-28s  %-8s  %-10s  %-10s  %s\n", "Model", "Calls", "In", "Out", "Cost")
		for _, u := range byModel {
			costLabel := "n/a"
			if cost := llm.LookupCost(u.Model); cost != nil {
				costLabel = fmt.Sprintf("$%.4f", cost.Cost(int(u.InputTokens), int(u.OutputTokens)))
			}
			fmt.Printf("  %-28s  %-8d  %-10d  %-10d  %s\n", u.Model, u.Calls, u.InputTokens, u.OutputTokens, costLabel)
		}
		return nil
	},
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg := config.FromEnv()
	if dsn, _ := cmd.Flags().GetString("db"); dsn != "" {
		cfg.Store.DSN = dsn
	}
	s, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func init() {
	llmListCmd.Flags().Int("limit", 20, "Maximum number of calls to show")
	llmListCmd.Flags().String("purpose", "", "Filter by purpose")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}

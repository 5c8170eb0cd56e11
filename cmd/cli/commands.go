package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

var (
	leaderboardSort   string
	leaderboardLimit  int
	leaderboardFormat string
	battleFormat      string
	battleDelay       int
)

func init() {
	leaderboardCmd.Flags().StringVar(&leaderboardSort, "sort", "rating", "Sort key (rating, wins, win_rate, total_matches)")
	leaderboardCmd.Flags().IntVar(&leaderboardLimit, "limit", 0, "Maximum number of entries (0 for all)")
	leaderboardCmd.Flags().StringVar(&leaderboardFormat, "format", "", "Scope standings to a battle format")
	statsCmd.Flags().StringVar(&leaderboardFormat, "format", "", "Scope statistics to a battle format")
	startBattleCmd.Flags().StringVar(&battleFormat, "format", "", "Battle format (server default if empty)")
	scheduleBattleCmd.Flags().StringVar(&battleFormat, "format", "", "Battle format (server default if empty)")
	scheduleBattleCmd.Flags().IntVar(&battleDelay, "delay", 0, "Delay in minutes before the cycle starts")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(startBattleCmd)
	rootCmd.AddCommand(scheduleBattleCmd)
	rootCmd.AddCommand(toggleAutoCmd)
	rootCmd.AddCommand(countersCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the current standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		params.Set("sort", leaderboardSort)
		if leaderboardLimit > 0 {
			params.Set("limit", fmt.Sprint(leaderboardLimit))
		}
		if leaderboardFormat != "" {
			params.Set("format", leaderboardFormat)
		}
		return performGetRequest("/api/leaderboard?" + params.Encode())
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate battle statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/api/stats"
		if leaderboardFormat != "" {
			endpoint += "?format=" + url.QueryEscape(leaderboardFormat)
		}
		return performGetRequest(endpoint)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the scheduler status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/battle-status")
	},
}

var startBattleCmd = &cobra.Command{
	Use:   "start-battle",
	Short: "Trigger an immediate battle cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/api/start-battle", fmt.Sprintf(`{"format":%q}`, battleFormat))
	},
}

var scheduleBattleCmd = &cobra.Command{
	Use:   "schedule-battle",
	Short: "Schedule a battle cycle after a delay",
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"format":%q,"delayMinutes":%d}`, battleFormat, battleDelay)
		return performPostRequest("/api/schedule-battle", body)
	},
}

var toggleAutoCmd = &cobra.Command{
	Use:   "toggle-auto-schedule",
	Short: "Flip the automatic scheduling switch",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/api/toggle-auto-schedule", "")
	},
}

var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Show the persisted lifetime counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/counters")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint, body string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/hotline/internal/types"
)

func init() {
	rootCmd.AddCommand(callsCmd)
	callsCmd.Flags().Int("days", 1, "lookback window in days")
	callsCmd.Flags().String("addr", "http://localhost:5000", "address of the running daemon")
}

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "List archived call records from the running daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		addr, _ := cmd.Flags().GetString("addr")

		url := fmt.Sprintf("%s/api/calls?days=%d", addr, days)
		resp, err := http.Get(url)
		if err != nil {
			return fmt.Errorf("query daemon: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("query daemon: status %d", resp.StatusCode)
		}

		var records []types.CallRecord
		if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
			return fmt.Errorf("decode records: %w", err)
		}

		if len(records) == 0 {
			fmt.Fprintln(os.Stdout, "No calls in the selected window.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCALLER\tTIME\tDURATION\tTOPIC")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d min\t%s\n",
				rec.ID, rec.Caller, rec.Time.Format(time.RFC3339), rec.Duration, rec.Topic)
		}
		return w.Flush()
	},
}

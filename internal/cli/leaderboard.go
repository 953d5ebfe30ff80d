package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"literary-flow/internal/config"
	"literary-flow/internal/content"
	"literary-flow/internal/domain"
)

// NewLeaderboardCmd prints the leaderboard from the configured backend.
func NewLeaderboardCmd(configPath *string) *cobra.Command {
	var (
		bankID string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the best results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeaderboard(cmd.Context(), *configPath, bankID, limit, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&bankID, "bank", "", "question bank id (defaults to config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "rows to print (defaults to config)")
	return cmd
}

func runLeaderboard(ctx context.Context, configPath, bankID string, limit int, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	initLogger(cfg.Log.Level, cfg.Log.Format)

	st, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	if bankID == "" {
		bankID = cfg.BankID(content.DefaultBankID)
	}
	if limit <= 0 {
		limit = cfg.LeaderboardLimit()
	}
	entries, err := st.board.FetchLeaderboard(ctx, bankID, limit)
	if err != nil {
		return err
	}
	return printLeaderboard(out, entries)
}

func printLeaderboard(out io.Writer, entries []domain.LeaderboardEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "no results yet")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tCLASS\tSCORE\tSTATUS\tTIME")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", i+1, e.Name, e.ClassName, e.Score, e.Status,
			e.Timestamp.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}


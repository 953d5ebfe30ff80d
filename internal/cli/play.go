package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"literary-flow/internal/config"
	"literary-flow/internal/content"
	"literary-flow/internal/domain"
	"literary-flow/internal/game"
	"literary-flow/internal/infra/logger"
	"literary-flow/internal/sound"
	"literary-flow/internal/tui"
)

// NewPlayCmd runs the game in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		name, className, bankID string
		mute                    bool
		volume                  float64
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal (mouse required)",
		RunE: func(cmd *cobra.Command, args []string) error {
			player := domain.Player{ID: uuid.NewString(), Name: name, ClassName: className}
			if err := player.Validate(); err != nil {
				return fmt.Errorf("%w (use --name and --class)", err)
			}
			return runPlay(cmd.Context(), *configPath, playOptions{
				player: player,
				bankID: bankID,
				mute:   mute,
				volume: volume,
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", os.Getenv("USER"), "player name shown on the leaderboard")
	cmd.Flags().StringVar(&className, "class", "", "class name shown on the leaderboard")
	cmd.Flags().StringVar(&bankID, "bank", "", "question bank id (defaults to config)")
	cmd.Flags().BoolVar(&mute, "mute", false, "disable sound")
	cmd.Flags().Float64Var(&volume, "volume", 0.8, "sound volume between 0 and 1")
	return cmd
}

type playOptions struct {
	player domain.Player
	bankID string
	mute   bool
	volume float64
}

func runPlay(ctx context.Context, configPath string, opts playOptions) error {
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

	bankID := opts.bankID
	if bankID == "" {
		bankID = cfg.BankID(content.DefaultBankID)
	}
	bank, err := st.banks.GetBank(ctx, bankID)
	if err != nil {
		return fmt.Errorf("load bank %s: %w", bankID, err)
	}

	var player game.SoundPlayer = sound.Silent{}
	if !opts.mute {
		speaker := sound.NewSpeaker(opts.volume)
		if err := speaker.Init(); err != nil {
			slog.Warn("audio unavailable, playing muted", "err", err)
		} else {
			defer speaker.Close()
			player = speaker
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	// The screen owns the terminal from here on.
	logger.Discard()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	g := tui.New(screen, tui.Options{
		Bank:        bank,
		Rules:       cfg.Rules(),
		Player:      opts.player,
		Sound:       player,
		Reporter:    st.reporter,
		Leaderboard: st.board,
	})
	return g.Run(ctx)
}

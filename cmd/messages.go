package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/cli"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/sanitize"
)

var flagSessionLimit int

var messagesCmd = &cobra.Command{
	Use:   "messages [session]",
	Short: "Guest conversations with internal traces removed",
	Long:  "Without a session id, lists sessions. With one, prints its cleaned transcript.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMessages,
}

func init() {
	messagesCmd.Flags().IntVarP(&flagSessionLimit, "limit", "l", 20, "Number of sessions to list (0 for all)")
	rootCmd.AddCommand(messagesCmd)
}

func runMessages(_ *cobra.Command, args []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	history := sanitize.CleanHistory(result.Messages)
	if len(args) == 1 {
		return printTranscript(history, args[0])
	}

	sessions := sanitize.Sessions(history)
	if len(sessions) == 0 {
		fmt.Println("\n  No guest conversations found.")
		return nil
	}
	if flagSessionLimit > 0 && len(sessions) > flagSessionLimit {
		sessions = sessions[:flagSessionLimit]
	}

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		last := cli.Placeholder
		if !s.LastMessage.IsZero() {
			last = humanize.Time(s.LastMessage)
		}
		rows = append(rows, []string{
			s.ID,
			cli.FormatNumber(int64(s.Messages)),
			cli.FormatNumber(int64(s.GuestTurns)),
			last,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("CONVERSATIONS  %s", result.TenantID),
		Headers: []string{"Session", "Messages", "Guest turns", "Last active"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func printTranscript(history []model.ChatMessage, sessionID string) error {
	msgs := sanitize.FilterSession(history, sessionID)
	if len(msgs) == 0 {
		return fmt.Errorf("session %q has no guest-facing messages", sessionID)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SESSION  " + sessionID))
	fmt.Println()
	for _, m := range msgs {
		who := "Guest"
		if m.Type == model.MessageAI {
			who = "Agent"
		}
		stamp := ""
		if !m.CreatedAt.IsZero() {
			stamp = m.CreatedAt.Local().Format("Jan 02 15:04") + "  "
		}
		fmt.Printf("  %s%s\n", stamp, who)
		for _, line := range strings.Split(strings.TrimSpace(m.Content), "\n") {
			fmt.Printf("    %s\n", line)
		}
		fmt.Println()
	}
	return nil
}

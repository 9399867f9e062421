package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkSessionCmd = &cobra.Command{
	Use:   "check-session <session-id>",
	Short: "Show whether a session exists and has expired",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckSession,
}

func runCheckSession(cmd *cobra.Command, args []string) error {
	svc, err := sessionService()
	if err != nil {
		return err
	}

	check, err := svc.Check(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}

	out := cmd.OutOrStdout()
	if !check.Exists {
		fmt.Fprintf(out, "Session %s not found\n", args[0])
		return nil
	}

	s := check.Session
	fmt.Fprintf(out, "Session:   %s\n", s.ID)
	fmt.Fprintf(out, "Created:   %s\n", s.CreatedAt.Format("2006-01-02 15:04:05"))
	if s.EndedAt != nil {
		fmt.Fprintf(out, "Ended:     %s\n", s.EndedAt.Format("2006-01-02 15:04:05"))
	}
	if s.Topic != nil {
		fmt.Fprintf(out, "Topic:     %s\n", *s.Topic)
	}
	if s.CaseType != nil {
		fmt.Fprintf(out, "Case type: %s\n", *s.CaseType)
	}
	fmt.Fprintf(out, "Resolved:  %t\n", s.Resolved)
	fmt.Fprintf(out, "Expired:   %t\n", check.Expired)
	return nil
}

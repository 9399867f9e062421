package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var clearForce bool

var clearDataCmd = &cobra.Command{
	Use:   "clear-data",
	Short: "Delete every session, message, vote and feedback record",
	Long: `Delete all chat data, including live feedback state.

Requires confirmation unless --force is used.

Examples:
  supportctl clear-data
  supportctl clear-data --force`,
	Args: cobra.NoArgs,
	RunE: runClearData,
}

func init() {
	clearDataCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip confirmation")
}

func runClearData(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if !clearForce {
		fmt.Fprintf(out, "About to delete all chat data from the %s database\n", repos.Driver)
		fmt.Fprint(out, "\nContinue? [y/N]: ")

		reader := bufio.NewReader(cmd.InOrStdin())
		response, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))

		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	svc, err := sessionService()
	if err != nil {
		return err
	}
	if err := svc.ClearAll(cmd.Context()); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}

	fmt.Fprintln(out, "All chat data deleted.")
	return nil
}

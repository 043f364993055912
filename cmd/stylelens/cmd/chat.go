package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nfrund/stylelens/internal/domain"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:     "chat <message>",
	Short:   "Ask the fashion assistant a question",
	Example: `  stylelens chat "What colours go with olive?"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.TrimSpace(strings.Join(args, " "))
		if message == "" {
			return errors.New("message must not be empty")
		}
		reply, err := newClient().Chat(cmd.Context(), message)
		if err != nil || reply == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), domain.ChatFailureNotice)
			if err != nil {
				return describe(err)
			}
			return errors.New("empty reply")
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/itchan-dev/supportdesk/frontend/internal/chat"
	"github.com/itchan-dev/supportdesk/shared/domain"
)

func chatCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with support; without a message an interactive session starts",
		Long: `Without a message, lines read from stdin are sent one at a time.
"/lang xx" switches language for the rest of the session, "/quit" exits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			session := chat.NewSession(a.client, a.locale.Language, a.cfg.Public.ChatWelcome)

			if len(args) == 1 {
				reply, err := session.Send(cmd.Context(), args[0])
				printMessage(out, reply)
				return err
			}

			for _, m := range session.Messages() {
				printMessage(out, m)
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())

				switch {
				case line == "":
					continue
				case line == "/quit":
					return nil
				case strings.HasPrefix(line, "/lang "):
					if !a.locale.Set(strings.TrimPrefix(line, "/lang ")) {
						fmt.Fprintf(out, "supported languages: %s\n", strings.Join(a.locale.Supported, ", "))
						continue
					}
					session.SetLanguage(a.locale.Language)
					continue
				}

				reply, err := session.Send(cmd.Context(), line)
				if ctxErr := cmd.Context().Err(); ctxErr != nil {
					return ctxErr
				}
				if errors.Is(err, chat.ErrEmptyMessage) {
					continue
				}
				printMessage(out, reply)
			}
		},
	}
}

func printMessage(w io.Writer, m domain.ChatMessage) {
	if m.Content == "" {
		return
	}
	fmt.Fprintf(w, "[%s] %s\n", m.Role, m.Content)
}

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pryce-dev/vantage/pkg/chat"
	"github.com/pryce-dev/vantage/pkg/format"
)

var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"convos"},
	Short:   "Manage past conversations",
}

var conversationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := buildSession()
		if err != nil {
			return err
		}
		defer session.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		refs, err := session.REST.ListConversations(ctx)
		if err != nil {
			return err
		}
		if len(refs) == 0 {
			fmt.Println("No conversations yet.")
			return nil
		}
		for _, ref := range refs {
			title := ref.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Printf("%6d  %-40s  %s\n", ref.ID, title, ref.LastActivityAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var conversationsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a conversation's history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid conversation id %q", args[0])
		}

		session, err := buildSession()
		if err != nil {
			return err
		}
		defer session.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		conv, err := session.REST.GetConversation(ctx, id)
		if err != nil {
			return err
		}

		formatter := format.NewFormatter(100)
		for _, m := range conv.Messages {
			msg := chat.Message{Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt}
			fmt.Println(formatter.FormatMessage(msg))
		}
		return nil
	},
}

var conversationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid conversation id %q", args[0])
		}

		session, err := buildSession()
		if err != nil {
			return err
		}
		defer session.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := session.REST.DeleteConversation(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted conversation %d\n", id)
		return nil
	},
}

func init() {
	conversationsCmd.AddCommand(conversationsListCmd)
	conversationsCmd.AddCommand(conversationsShowCmd)
	conversationsCmd.AddCommand(conversationsDeleteCmd)
	rootCmd.AddCommand(conversationsCmd)
}

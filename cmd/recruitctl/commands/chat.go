package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-recruit-assistant/internal/config"
	"github.com/tbourn/go-recruit-assistant/internal/repo"
	"github.com/tbourn/go-recruit-assistant/internal/services"
	"github.com/tbourn/go-recruit-assistant/internal/sysutil"
)

var chatUser string

// NewChatCmd creates the interactive console chat command.
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant from the terminal",
		Long: `Start an interactive conversation with the recruitment assistant.
The transcript is persisted to the same database the server uses.
Type 'exit' to leave.`,
		RunE: runChat,
	}

	cmd.Flags().StringVar(&chatUser, "user", "console-user", "User ID the conversation belongs to")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	sysutil.SetLogLevel(cfg.Log.Level)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := repo.SeedSlots(ctx, db, cfg.SchedulePath); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: slot seeding skipped: %v\n", err)
	}

	engine := buildEngine(db, cfg)
	defer engine.Close()

	svc := services.NewConversationService(db, engine)
	conv, welcome, err := svc.Create(ctx, chatUser)
	if err != nil {
		return fmt.Errorf("open conversation: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, welcome)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		reply, err := svc.Post(ctx, chatUser, conv.ID, line)
		if err != nil {
			if errors.Is(err, services.ErrEmptyMessage) {
				continue
			}
			return fmt.Errorf("post message: %w", err)
		}
		fmt.Fprintln(out, reply.Text)
		if reply.End {
			break
		}
	}
	return scanner.Err()
}

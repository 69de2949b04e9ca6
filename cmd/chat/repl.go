package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/wolfman30/calendar-assistant/internal/conversation"
)

var (
	promptColor = color.New(color.FgCyan, color.Bold).SprintFunc()
	replyColor  = color.New(color.FgGreen).SprintFunc()
	errorColor  = color.New(color.FgRed).SprintFunc()
	dimColor    = color.New(color.FgHiBlack).SprintFunc()
)

const replHelp = `Commands:
  /bookings   list the bookings turns are checked against
  /history    show this conversation
  /help       show this help
  exit        leave`

type repl struct {
	turns          conversation.TurnHandler
	conversationID string
	out            io.Writer
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(r.out, dimColor("Type a request like \"Book a call tomorrow at 3pm\". /help for commands."))
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, promptColor("you> "))
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "/help":
			fmt.Fprintln(r.out, replHelp)
		case "/bookings":
			r.printBookings(ctx)
		case "/history":
			r.printHistory(ctx)
		default:
			if err := r.turn(ctx, line); err != nil {
				fmt.Fprintln(r.out, errorColor("error: "+err.Error()))
			}
		}
	}
}

func (r *repl) turn(ctx context.Context, text string) error {
	resp, err := r.turns.HandleMessage(ctx, conversation.MessageRequest{
		ConversationID: r.conversationID,
		Message:        text,
		Source:         "cli",
	})
	if err != nil {
		if errors.Is(err, conversation.ErrEmptyMessage) {
			return nil
		}
		return err
	}
	r.conversationID = resp.ConversationID
	fmt.Fprintln(r.out, replyColor(resp.Message))
	return nil
}

func (r *repl) printBookings(ctx context.Context) {
	list, err := r.turns.Bookings(ctx)
	if err != nil {
		fmt.Fprintln(r.out, errorColor("error: "+err.Error()))
		return
	}
	if len(list) == 0 {
		fmt.Fprintln(r.out, dimColor("no bookings"))
		return
	}
	for _, b := range list {
		fmt.Fprintf(r.out, "%s  %s-%s  %s\n", b.Start.Format("Mon Jan 02"), b.Start.Format("15:04"), b.End.Format("15:04"), b.Title)
	}
}

func (r *repl) printHistory(ctx context.Context) {
	if r.conversationID == "" {
		fmt.Fprintln(r.out, dimColor("no messages yet"))
		return
	}
	msgs, err := r.turns.History(ctx, r.conversationID, 0)
	if err != nil {
		fmt.Fprintln(r.out, errorColor("error: "+err.Error()))
		return
	}
	for _, m := range msgs {
		fmt.Fprintf(r.out, "[%s] %s\n", m.Role, m.Body)
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - Interactive REPL loop for asked.
//
// Interactive Commands:
//   /help, /h           Show available commands
//   /new                Start a new conversation
//   /list, /l           List conversations (newest first)
//   /switch N           Switch to conversation N from /list
//   /delete [N]         Delete conversation N (default: current)
//   /clear              Delete all conversations
//   /name NAME          Set your display name
//   /key                Set the OpenRouter API key (hidden input)
//   /key clear          Remove the stored API key
//   /wiki QUESTION      Send with encyclopedia enrichment
//   /deep QUESTION      Send asking for extended reasoning
//   /quit, /q           Exit
//   Ctrl+C              Cancel the pending request

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"

	"github.com/jeranaias/asked/internal/engine"
	"github.com/jeranaias/asked/internal/model"
	"github.com/jeranaias/asked/internal/openrouter"
	"github.com/jeranaias/asked/internal/store"
)

// disclaimer is printed under every assistant reply.
const disclaimer = "AskEd can make errors, please double check the information."

// REPL drives the interactive session.
type REPL struct {
	store    *store.Store
	settings *store.Settings
	engine   *engine.Engine
	input    *Input
	log      zerolog.Logger
}

// New creates a REPL over the given components.
func New(st *store.Store, settings *store.Settings, eng *engine.Engine, dataDir string, log zerolog.Logger) *REPL {
	return &REPL{
		store:    st,
		settings: settings,
		engine:   eng,
		input:    NewInput(dataDir),
		log:      log,
	}
}

// Run executes the REPL until the user quits. Ctrl+C cancels the pending
// request for the active conversation; at the prompt it exits.
func (r *REPL) Run() error {
	defer r.input.Close()

	if _, ok := r.store.Active(); !ok {
		r.store.Create()
	}

	r.printWelcome()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if id, ok := r.store.Active(); ok && r.engine.Cancel(id) {
				fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[Cancelled]"))
			}
		}
	}()

	for {
		input, err := r.input.Read(promptStyle.Render("asked> "))
		if err != nil {
			// Ctrl+C at the prompt or EOF (Ctrl+D) both exit gracefully.
			if err == liner.ErrPromptAborted {
				fmt.Println()
				return nil
			}
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			quit, err := r.handleCommand(input)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			}
			if quit {
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			return nil
		}

		r.send(input, engine.SendOptions{})
	}
}

// =============================================================================
// SENDING
// =============================================================================

// send dispatches one message for the active conversation and renders the
// outcome. It blocks until the send concludes; the signal goroutine can
// cancel it from the side.
func (r *REPL) send(text string, opts engine.SendOptions) {
	id, ok := r.store.Active()
	if !ok {
		id = r.store.Create()
	}

	outcome, err := r.engine.Send(context.Background(), id, text, opts)
	if err != nil {
		switch outcome.Category {
		case engine.CategoryMissingCredential:
			fmt.Fprintln(os.Stderr, errorStyle.Render("[API key required]")+
				" Set one with /key or the ASKED_OPENROUTER_KEY environment variable.")
		default:
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		}
		return
	}

	switch outcome.Category {
	case engine.CategoryCancelled:
		// The signal handler already printed the cancellation notice.
		return
	case engine.CategoryOK:
	default:
		label := outcome.Category.String()
		if outcome.Detail != "" {
			label += ": " + outcome.Detail
		}
		fmt.Fprintln(os.Stderr, warningStyle.Render("["+label+"]"))
	}

	fmt.Println()
	fmt.Println(assistantStyle.Render(outcome.Reply))
	fmt.Println(footerStyle.Render(disclaimer))
	fmt.Println()
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleCommand dispatches a slash command. Returns true when the REPL
// should exit.
func (r *REPL) handleCommand(input string) (bool, error) {
	parts := strings.SplitN(input, " ", 2)
	cmd := strings.ToLower(parts[0])
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}

	switch cmd {
	case "/help", "/h":
		r.printHelp()

	case "/new":
		r.store.Create()
		fmt.Println(infoStyle.Render("Started a new conversation."))

	case "/list", "/l":
		r.printList()

	case "/switch":
		conv, err := r.conversationAt(arg)
		if err != nil {
			return false, err
		}
		if err := r.store.SetActive(conv.ID); err != nil {
			return false, err
		}
		fmt.Println(infoStyle.Render("Switched to: " + conv.Title))

	case "/delete":
		return false, r.deleteConversation(arg)

	case "/clear":
		r.store.ClearAll()
		r.store.Create()
		fmt.Println(infoStyle.Render("All conversations deleted."))

	case "/name":
		if arg == "" {
			if name := r.settings.Username(); name != "" {
				fmt.Println(infoStyle.Render("Current name: " + name))
			} else {
				fmt.Println(infoStyle.Render("No name set. Use /name YOURNAME."))
			}
			return false, nil
		}
		if err := r.settings.SetUsername(arg); err != nil {
			return false, err
		}
		fmt.Println(infoStyle.Render("Hello, " + arg + "!"))

	case "/key":
		return false, r.handleKey(arg)

	case "/wiki":
		if arg == "" {
			return false, fmt.Errorf("usage: /wiki QUESTION")
		}
		r.send(arg, engine.SendOptions{Enrich: true})

	case "/deep":
		if arg == "" {
			return false, fmt.Errorf("usage: /deep QUESTION")
		}
		r.send(arg, engine.SendOptions{Deep: true})

	case "/quit", "/q":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
	return false, nil
}

// handleKey sets, shows, or clears the stored API key.
func (r *REPL) handleKey(arg string) error {
	switch strings.ToLower(arg) {
	case "clear":
		if err := r.settings.ClearAPIKey(); err != nil {
			return err
		}
		fmt.Println(infoStyle.Render("API key removed."))
		return nil

	case "":
		key, err := ReadSecret("OpenRouter API key (input hidden): ")
		if err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("no key entered")
		}
		if !openrouter.ValidateAPIKey(key) {
			fmt.Fprintln(os.Stderr, warningStyle.Render("[Warning]")+
				" Key does not look like an OpenRouter key (sk-or-...). Storing anyway.")
		}
		if err := r.settings.SetAPIKey(key); err != nil {
			return err
		}
		fmt.Println(infoStyle.Render("API key stored."))
		return nil

	default:
		return fmt.Errorf("usage: /key or /key clear")
	}
}

// deleteConversation removes the conversation at the given /list position,
// or the active one when no position is given.
func (r *REPL) deleteConversation(arg string) error {
	var id string
	if arg == "" {
		active, ok := r.store.Active()
		if !ok {
			return fmt.Errorf("no active conversation")
		}
		id = active
	} else {
		conv, err := r.conversationAt(arg)
		if err != nil {
			return err
		}
		id = conv.ID
	}

	if err := r.store.Delete(id); err != nil {
		return err
	}
	if _, ok := r.store.Active(); !ok {
		r.store.Create()
	}
	fmt.Println(infoStyle.Render("Conversation deleted."))
	return nil
}

// conversationAt resolves a 1-based /list position.
func (r *REPL) conversationAt(arg string) (*model.Conversation, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("expected a conversation number from /list")
	}
	snap := r.store.Snapshot()
	if n < 1 || n > len(snap) {
		return nil, fmt.Errorf("no conversation %d (have %d)", n, len(snap))
	}
	return snap[n-1], nil
}

// =============================================================================
// OUTPUT
// =============================================================================

func (r *REPL) printWelcome() {
	fmt.Println(welcomeStyle.Render("AskEd") + infoStyle.Render(" - your study assistant"))
	name := r.settings.Username()
	if name == "" {
		name = "there"
	}
	fmt.Println(infoStyle.Render("Hello, " + name + "! Ask a question, or /help for commands."))
	fmt.Println()
}

type helpItem struct{ cmd, desc string }

func helpItems() []helpItem {
	return []helpItem{
		{"/new", "Start a new conversation"},
		{"/list", "List conversations (newest first)"},
		{"/switch N", "Switch to conversation N"},
		{"/delete [N]", "Delete conversation N (default: current)"},
		{"/clear", "Delete all conversations"},
		{"/name NAME", "Set your display name"},
		{"/key", "Set the OpenRouter API key (hidden input)"},
		{"/key clear", "Remove the stored API key"},
		{"/wiki QUESTION", "Send with encyclopedia enrichment"},
		{"/deep QUESTION", "Send asking for extended reasoning"},
		{"/quit", "Exit"},
	}
}

func (r *REPL) printHelp() {
	for _, it := range helpItems() {
		fmt.Printf("  %s %s\n", commandStyle.Render(fmt.Sprintf("%-16s", it.cmd)), infoStyle.Render(it.desc))
	}
	fmt.Println(infoStyle.Render("  Ctrl+C cancels a pending request; at the prompt it exits."))
}

func (r *REPL) printList() {
	snap := r.store.Snapshot()
	if len(snap) == 0 {
		fmt.Println(infoStyle.Render("No conversations yet. Just ask a question."))
		return
	}
	active, _ := r.store.Active()
	for i, conv := range snap {
		marker := " "
		if conv.ID == active {
			marker = "*"
		}
		line := fmt.Sprintf("%s %2d. %s (%d messages)", marker, i+1, conv.Title, conv.MessageCount())
		fmt.Println(infoStyle.Render(line))
	}
}

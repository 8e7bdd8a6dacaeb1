package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ollamate/ollamate/internal/chat"
	"github.com/ollamate/ollamate/internal/config"
	"github.com/ollamate/ollamate/internal/ollama"
	"github.com/ollamate/ollamate/internal/tools"
)

// clipboardToken in a prompt expands to the clipboard contents.
const clipboardToken = "::CL::"

func runChat(ctx context.Context, prompt string) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, err := ollama.LoadCatalog(ctx, client)
	if err != nil {
		if errors.Is(err, ollama.ErrUnavailable) {
			printError("ollama is not reachable; is the server running?")
		}
		return err
	}

	name := flagModel
	if name == "" {
		name = cfg.Chat.Model
	}
	if name != "" {
		if err := catalog.Select(name); err != nil {
			return err
		}
	}

	registry := tools.NewRegistry()
	if err := tools.RegisterDefaults(registry); err != nil {
		return err
	}

	session := chat.NewSession(catalog.Active(), registry)
	eng := chat.NewEngine(client, slog.Default())
	eng.FollowUp = cfg.Chat.FollowUp && !flagNoFollow
	eng.OnDelta = func(delta string) { fmt.Print(delta) }

	slog.Info("session started", "session", session.ID(), "model", session.Model())

	if prompt != "" {
		return runOnce(ctx, eng, session, cfg, prompt)
	}
	return runInteractive(ctx, eng, session, cfg)
}

func runOnce(ctx context.Context, eng *chat.Engine, s *chat.Session, cfg config.Config, input string) error {
	prompt, pager := parsePrompt(input)

	res, err := eng.Converse(ctx, s, prompt)
	if err != nil {
		return err
	}
	fmt.Println()

	return finishTurn(res.Text, cfg, pager)
}

func runInteractive(ctx context.Context, eng *chat.Engine, s *chat.Session, cfg config.Config) error {
	printStatus("Model", "%s", s.Model())
	printStatus("Exit", "/quit, /exit, or Ctrl-D")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		// A signal may have landed while the last prompt was open.
		if ctx.Err() != nil {
			return nil
		}

		fmt.Print(userPrompt())
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/quit" || input == "/exit" {
			return nil
		}

		prompt, pager := parsePrompt(input)

		fmt.Print(assistantPrompt())
		res, err := eng.Converse(ctx, s, prompt)
		if err != nil {
			fmt.Println()
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, ollama.ErrUnavailable) {
				printError("ollama is not reachable: %v", err)
			} else {
				printError("turn failed: %v", err)
			}
			// The session history is still consistent; keep going.
			continue
		}
		fmt.Println()

		if err := finishTurn(res.Text, cfg, pager); err != nil {
			printWarning("%v", err)
		}
	}
}

// parsePrompt interprets chat input: a leading "!" forces the pager for
// this reply, and the clipboard token expands to the clipboard text.
func parsePrompt(input string) (prompt string, pager bool) {
	prompt = input
	if strings.HasPrefix(prompt, "!") {
		pager = true
		prompt = strings.TrimSpace(strings.TrimPrefix(prompt, "!"))
	}
	if strings.Contains(prompt, clipboardToken) {
		if clip, err := readClipboard(); err != nil {
			slog.Warn("clipboard read failed, token left in place", "error", err)
		} else {
			prompt = strings.ReplaceAll(prompt, clipboardToken, clip)
		}
	}
	return prompt, pager
}

// finishTurn applies post-reply actions: optional clipboard copy and
// optional markdown pager.
func finishTurn(text string, cfg config.Config, pager bool) error {
	if text == "" {
		return nil
	}
	if flagCopy || cfg.Chat.Copy {
		if err := writeClipboard(text); err != nil {
			slog.Warn("clipboard write failed", "error", err)
		}
	}
	if pager || flagMarkdown || cfg.Chat.Markdown {
		return showMarkdown(text)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nicolagi/tactbot/internal/compiler"
	"golang.org/x/sync/errgroup"
)

const (
	greeting = "Hello! You can:\n" +
		"1. Send me a .tact file\n" +
		"2. Use /build command with code in ``` ``` block\n" +
		"3. Use /history to see your latest builds"

	sourceFileExt  = ".tact"
	contractPrefix = "contract"
	historyLength  = 10
)

// bot handles chat messages. All fields but reports are required.
type bot struct {
	api       telegram
	compiler  compiler.Compiler
	stdlib    compiler.Library
	history   *history
	reports   *reportServer
	client    *http.Client
	maxSource int
	timeout   time.Duration
	now       func() time.Time
}

// serve handles updates until the channel is closed or ctx is done, running
// at most workers handlers at once. It returns when all handlers returned.
// Canceling ctx does not interrupt handlers already running.
func (b *bot) serve(ctx context.Context, updates <-chan tgbotapi.Update, workers int) {
	handlerCtx := context.WithoutCancel(ctx)
	var g errgroup.Group
	g.SetLimit(workers)
	defer func() { _ = g.Wait() }()
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			msg := update.Message
			if msg == nil || msg.Chat == nil {
				continue
			}
			g.Go(func() error {
				b.handle(handlerCtx, msg)
				return nil
			})
		}
	}
}

func (b *bot) handle(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Document != nil {
		b.handleDocument(ctx, msg)
		return
	}
	if !msg.IsCommand() {
		return
	}
	switch msg.Command() {
	case "start", "help":
		b.reply(msg, greeting)
	case "build":
		b.handleBuild(ctx, msg)
	case "history":
		b.handleHistory(msg)
	default:
		slog.Debug("Unhandled command",
			slog.String("command", msg.Command()),
			slog.Int64("chat", msg.Chat.ID))
	}
}

func (b *bot) handleBuild(ctx context.Context, msg *tgbotapi.Message) {
	text := stripFences(strings.TrimSpace(msg.CommandArguments()))
	switch {
	case text == "":
		b.reply(msg, "Please provide the contract code after /build command")
	case !strings.HasPrefix(text, contractPrefix):
		b.reply(msg, `The code should start with "contract" keyword`)
	default:
		b.build(ctx, msg, sourceInline, "", text)
	}
}

func (b *bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	doc := msg.Document
	if !strings.HasSuffix(doc.FileName, sourceFileExt) {
		b.reply(msg, "Please send a .tact file")
		return
	}
	if doc.FileSize > b.maxSource {
		b.reply(msg, "Error processing file: "+errTooLarge{limit: b.maxSource}.Error())
		return
	}
	source, err := b.fetch(ctx, doc.FileID)
	if err != nil {
		slog.Warn("Could not fetch document",
			slog.String("file", doc.FileName),
			slog.Int64("chat", msg.Chat.ID),
			slog.Any("error", err))
		b.reply(msg, "Error processing file: "+err.Error())
		return
	}
	b.build(ctx, msg, sourceFile, doc.FileName, source)
}

func (b *bot) fetch(ctx context.Context, fileID string) (string, error) {
	link, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", err
	}
	content, err := download(ctx, b.client, link, b.maxSource)
	if err != nil {
		// The link carries the bot token.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return "", err
	}
	return decodeSource(content)
}

func (b *bot) handleHistory(msg *tgbotapi.Message) {
	records, err := b.history.recent(msg.Chat.ID, historyLength)
	if err != nil {
		slog.Error("Could not read history",
			slog.Int64("chat", msg.Chat.ID),
			slog.Any("error", err))
		b.reply(msg, "Could not read the build history")
		return
	}
	b.reply(msg, formatHistory(records))
}

func (b *bot) build(ctx context.Context, msg *tgbotapi.Message, kind sourceKind, fileName, source string) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	output, err := compiler.Compile(ctx, b.compiler, b.stdlib, source)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("Build timed out",
			slog.Int64("chat", msg.Chat.ID),
			slog.Duration("timeout", b.timeout))
		b.reply(msg, fmt.Sprintf("⏱ The build did not finish within %s. Please try again later.", b.timeout))
		return
	case errors.Is(err, context.Canceled):
		slog.Warn("Build aborted",
			slog.Int64("chat", msg.Chat.ID))
		b.reply(msg, "The build was aborted. Please try again later.")
		return
	}
	var verdict string
	if err != nil {
		verdict = "❌ " + compiler.Diagnose(err).String()
	} else {
		verdict = "✅ " + output
	}
	slog.Info("Build finished",
		slog.Int64("chat", msg.Chat.ID),
		slog.String("source", string(kind)),
		slog.Bool("ok", err == nil),
		slog.Duration("duration", time.Since(start)))
	b.reply(msg, verdict)

	r := &buildRecord{
		ChatID:   msg.Chat.ID,
		When:     b.now(),
		Sender:   sender(msg),
		Kind:     kind,
		FileName: fileName,
		OK:       err == nil,
		Verdict:  verdict,
	}
	if err := b.history.save(r); err != nil {
		slog.Error("Could not save build",
			slog.Int64("chat", msg.Chat.ID),
			slog.Any("error", err))
		return
	}
	if b.reports != nil {
		b.reports.add(r)
	}
}

func (b *bot) reply(msg *tgbotapi.Message, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, truncate(text, maxMessageRunes))); err != nil {
		slog.Error("Could not send message",
			slog.Int64("chat", msg.Chat.ID),
			slog.Any("error", err))
	}
}

func sender(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return ""
	}
	if msg.From.UserName != "" {
		return msg.From.UserName
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s", msg.From.FirstName, msg.From.LastName))
}

// stripFences removes a surrounding ``` block, along with its language tag.
func stripFences(text string) string {
	body, ok := strings.CutPrefix(text, "```")
	if !ok {
		return text
	}
	body, _ = strings.CutSuffix(body, "```")
	if first, rest, ok := strings.Cut(body, "\n"); ok && !strings.ContainsAny(first, " \t{") {
		body = rest
	}
	return strings.TrimSpace(body)
}

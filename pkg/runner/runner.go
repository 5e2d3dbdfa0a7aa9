package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/stockcheck"
	"github.com/aretw0/stockcheck/internal/logging"
	"github.com/aretw0/stockcheck/pkg/domain"
)

// DefaultConversationID is used when no conversation ID is configured.
const DefaultConversationID = "terminal"

// Conversation handles one inbound message.
type Conversation interface {
	Handle(ctx context.Context, conversationID, text string) (stockcheck.Reply, error)
}

// ContentRenderer transforms a report before it is written.
// This allows TUI rendering (markdown to ANSI) without coupling this package.
type ContentRenderer func(domain.Report) (string, error)

// Runner reads operator lines from Input and writes replies to Output.
type Runner struct {
	Input  io.Reader
	Output io.Writer

	conversationID string
	prompt         string
	renderer       ContentRenderer
	sanitizer      Sanitizer
	logger         *slog.Logger
}

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithConversationID sets the conversation the terminal speaks as.
func WithConversationID(id string) Option {
	return func(r *Runner) {
		r.conversationID = id
	}
}

// WithPrompt sets the input marker printed before each read. Empty disables it.
func WithPrompt(prompt string) Option {
	return func(r *Runner) {
		r.prompt = prompt
	}
}

// WithRenderer configures the report renderer.
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.renderer = renderer
	}
}

// WithSanitizer replaces the default input sanitizer.
func WithSanitizer(s Sanitizer) Option {
	return func(r *Runner) {
		r.sanitizer = s
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// New creates a Runner over the given streams.
func New(in io.Reader, out io.Writer, opts ...Option) *Runner {
	r := &Runner{
		Input:          in,
		Output:         out,
		conversationID: DefaultConversationID,
		prompt:         "> ",
		sanitizer:      DefaultSanitizer(),
		logger:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type line struct {
	text string
	err  error
}

// Run reads lines until EOF, "exit"/"quit", or ctx cancellation.
// While a run is collecting, "exit" and "quit" are answers like any other text.
// Rejected input and failed messages are reported to the operator and the loop continues.
func (r *Runner) Run(ctx context.Context, conv Conversation) error {
	lines := make(chan line)
	done := make(chan struct{})
	defer close(done)
	go r.pump(lines, done)

	phase := stockcheck.PhaseIdle
	for {
		r.printPrompt()

		var in line
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in = <-lines:
		}
		if in.err != nil {
			if errors.Is(in.err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", in.err)
		}

		text, err := r.sanitizer.Clean(strings.TrimRight(in.text, "\r\n"))
		if err != nil {
			r.logger.Warn("Rejected input", "err", err)
			fmt.Fprintf(r.Output, "Ввод отклонён: %v\n", err)
			continue
		}
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		if phase != stockcheck.PhaseCollecting && (trimmed == "exit" || trimmed == "quit") {
			return nil
		}

		reply, err := conv.Handle(ctx, r.conversationID, text)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Error("Message failed", "conversation_id", r.conversationID, "err", err)
			fmt.Fprintf(r.Output, "Ошибка: %v\n", err)
			continue
		}
		phase = reply.Phase
		r.write(reply)
	}
}

func (r *Runner) pump(lines chan<- line, done <-chan struct{}) {
	reader := bufio.NewReader(r.Input)
	for {
		text, err := reader.ReadString('\n')
		if text != "" {
			select {
			case lines <- line{text: text}:
			case <-done:
				return
			}
		}
		if err != nil {
			select {
			case lines <- line{err: err}:
			case <-done:
			}
			return
		}
	}
}

func (r *Runner) printPrompt() {
	if r.prompt != "" {
		fmt.Fprint(r.Output, r.prompt)
	}
}

func (r *Runner) write(reply stockcheck.Reply) {
	output := reply.Text
	if reply.Report != nil && r.renderer != nil {
		rendered, err := r.renderer(*reply.Report)
		if err != nil {
			r.logger.Warn("Renderer failed, using plain text", "err", err)
		} else {
			output = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimRight(output, "\n"))
}

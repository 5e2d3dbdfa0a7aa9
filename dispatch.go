package stockcheck

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/stockcheck/internal/runtime"
	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/aretw0/stockcheck/pkg/report"
)

// Commands recognised by Handle.
const (
	CommandStart = "start"
	CommandCount = "count"
)

// Canned replies.
const (
	GreetingText    = "Бот учёта остатков.\nКоманда: /count"
	IdleHintText    = "Учёт не запущен.\nКоманда: /count"
	RetryText       = "Не удалось сохранить значение, попробуйте ещё раз."
	UnavailableText = "Хранилище недоступно, попробуйте позже."
)

// Phase is the conversation state after a message has been handled.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseCollecting Phase = "collecting"
)

// Reply is what a transport sends back to the operator.
type Reply struct {
	Text   string
	Phase  Phase
	Prompt *domain.Prompt
	Report *domain.Report
	// Done is set on the message that completed a run.
	Done bool
	// Failed is set when the value store rejected the operation.
	// The pending prompt, if any, is unchanged and the operator may resend.
	Failed bool
}

// Handle processes one inbound message for a conversation.
//
// Commands take precedence: /start greets, /count (re)starts a run from the
// first item. While collecting, every other text is an answer; the skip token
// keeps the previous value and anything else, unknown commands included, is
// stored verbatim. While idle, other text gets a hint.
//
// Value store failures are reported in the Reply with Failed set and a nil error.
// Other failures are returned as errors.
func (a *App) Handle(ctx context.Context, conversationID, text string) (Reply, error) {
	if conversationID == "" {
		return Reply{}, errors.New("conversation id is required")
	}

	var reply Reply
	err := a.sessions.WithLock(ctx, conversationID, func(ctx context.Context) error {
		var err error
		switch command(text) {
		case CommandStart:
			reply, err = a.greet(ctx, conversationID)
		case CommandCount:
			reply, err = a.start(ctx, conversationID)
		default:
			reply, err = a.answer(ctx, conversationID, text)
		}
		return err
	})
	if err != nil {
		a.logger.Error("Failed to handle message", "conversation_id", conversationID, "err", err)
		return Reply{}, err
	}
	return reply, nil
}

func (a *App) greet(ctx context.Context, conversationID string) (Reply, error) {
	active, err := a.sessions.Active(ctx, conversationID)
	if err != nil {
		return Reply{}, err
	}
	reply := Reply{Text: GreetingText, Phase: PhaseIdle}
	if active {
		reply.Phase = PhaseCollecting
	}
	return reply, nil
}

func (a *App) start(ctx context.Context, conversationID string) (Reply, error) {
	state, step, err := a.engine.Start(ctx, conversationID)
	if err != nil {
		if errors.Is(err, domain.ErrPersistence) {
			return a.failed(ctx, conversationID, UnavailableText)
		}
		return Reply{}, err
	}

	if state == nil {
		if err := a.sessions.Delete(ctx, conversationID); err != nil {
			return Reply{}, err
		}
		return a.reply(step), nil
	}

	if err := a.sessions.Save(ctx, conversationID, state); err != nil {
		return Reply{}, fmt.Errorf("failed to save session: %w", err)
	}
	a.logger.Info("Collection started", "conversation_id", conversationID, "items", a.catalog.Len())
	return a.reply(step), nil
}

func (a *App) answer(ctx context.Context, conversationID, text string) (Reply, error) {
	state, err := a.sessions.Load(ctx, conversationID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return Reply{Text: IdleHintText, Phase: PhaseIdle}, nil
	}
	if err != nil {
		return Reply{}, err
	}

	next, step, err := a.engine.Answer(ctx, state, text)
	if err != nil {
		if errors.Is(err, domain.ErrPersistence) {
			return a.failed(ctx, conversationID, RetryText)
		}
		return Reply{}, err
	}

	if next == nil {
		if err := a.sessions.Delete(ctx, conversationID); err != nil {
			return Reply{}, fmt.Errorf("failed to clear session: %w", err)
		}
		a.logger.Info("Collection finished", "conversation_id", conversationID, "deficient", len(step.Report.Deficient))
		return a.reply(step), nil
	}

	if err := a.sessions.Save(ctx, conversationID, next); err != nil {
		return Reply{}, fmt.Errorf("failed to save session: %w", err)
	}
	return a.reply(step), nil
}

// failed builds a Failed reply, repeating the pending prompt when there is one.
func (a *App) failed(ctx context.Context, conversationID, notice string) (Reply, error) {
	reply := Reply{Text: notice, Phase: PhaseIdle, Failed: true}

	state, err := a.sessions.Load(ctx, conversationID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return reply, nil
	}
	if err != nil {
		return Reply{}, err
	}
	reply.Phase = PhaseCollecting

	prompt, err := a.engine.Prompt(ctx, state)
	if err != nil {
		// Store still down; the notice alone will do.
		return reply, nil
	}
	reply.Prompt = prompt
	reply.Text = notice + "\n\n" + prompt.Text
	return reply, nil
}

func (a *App) reply(step runtime.Step) Reply {
	if step.Done {
		return Reply{
			Text:   report.Text(*step.Report),
			Phase:  PhaseIdle,
			Report: step.Report,
			Done:   true,
		}
	}
	return Reply{
		Text:   step.Prompt.Text,
		Phase:  PhaseCollecting,
		Prompt: step.Prompt,
	}
}

// command extracts the bot command name from text, or "" if text is not a command.
// "/count", "/count@stock_bot" and "/count now" all yield "count".
func command(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	name, _, _ := strings.Cut(fields[0][1:], "@")
	return name
}

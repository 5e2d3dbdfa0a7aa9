package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/stockcheck/pkg/domain"
)

// LoggingHooks logs every lifecycle event at debug level, and reports at info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPrompt: func(ctx context.Context, e *domain.PromptEvent) {
			logger.DebugContext(ctx, "prompt", "session_id", e.SessionID, "item", e.Item, "position", e.Position)
		},
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.DebugContext(ctx, "answer", "session_id", e.SessionID, "item", e.Item, "skipped", e.Skipped)
		},
		OnReport: func(ctx context.Context, e *domain.ReportEvent) {
			logger.InfoContext(ctx, "report", "session_id", e.SessionID, "items", e.Items, "deficient", e.Deficient)
		},
	}
}

// Merge combines hooks so each event reaches every non-nil callback, in order.
func Merge(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var prompts []func(context.Context, *domain.PromptEvent)
	var answers []func(context.Context, *domain.AnswerEvent)
	var reports []func(context.Context, *domain.ReportEvent)
	for _, h := range all {
		if h.OnPrompt != nil {
			prompts = append(prompts, h.OnPrompt)
		}
		if h.OnAnswer != nil {
			answers = append(answers, h.OnAnswer)
		}
		if h.OnReport != nil {
			reports = append(reports, h.OnReport)
		}
	}

	var merged domain.LifecycleHooks
	if len(prompts) > 0 {
		merged.OnPrompt = func(ctx context.Context, e *domain.PromptEvent) {
			for _, fn := range prompts {
				fn(ctx, e)
			}
		}
	}
	if len(answers) > 0 {
		merged.OnAnswer = func(ctx context.Context, e *domain.AnswerEvent) {
			for _, fn := range answers {
				fn(ctx, e)
			}
		}
	}
	if len(reports) > 0 {
		merged.OnReport = func(ctx context.Context, e *domain.ReportEvent) {
			for _, fn := range reports {
				fn(ctx, e)
			}
		}
	}
	return merged
}

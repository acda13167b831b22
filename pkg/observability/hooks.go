package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
)

// Chain merges several hook sets; each event is delivered to every set in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	pick := func(get func(domain.LifecycleHooks) func(context.Context, *domain.ModuleEvent)) func(context.Context, *domain.ModuleEvent) {
		var fns []func(context.Context, *domain.ModuleEvent)
		for _, s := range sets {
			if fn := get(s); fn != nil {
				fns = append(fns, fn)
			}
		}
		switch len(fns) {
		case 0:
			return nil
		case 1:
			return fns[0]
		}
		return func(ctx context.Context, e *domain.ModuleEvent) {
			for _, fn := range fns {
				fn(ctx, e)
			}
		}
	}

	return domain.LifecycleHooks{
		OnModuleBegin: pick(func(h domain.LifecycleHooks) func(context.Context, *domain.ModuleEvent) { return h.OnModuleBegin }),
		OnModuleEnd:   pick(func(h domain.LifecycleHooks) func(context.Context, *domain.ModuleEvent) { return h.OnModuleEnd }),
		OnNavigate:    pick(func(h domain.LifecycleHooks) func(context.Context, *domain.ModuleEvent) { return h.OnNavigate }),
		OnTerminate:   pick(func(h domain.LifecycleHooks) func(context.Context, *domain.ModuleEvent) { return h.OnTerminate }),
		OnRerun:       pick(func(h domain.LifecycleHooks) func(context.Context, *domain.ModuleEvent) { return h.OnRerun }),
	}
}

// LoggingHooks logs every scheduler event at debug level, and structural
// requests (navigate, terminate, rerun) at info level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	log := func(level slog.Level) func(context.Context, *domain.ModuleEvent) {
		return func(ctx context.Context, e *domain.ModuleEvent) {
			logger.Log(ctx, level, string(e.Type),
				"module", e.Module,
				"parent", e.Parent,
				"depth", e.Depth,
			)
		}
	}
	return domain.LifecycleHooks{
		OnModuleBegin: log(slog.LevelDebug),
		OnModuleEnd:   log(slog.LevelDebug),
		OnNavigate:    log(slog.LevelInfo),
		OnTerminate:   log(slog.LevelInfo),
		OnRerun:       log(slog.LevelInfo),
	}
}

package observers

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"

	logx "github.com/scheme-assistant/server/pkg/logger"
)

type nodeStartKey struct{}

// newNodeHandler logs every graph node with its duration.
func newNodeHandler() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackInput) context.Context {
			return context.WithValue(ctx, nodeStartKey{}, time.Now())
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackOutput) context.Context {
			ev := logx.Debug().Str("node", info.Name)
			if start, ok := ctx.Value(nodeStartKey{}).(time.Time); ok {
				ev = ev.Dur("took", time.Since(start))
			}
			ev.Msg("Node done")
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Err(err).Str("node", info.Name).Msg("Node failed")
			return ctx
		}).
		Build()
}

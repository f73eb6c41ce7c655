package server

import (
	"context"

	"github.com/m-mizutani/brix/pkg/utils/logging"
)

// DetachContext returns a context.Background() based context carrying the logger, request ID and time function of ctx.
// Background indexing started by a request must outlive the request.
func DetachContext(ctx context.Context) context.Context {
	bgCtx := logging.With(context.Background(), logging.From(ctx))
	return logging.InheritContextValues(bgCtx, ctx)
}

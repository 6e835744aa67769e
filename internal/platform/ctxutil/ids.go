package ctxutil

import "context"

type idsKey struct{}

// IDs correlates one inbound request across logs, spans and SSE events.
type IDs struct {
	Trace   string
	Request string
}

func With(ctx context.Context, ids IDs) context.Context {
	return context.WithValue(Default(ctx), idsKey{}, ids)
}

func From(ctx context.Context) IDs {
	if ctx == nil {
		return IDs{}
	}
	ids, _ := ctx.Value(idsKey{}).(IDs)
	return ids
}

// LogFields returns the non-empty ids as logger key/value pairs.
func LogFields(ctx context.Context) []interface{} {
	ids := From(ctx)
	var kv []interface{}
	if ids.Request != "" {
		kv = append(kv, "request_id", ids.Request)
	}
	if ids.Trace != "" {
		kv = append(kv, "trace_id", ids.Trace)
	}
	return kv
}

func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

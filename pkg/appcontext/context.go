// Package appcontext carries per-request identity values through context.
package appcontext

import "context"

type ContextKey string

var (
	RequestIDKey   = ContextKey("X-Request-Id")
	CollectorIDKey = ContextKey("X-Collector-Id")
	RouteKey       = ContextKey("X-Route")
	RemoteIPKey    = ContextKey("X-Remote-Ip")
)

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	value, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return value
}

// SetCollectorID stores the collector identity for the request. Every table is
// scoped by collector_id, so handlers reject requests without one.
func SetCollectorID(ctx context.Context, collectorID string) context.Context {
	return context.WithValue(ctx, CollectorIDKey, collectorID)
}

func GetCollectorID(ctx context.Context) string {
	value, ok := ctx.Value(CollectorIDKey).(string)
	if !ok {
		return ""
	}
	return value
}

func SetRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, RouteKey, route)
}

func GetRoute(ctx context.Context) string {
	value, ok := ctx.Value(RouteKey).(string)
	if !ok {
		return ""
	}
	return value
}

func SetRemoteIP(ctx context.Context, remoteIP string) context.Context {
	return context.WithValue(ctx, RemoteIPKey, remoteIP)
}

func GetRemoteIP(ctx context.Context) string {
	value, ok := ctx.Value(RemoteIPKey).(string)
	if !ok {
		return ""
	}
	return value
}

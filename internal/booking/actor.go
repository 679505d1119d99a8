package booking

import (
	"context"
	"strings"

	"github.com/iliyamo/room-reservation/internal/model"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role string
}

// IsAdmin reports whether the actor holds administrator privilege.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// CanManage reports whether the actor may change or delete a reservation
// owned by ownerID.
func (a Actor) CanManage(ownerID string) bool {
	if a.ID == "" {
		return false
	}
	return a.ID == ownerID || a.IsAdmin()
}

type actorKey struct{}
type clientIPKey struct{}

// FallbackIP is used when the caller's address is unknown.
const FallbackIP = "0.0.0.0"

// WithActor attaches the ambient session actor to ctx.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the ambient actor, if any.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok && a.ID != ""
}

// WithClientIP attaches the caller's network address to ctx.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, NormalizeIP(ip))
}

// ClientIP returns the caller's address or FallbackIP.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok && ip != "" {
		return ip
	}
	return FallbackIP
}

// NormalizeIP strips the IPv4-mapped IPv6 prefix and maps empty to
// FallbackIP.
func NormalizeIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if i := strings.LastIndex(ip, "::ffff:"); i >= 0 {
		ip = ip[i+len("::ffff:"):]
	}
	if ip == "" {
		return FallbackIP
	}
	return ip
}

package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

const clockSkew = 30 * time.Second

// Claims are issued by the web frontend after the Discord login. The
// subject is the member's Discord id.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

type actorKey struct{}

type authenticator struct {
	secret    []byte
	members   ports.MemberStore
	directory ports.MemberDirectory
	now       func() time.Time
}

// newAuthenticator resolves roles from members first. directory may be nil;
// when set, members the table does not know get their Discord-mapped role.
func newAuthenticator(secret string, members ports.MemberStore, directory ports.MemberDirectory, now func() time.Time) *authenticator {
	return &authenticator{secret: []byte(secret), members: members, directory: directory, now: now}
}

// middleware resolves the bearer token, if any, into an actor. Requests
// without a token continue anonymously; handlers that need an actor
// reject them.
func (a *authenticator) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		actor, err := a.actor(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				w.Header().Set("WWW-Authenticate", "Bearer")
			}
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
	})
}

func (a *authenticator) actor(ctx context.Context, token string) (domain.Actor, error) {
	claims, err := a.verify(token)
	if err != nil {
		slog.Debug("Rejected bearer token", "error", err)
		return domain.Actor{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	role, err := a.members.GetMemberRole(ctx, claims.Subject)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("resolve member role: %w", err)
	}
	if role == domain.RoleGuest {
		role = a.guildRole(ctx, claims.Subject)
	}
	return domain.Actor{DiscordID: claims.Subject, Role: role}, nil
}

// guildRole looks the member up in the guild directory. Failures leave the
// actor a guest.
func (a *authenticator) guildRole(ctx context.Context, discordID string) domain.Role {
	if a.directory == nil {
		return domain.RoleGuest
	}
	members, err := a.directory.ListGuildMembers(ctx)
	if err != nil {
		slog.Warn("Failed to resolve role from guild directory", "discord_id", discordID, "error", err)
		return domain.RoleGuest
	}
	for _, m := range members {
		if m.DiscordID == discordID {
			return m.Role
		}
	}
	return domain.RoleGuest
}

func (a *authenticator) verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}

// actorFrom returns the authenticated actor or ErrUnauthenticated.
func actorFrom(r *http.Request) (domain.Actor, error) {
	actor, ok := r.Context().Value(actorKey{}).(domain.Actor)
	if !ok {
		return domain.Actor{}, domain.ErrUnauthenticated
	}
	return actor, nil
}

package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/ports"
	"faction-hub/internal/metrics"

	"github.com/bwmarrin/discordgo"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// guildMembersPage is the largest page the members endpoint returns.
const guildMembersPage = 1000

type MemberSession interface {
	GuildMembers(guildID string, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
}

// GuildDirectory lists the members of one guild. Full listings are cached
// for the configured TTL.
type GuildDirectory struct {
	session MemberSession
	guildID string
	roles   map[string]domain.Role
	cache   *expirable.LRU[string, []domain.Member]
}

type DirectoryOptions struct {
	GuildID string
	// Roles maps Discord role ids to hub roles. Members holding several
	// mapped roles get the most privileged one.
	Roles    map[string]string
	CacheTTL time.Duration
}

func NewGuildDirectory(session MemberSession, opts DirectoryOptions) *GuildDirectory {
	roles := make(map[string]domain.Role, len(opts.Roles))
	for id, name := range opts.Roles {
		roles[id] = domain.ParseRole(name)
	}
	return &GuildDirectory{
		session: session,
		guildID: opts.GuildID,
		roles:   roles,
		cache:   expirable.NewLRU[string, []domain.Member](1, nil, opts.CacheTTL),
	}
}

func (d *GuildDirectory) ListGuildMembers(ctx context.Context) ([]domain.Member, error) {
	if d.guildID == "" {
		return nil, errors.New("guild id is not configured")
	}
	if members, ok := d.cache.Get(d.guildID); ok {
		metrics.DirectoryFetches.WithLabelValues("cached").Inc()
		return members, nil
	}

	var (
		members []domain.Member
		after   string
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := d.session.GuildMembers(d.guildID, after, guildMembersPage, discordgo.WithContext(ctx))
		if err != nil {
			metrics.DirectoryFetches.WithLabelValues("failure").Inc()
			return nil, fmt.Errorf("fetch guild members: %w", err)
		}
		for _, m := range page {
			if m == nil || m.User == nil || m.User.Bot {
				continue
			}
			members = append(members, d.member(m))
		}
		if len(page) < guildMembersPage {
			break
		}
		last := page[len(page)-1]
		if last == nil || last.User == nil {
			break
		}
		after = last.User.ID
	}

	metrics.DirectoryFetches.WithLabelValues("success").Inc()
	d.cache.Add(d.guildID, members)
	return members, nil
}

func (d *GuildDirectory) member(m *discordgo.Member) domain.Member {
	return domain.Member{
		DiscordID:  m.User.ID,
		Username:   m.User.Username,
		GlobalName: m.User.GlobalName,
		Nickname:   m.Nick,
		AvatarURL:  m.AvatarURL(""),
		Role:       d.role(m.Roles),
	}
}

var rolePrecedence = []domain.Role{domain.RoleAdmin, domain.RoleLeader, domain.RoleModerator, domain.RoleMember}

func (d *GuildDirectory) role(ids []string) domain.Role {
	held := make(map[domain.Role]bool, len(ids))
	for _, id := range ids {
		if r, ok := d.roles[id]; ok {
			held[r] = true
		}
	}
	for _, r := range rolePrecedence {
		if held[r] {
			return r
		}
	}
	return domain.RoleGuest
}

var _ ports.MemberDirectory = (*GuildDirectory)(nil)

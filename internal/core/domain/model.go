package domain

import (
	"fmt"
	"strings"
	"time"
)

type WarStatus string

const (
	WarPending WarStatus = "PENDING"
	WarActive  WarStatus = "ACTIVE"
	WarEnded   WarStatus = "ENDED"
)

func (s WarStatus) Valid() bool {
	return s == WarPending || s == WarActive || s == WarEnded
}

type WarType string

const (
	WarUncontrolled WarType = "UNCONTROLLED"
	WarControlled   WarType = "CONTROLLED"
)

func (t WarType) Valid() bool {
	return t == WarUncontrolled || t == WarControlled
}

type WarLevel string

const (
	NonLethal WarLevel = "NON_LETHAL"
	Lethal    WarLevel = "LETHAL"
)

func (l WarLevel) Valid() bool {
	return l == NonLethal || l == Lethal
}

type LogType string

const (
	LogAttack  LogType = "ATTACK"
	LogDefense LogType = "DEFENSE"
)

func (t LogType) Valid() bool {
	return t == LogAttack || t == LogDefense
}

// ParseWarStatus accepts any casing of the enumerated values.
func ParseWarStatus(s string) (WarStatus, error) {
	st := WarStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown war status %q", s)
	}
	return st, nil
}

// Regulations is the ruleset a war is fought under.
type Regulations struct {
	CooldownHours   int            `json:"cooldownHours"`
	MaxParticipants int            `json:"maxParticipants"`
	WeaponCaps      map[string]int `json:"weaponCaps,omitempty"`
}

func (r Regulations) Validate() error {
	var problems []FieldProblem
	if r.CooldownHours < 0 {
		problems = append(problems, FieldProblem{Field: "regulations.cooldownHours", Value: fmt.Sprint(r.CooldownHours), Message: "must not be negative"})
	}
	if r.MaxParticipants < 0 {
		problems = append(problems, FieldProblem{Field: "regulations.maxParticipants", Value: fmt.Sprint(r.MaxParticipants), Message: "must not be negative"})
	}
	for weapon, limit := range r.WeaponCaps {
		if strings.TrimSpace(weapon) == "" {
			problems = append(problems, FieldProblem{Field: "regulations.weaponCaps", Value: weapon, Message: "weapon name is required"})
		}
		if limit < 0 {
			problems = append(problems, FieldProblem{Field: "regulations.weaponCaps." + weapon, Value: fmt.Sprint(limit), Message: "must not be negative"})
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: sortProblems(problems)}
	}
	return nil
}

// Clone returns a copy that shares no map with r.
func (r Regulations) Clone() Regulations {
	out := r
	if r.WeaponCaps != nil {
		out.WeaponCaps = make(map[string]int, len(r.WeaponCaps))
		for k, v := range r.WeaponCaps {
			out.WeaponCaps[k] = v
		}
	}
	return out
}

// MessageRef points at a Discord message mirrored from a war or a log.
type MessageRef struct {
	MessageID string `json:"messageId"`
	ChannelID string `json:"channelId"`
}

type War struct {
	ID           string      `json:"id"`
	EnemyFaction string      `json:"enemyFaction"`
	Slug         string      `json:"slug"`
	Status       WarStatus   `json:"status"`
	Type         WarType     `json:"warType"`
	Level        WarLevel    `json:"warLevel"`
	Regulations  Regulations `json:"regulations"`
	StartedAt    time.Time   `json:"startedAt"`
	EndedAt      *time.Time  `json:"endedAt,omitempty"`
	CreatedBy    string      `json:"createdBy"`
	Message      *MessageRef `json:"message,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (w *War) Ended() bool {
	return w.Status == WarEnded
}

type EncounterLog struct {
	ID            string      `json:"id"`
	WarID         string      `json:"warId"`
	Type          LogType     `json:"type"`
	OccurredAt    time.Time   `json:"occurredAt"`
	Participants  []string    `json:"participants"`
	FriendsKilled []string    `json:"friendsKilled"`
	PlayersKilled []string    `json:"playersKilled"`
	Notes         string      `json:"notes,omitempty"`
	EvidenceURLs  []string    `json:"evidenceUrls,omitempty"`
	SubmittedBy   string      `json:"submittedBy"`
	EditedBy      string      `json:"editedBy,omitempty"`
	EditedAt      *time.Time  `json:"editedAt,omitempty"`
	Message       *MessageRef `json:"message,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

func (l *EncounterLog) HasKills() bool {
	return len(l.FriendsKilled) > 0 || len(l.PlayersKilled) > 0
}

// JoinEvidence and SplitEvidence convert between the list form and the
// comma-joined column.
func JoinEvidence(urls []string) string {
	return strings.Join(urls, ",")
}

func SplitEvidence(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleLeader    Role = "LEADER"
	RoleModerator Role = "MODERATOR"
	RoleMember    Role = "MEMBER"
	RoleGuest     Role = "GUEST"
)

// Privileged reports whether r may run administrative operations.
// ADMIN, LEADER and MODERATOR are interchangeable here.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleLeader || r == RoleModerator
}

// Member reports whether r is at least a regular community member.
func (r Role) Member() bool {
	return r == RoleMember || r.Privileged()
}

func ParseRole(s string) Role {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleLeader, RoleModerator, RoleMember:
		return r
	default:
		return RoleGuest
	}
}

type Actor struct {
	DiscordID string
	Role      Role
}

// Member is a community member as known to the guild directory.
type Member struct {
	DiscordID  string
	Username   string
	GlobalName string
	Nickname   string
	AvatarURL  string
	Role       Role
}

// DisplayName is the nickname, the global name or the username, in that order.
func (m Member) DisplayName() string {
	if m.Nickname != "" {
		return m.Nickname
	}
	if m.GlobalName != "" {
		return m.GlobalName
	}
	return m.Username
}

type Side string

const (
	SideFriend Side = "FRIEND"
	SideEnemy  Side = "ENEMY"
)

type Identity struct {
	DiscordID   string `json:"discordId"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// PKEntry is one derived leaderboard row. It is never stored.
type PKEntry struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Side         Side      `json:"side"`
	KillCount    int       `json:"killCount"`
	LastKilledAt time.Time `json:"lastKilledAt"`
	Identity     *Identity `json:"identity"`
}

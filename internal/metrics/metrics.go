package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WarsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faction_hub_wars_created_total",
		Help: "The total number of wars created",
	}, []string{"type", "level"})

	WarsEnded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faction_hub_wars_ended_total",
		Help: "The total number of wars ended",
	})

	EncounterLogs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faction_hub_encounter_logs_total",
		Help: "Encounter log mutations by operation",
	}, []string{"op"})

	LethalityTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faction_hub_lethality_transitions_total",
		Help: "War level changes caused by log mutations",
	}, []string{"to"})

	ScoreboardDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "faction_hub_scoreboard_compute_seconds",
		Help:    "Time spent recomputing a war scoreboard",
		Buckets: prometheus.DefBuckets,
	})

	EmbedSync = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faction_hub_embed_sync_total",
		Help: "Discord embed synchronization attempts",
	}, []string{"op", "status"})

	DirectoryFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faction_hub_directory_fetches_total",
		Help: "Guild member directory fetches",
	}, []string{"status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "faction_hub_http_request_duration_seconds",
		Help:    "Duration of HTTP API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})

	DiscordCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faction_hub_discord_commands_total",
		Help: "Slash command invocations",
	}, []string{"name"})
)

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"faction-hub/internal/adapters/discord"
	"faction-hub/internal/adapters/discord/commands"
	"faction-hub/internal/adapters/httpapi"
	"faction-hub/internal/adapters/storage/memory"
	"faction-hub/internal/adapters/storage/postgres"
	"faction-hub/internal/config"
	"faction-hub/internal/core/ports"
	"faction-hub/internal/core/services/embedsync"
	"faction-hub/internal/core/services/ledger"
	"faction-hub/internal/core/services/scoreboard"
	"faction-hub/internal/core/services/wars"

	"github.com/bwmarrin/discordgo"
)

type App struct {
	config             *config.Config
	store              ports.Repository
	discord            *discordgo.Session
	server             *httpapi.Server
	router             *commands.Router
	registeredCommands []*discordgo.ApplicationCommand
	serverErr          chan error
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	session, err := discord.NewSession(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	embeds, err := newEmbedSynchronizer(cfg, session)
	if err != nil {
		store.Close()
		return nil, err
	}

	var directory ports.MemberDirectory
	if cfg.DiscordGuildID != "" {
		directory = discord.NewGuildDirectory(session, discord.DirectoryOptions{
			GuildID:  cfg.DiscordGuildID,
			Roles:    cfg.DiscordRoleMap,
			CacheTTL: cfg.RosterCacheTTL,
		})
	} else {
		slog.Warn("DISCORD_GUILD_ID is not set, scoreboard identities use the stored roster only")
	}

	syncer := embedsync.NewSyncer(embedsync.Dependencies{
		Embeds:     embeds,
		Store:      store,
		RecentLogs: cfg.RecentLogsInEmbed,
		PublicURL:  cfg.PublicURL,
	})
	warService := wars.NewService(wars.Dependencies{Config: cfg, Repository: store, Embeds: syncer})
	ledgerService := ledger.NewService(ledger.Dependencies{Config: cfg, Repository: store, Wars: warService, Embeds: syncer})
	scoreboardService := scoreboard.NewService(scoreboard.Dependencies{Repository: store, Directory: directory, Wars: warService})

	botHandlers := &commands.BotHandler{Wars: warService, Scoreboard: scoreboardService, Embeds: syncer}
	router := commands.NewRouter()
	guildOnly := commands.WithGuild(cfg.DiscordGuildID)
	router.Register(commands.CommandWarStatus, botHandlers.WarStatus, guildOnly)
	router.Register(commands.CommandWarScoreboard, botHandlers.WarScoreboard, guildOnly)

	session.AddHandler(commands.ReadyHandler)
	session.AddHandler(router.HandleFunc())

	server := httpapi.NewServer(httpapi.Dependencies{
		Config:     cfg,
		Wars:       warService,
		Ledger:     ledgerService,
		Scoreboard: scoreboardService,
		Members:    store,
		Directory:  directory,
	})

	return &App{
		config:    cfg,
		store:     store,
		discord:   session,
		server:    server,
		router:    router,
		serverErr: make(chan error, 1),
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (ports.Repository, error) {
	if cfg.UsesMemoryStore() {
		slog.Warn("Using the in-memory store, data is lost on restart")
		return memory.NewStore(), nil
	}

	store, err := postgres.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to storage: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate storage: %w", err)
	}
	return store, nil
}

func newEmbedSynchronizer(cfg *config.Config, session *discordgo.Session) (ports.EmbedSynchronizer, error) {
	if cfg.WebhookURL == "" {
		slog.Warn("DISCORD_WEBHOOK_URL is not set, war embeds are disabled")
		return ports.NoopSynchronizer{}, nil
	}
	webhook, err := discord.NewWebhookSynchronizer(session, cfg.WebhookURL)
	if err != nil {
		return nil, fmt.Errorf("configure webhook: %w", err)
	}
	return webhook, nil
}

func (a *App) Run() error {
	if err := a.discord.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	appID := a.discord.State.User.ID
	a.registeredCommands = commands.RegisterCommands(a.discord, commands.GetApplicationCommands(), appID, a.config.DiscordGuildID)

	go func() {
		if err := a.server.ListenAndServe(); err != nil {
			a.serverErr <- err
		}
	}()

	slog.Info("Faction Hub started", "http_addr", a.config.HTTPAddr)
	return nil
}

// Errors reports a fatal HTTP server failure.
func (a *App) Errors() <-chan error {
	return a.serverErr
}

func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down...")

	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}

	if a.discord != nil {
		if a.discord.State != nil && a.discord.State.User != nil {
			commands.CleanupCommands(a.discord, a.registeredCommands, a.discord.State.User.ID, a.config.DiscordGuildID)
		}
		if err := a.discord.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close discord session: %w", err))
		}
	}

	if a.store != nil {
		a.store.Close()
	}

	return errors.Join(errs...)
}

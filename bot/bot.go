package bot

import (
	"context"
	"fmt"
	"sync/atomic"

	"adachi/commands"
	"adachi/config"
	"adachi/handlers"
	"adachi/interfaces"
	"adachi/servers"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// Bot はDiscordボットのコアな状態とロジックを管理します。
type Bot struct {
	Session   *discordgo.Session
	cfg       *config.Config
	log       interfaces.Logger
	analytics interfaces.Analytics
	scheduler interfaces.Scheduler
	platform  *discordPlatform
	guilds    *guildTracker
	events    *handlers.EventHandler
	errors    *handlers.ErrorRouter
	servers   *servers.Manager

	commandHandlers    map[string]commands.CommandHandler
	registeredCommands []*discordgo.ApplicationCommand

	ctx   context.Context
	ready atomic.Bool
}

// New は新しいBotインスタンスを作成します。appCtx はすべてのコマンドとイベントで共有されます。
func New(cfg *config.Config, appCtx *commands.AppContext) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, errors.Wrap(err, "create discord session")
	}
	dg.Identify.Intents = discordgo.IntentsGuilds
	dg.StateEnabled = true
	dg.SyncEvents = false
	dg.ShouldReconnectOnError = true

	platform := &discordPlatform{s: dg}
	b := &Bot{
		Session:   dg,
		cfg:       cfg,
		log:       appCtx.Log,
		analytics: appCtx.Analytics,
		scheduler: cron.New(),
		platform:  platform,
		guilds:    newGuildTracker(),
		events:    handlers.NewEventHandler(platform, appCtx.Analytics, appCtx.Log),
		errors:    handlers.NewErrorRouter(appCtx.Analytics, appCtx.Log),
		servers:   servers.NewManager(appCtx.Log),
		ctx:       context.Background(),
	}
	b.commandHandlers, b.registeredCommands = commands.RegisterCommands(appCtx)

	if cfg.StatusListen != "" {
		b.servers.AddServer(servers.NewStatusServer(cfg.StatusListen, b.ready.Load, appCtx.Log))
	}
	return b, nil
}

// Start はBotを起動し、ctx がキャンセルされるまでブロックします。
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx

	b.Session.AddHandler(b.onReady)
	b.Session.AddHandler(b.onGuildCreate)
	b.Session.AddHandler(b.onGuildDelete)
	b.Session.AddHandler(b.interactionCreate)

	if err := b.Session.Open(); err != nil {
		return b.setupFailed(ctx, errors.Wrap(err, "open gateway"))
	}
	defer b.Session.Close()

	if err := b.platform.resolveOwner(ctx); err != nil {
		b.log.Warn("オーナーを特定できません。参加・退出の通知は送信されません", "error", err)
	}

	b.log.Info("Discord Botが起動しました。コマンドを登録します...")
	if _, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, "", b.registeredCommands); err != nil {
		return b.setupFailed(ctx, errors.Wrap(err, "register commands"))
	}

	if spec := b.cfg.GuildCountSchedule; spec != "" {
		if _, err := b.scheduler.AddFunc(spec, b.refreshGuildCount); err != nil {
			return b.setupFailed(ctx, errors.Wrapf(err, "schedule guild count refresh %q", spec))
		}
	}
	b.scheduler.Start()
	defer b.scheduler.Stop()

	b.log.Info("コマンドの登録が完了しました。Ctrl+Cで終了します。")
	if err := b.runServers(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	b.log.Info("Botをシャットダウンします...")
	return nil
}

// runServers runs the configured servers. A server that stops early is a setup failure.
func (b *Bot) runServers(ctx context.Context) error {
	if err := b.servers.Run(ctx); err != nil {
		return b.setupFailed(ctx, errors.Wrap(err, "run status server"))
	}
	return nil
}

func (b *Bot) setupFailed(ctx context.Context, err error) error {
	b.errors.Route(ctx, &handlers.FrameworkError{Kind: handlers.ErrorSetup, Err: err})
	return err
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	ids := make([]string, 0, len(r.Guilds))
	for _, g := range r.Guilds {
		ids = append(ids, g.ID)
	}
	b.guilds.reset(ids)
	b.ready.Store(true)

	if err := b.events.OnReady(b.ctx); err != nil {
		b.errors.Route(b.ctx, &handlers.FrameworkError{Kind: handlers.ErrorOther, Err: err})
	}
}

func (b *Bot) onGuildCreate(s *discordgo.Session, e *discordgo.GuildCreate) {
	isNew := b.guilds.observeCreate(e.ID)
	g := handlers.GuildInfo{ID: e.ID, Name: e.Name}
	if err := b.events.OnGuildCreate(b.ctx, g, isNew); err != nil {
		b.errors.Route(b.ctx, &handlers.FrameworkError{Kind: handlers.ErrorOther, Err: err})
	}
}

func (b *Bot) onGuildDelete(s *discordgo.Session, e *discordgo.GuildDelete) {
	// 障害で一時的に利用不可になったギルドは既知のまま残す。
	if !e.Unavailable {
		b.guilds.forget(e.ID)
	}
	g := handlers.GuildInfo{ID: e.ID}
	if e.BeforeDelete != nil {
		g.Name = e.BeforeDelete.Name
	}
	if err := b.events.OnGuildDelete(b.ctx, g); err != nil {
		b.errors.Route(b.ctx, &handlers.FrameworkError{Kind: handlers.ErrorOther, Err: err})
	}
}

func (b *Bot) refreshGuildCount() {
	if _, err := b.events.RefreshGuildCount(b.ctx); err != nil {
		if logErr := b.analytics.Warn(b.ctx, fmt.Sprintf("scheduled guild count refresh failed: %v", err)); logErr != nil {
			b.log.Warn("定期更新の失敗を記録できませんでした", "error", logErr)
		}
	}
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	b.dispatch(b.ctx, sessionReplier{s: s}, i)
}

// dispatch runs one command. Command errors are reported to the user and
// routed as ErrorCommand; unknown commands and panics are routed as ErrorOther.
func (b *Bot) dispatch(ctx context.Context, r interfaces.Replier, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name
	h, ok := b.commandHandlers[name]
	if !ok {
		b.errors.Route(ctx, &handlers.FrameworkError{
			Kind: handlers.ErrorOther, Command: name, Err: errors.Errorf("unknown command %q", name),
			Interaction: i.Interaction, Replier: r,
		})
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			b.errors.Route(ctx, &handlers.FrameworkError{
				Kind: handlers.ErrorOther, Command: name, Err: errors.Errorf("panic: %v", rec),
				Interaction: i.Interaction, Replier: r,
			})
		}
	}()

	if err := h.Handle(ctx, r, i); err != nil {
		fe := &handlers.FrameworkError{
			Kind: handlers.ErrorCommand, Command: name, Err: err,
			Interaction: i.Interaction, Replier: r,
		}
		if renderErr := handlers.RenderError(ctx, fe); renderErr != nil {
			b.log.Warn("エラー応答の送信に失敗しました", "error", renderErr, "command", name)
		}
		b.errors.Route(ctx, fe)
	}
}

package interfaces

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
)

// Logger は、アプリケーション全体で使用されるロガーのインターフェースを定義します。
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
}

// Analytics is the telemetry sink shared by every command and event invocation.
// Implementations must be safe for concurrent use.
type Analytics interface {
	UpdateGuilds(ctx context.Context, count int, shardID int) error
	UpdateUsage(ctx context.Context, guildID, channelID string) error
	Info(ctx context.Context, msg string) error
	Warn(ctx context.Context, msg string) error
	Error(ctx context.Context, msg string) error
}

// Platform は、イベントハンドラがチャットプラットフォームに問い合わせる操作を定義します。
type Platform interface {
	// ShardID returns the shard this process serves.
	ShardID() int
	// GuildCount re-fetches the authoritative number of guilds the bot is in.
	GuildCount(ctx context.Context) (int, error)
	// NotifyOwner sends a direct message to the application owner.
	NotifyOwner(ctx context.Context, msg string) error
}

// Replier delivers the response to a single interaction.
type Replier interface {
	Reply(i *discordgo.Interaction, data *discordgo.InteractionResponseData) error
}

// Scheduler は、タスクのスケジューリング機能のインターフェースを定義します。
type Scheduler interface {
	Start()
	Stop() context.Context
	AddFunc(spec string, cmd func()) (cron.EntryID, error)
}

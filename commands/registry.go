package commands

import (
	"context"

	"adachi/interfaces"
	"adachi/metrics"
	"adachi/pool"

	"github.com/bwmarrin/discordgo"
)

// Picker chooses a judgement file. *pool.Set implements it.
type Picker interface {
	PickVerdict() (pool.Verdict, string, error)
}

// AppContext provides dependencies to commands. It is built once at setup and
// shared read-only by every invocation.
type AppContext struct {
	Log              interfaces.Logger
	Analytics        interfaces.Analytics
	Pools            Picker
	SupportServerURL string
}

// RegisterCommands initializes and returns all command handlers.
func RegisterCommands(appCtx *AppContext) (map[string]CommandHandler, []*discordgo.ApplicationCommand) {
	commandHandlers := make(map[string]CommandHandler)
	registeredCommands := make([]*discordgo.ApplicationCommand, 0)

	// To add a new command, simply add it to this list.
	commands := []CommandHandler{
		&AskCommand{Log: appCtx.Log, Analytics: appCtx.Analytics, Pools: appCtx.Pools},
		&InviteCommand{SupportServerURL: appCtx.SupportServerURL},
	}

	for _, cmd := range commands {
		commandDef := cmd.GetCommandDef()
		commandHandlers[commandDef.Name] = &CommandUsageWrapper{CommandHandler: cmd}
		registeredCommands = append(registeredCommands, commandDef)
	}

	return commandHandlers, registeredCommands
}

// CommandUsageWrapper は、コマンドの実行をラップして結果を記録します。
type CommandUsageWrapper struct {
	CommandHandler
}

// Handle は元のハンドラを呼び出し、成否をメトリクスに記録します。
func (w *CommandUsageWrapper) Handle(ctx context.Context, r interfaces.Replier, i *discordgo.InteractionCreate) error {
	err := w.CommandHandler.Handle(ctx, r, i)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.CommandCounter.WithLabelValues(w.GetCommandDef().Name, status).Inc()
	return err
}

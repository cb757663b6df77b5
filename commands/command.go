// commands/command.go
package commands

import (
	"context"

	"adachi/interfaces"

	"github.com/bwmarrin/discordgo"
)

// CommandHandler は、すべてのスラッシュコマンドが実装すべきインターフェースです。
// Handle がエラーを返した場合、ディスパッチャがユーザーへの通知とエラールーティングを行います。
type CommandHandler interface {
	GetCommandDef() *discordgo.ApplicationCommand
	Handle(ctx context.Context, r interfaces.Replier, i *discordgo.InteractionCreate) error
}

// optionString returns the named string option, or "" when absent.
func optionString(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

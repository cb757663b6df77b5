package commands

import (
	"context"
	"fmt"

	"adachi/interfaces"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

type InviteCommand struct {
	SupportServerURL string
}

func (c *InviteCommand) GetCommandDef() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "invite",
		Description: "Get a link to add the Adachi cube to your server",
	}
}

func (c *InviteCommand) Handle(ctx context.Context, r interfaces.Replier, i *discordgo.InteractionCreate) error {
	content := fmt.Sprintf("Invite Adachi Cube to your server: %s\nJoin the support server: %s",
		InviteURL(i.AppID), c.SupportServerURL)
	if err := r.Reply(i.Interaction, &discordgo.InteractionResponseData{Content: content}); err != nil {
		return errors.Wrap(err, "send invite")
	}
	return nil
}

// InviteURL builds the bot authorization link for an application ID.
func InviteURL(appID string) string {
	return fmt.Sprintf("https://discord.com/api/oauth2/authorize?client_id=%s&permissions=2048&scope=bot", appID)
}

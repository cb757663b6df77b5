package bot

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

// ErrNoOwner is returned by NotifyOwner when no owner DM channel was resolved.
var ErrNoOwner = errors.New("owner DM channel not resolved")

// maxGuildPage is the Discord limit for GET /users/@me/guilds.
const maxGuildPage = 200

// discordPlatform implements interfaces.Platform on a discordgo session.
type discordPlatform struct {
	s *discordgo.Session

	mu             sync.RWMutex
	ownerChannelID string
}

func (p *discordPlatform) ShardID() int {
	return p.s.ShardID
}

// GuildCount pages through the current user's guilds.
func (p *discordPlatform) GuildCount(ctx context.Context) (int, error) {
	count := 0
	after := ""
	for {
		page, err := p.s.UserGuilds(maxGuildPage, "", after, false, discordgo.WithContext(ctx))
		if err != nil {
			return 0, errors.Wrap(err, "list guilds")
		}
		count += len(page)
		if len(page) < maxGuildPage {
			return count, nil
		}
		after = page[len(page)-1].ID
	}
}

func (p *discordPlatform) NotifyOwner(ctx context.Context, msg string) error {
	p.mu.RLock()
	channelID := p.ownerChannelID
	p.mu.RUnlock()
	if channelID == "" {
		return ErrNoOwner
	}
	if _, err := p.s.ChannelMessageSend(channelID, msg, discordgo.WithContext(ctx)); err != nil {
		return errors.Wrap(err, "send owner DM")
	}
	return nil
}

// resolveOwner finds the application owner (the team owner for team-owned
// applications) and opens a DM channel with them.
func (p *discordPlatform) resolveOwner(ctx context.Context) error {
	app, err := p.s.Application("@me")
	if err != nil {
		return errors.Wrap(err, "fetch application")
	}
	ownerID := ""
	switch {
	case app.Team != nil && app.Team.OwnerID != "":
		ownerID = app.Team.OwnerID
	case app.Owner != nil:
		ownerID = app.Owner.ID
	}
	if ownerID == "" {
		return errors.New("application has no owner")
	}

	ch, err := p.s.UserChannelCreate(ownerID, discordgo.WithContext(ctx))
	if err != nil {
		return errors.Wrapf(err, "open DM with owner %s", ownerID)
	}

	p.mu.Lock()
	p.ownerChannelID = ch.ID
	p.mu.Unlock()
	return nil
}

// sessionReplier answers interactions through the session.
type sessionReplier struct {
	s *discordgo.Session
}

func (r sessionReplier) Reply(i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	return r.s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

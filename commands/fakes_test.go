package commands

import (
	"context"
	"io"
	"sync"

	"adachi/pool"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

type sentReply struct {
	Data     *discordgo.InteractionResponseData
	Contents map[string][]byte // attachment name -> bytes
}

// replyRecorder captures replies, reading attachments before the handler closes them.
type replyRecorder struct {
	replies []sentReply
	err     error
}

func (r *replyRecorder) Reply(i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	if r.err != nil {
		return r.err
	}
	sent := sentReply{Data: data, Contents: map[string][]byte{}}
	for _, f := range data.Files {
		b, err := io.ReadAll(f.Reader)
		if err != nil {
			return err
		}
		sent.Contents[f.Name] = b
	}
	r.replies = append(r.replies, sent)
	return nil
}

type usage struct{ guild, channel string }

type fakeAnalytics struct {
	mu     sync.Mutex
	usages []usage
	err    error
}

func (a *fakeAnalytics) UpdateGuilds(context.Context, int, int) error { return a.err }

func (a *fakeAnalytics) UpdateUsage(_ context.Context, guildID, channelID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.usages = append(a.usages, usage{guildID, channelID})
	return a.err
}

func (a *fakeAnalytics) Info(context.Context, string) error  { return a.err }
func (a *fakeAnalytics) Warn(context.Context, string) error  { return a.err }
func (a *fakeAnalytics) Error(context.Context, string) error { return a.err }

type fakeLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *fakeLogger) Info(string, ...any) {}
func (l *fakeLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}
func (l *fakeLogger) Error(string, ...any) {}
func (l *fakeLogger) Fatal(string, ...any) {}

type fixedPicker struct {
	verdict pool.Verdict
	path    string
}

func (p fixedPicker) PickVerdict() (pool.Verdict, string, error) {
	return p.verdict, p.path, nil
}

type failingPicker struct{}

func (failingPicker) PickVerdict() (pool.Verdict, string, error) {
	return pool.No, "", &pool.EmptyPoolError{Dir: "no"}
}

var errTransport = errors.New("connection reset")

func commandInteraction(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "1",
		AppID:     "4242",
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "777",
		ChannelID: "888",
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: options,
		},
	}}
}

func questionOption(q string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  askQuestionOption,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: q,
	}
}

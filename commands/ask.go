// commands/ask.go
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"adachi/interfaces"
	"adachi/metrics"

	"github.com/bwmarrin/discordgo"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

const (
	askQuestionOption = "question"
	spokenPlain       = "The Adachi cube has spoken."
	defaultExtension  = "mp4"
)

// ` would end the code span of the echo, @ would let the bot ping on a user's behalf.
var questionReplacer = strings.NewReplacer("`", "", "@", "")

type AskCommand struct {
	Log       interfaces.Logger
	Analytics interfaces.Analytics
	Pools     Picker
}

func (c *AskCommand) GetCommandDef() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "ask",
		Description: "Ask the Adachi cube a question",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: askQuestionOption, Description: "What will you ask the Adachi cube?", Required: false},
		},
	}
}

func (c *AskCommand) Handle(ctx context.Context, r interfaces.Replier, i *discordgo.InteractionCreate) error {
	verdict, path, err := c.Pools.PickVerdict()
	if err != nil {
		return errors.Wrap(err, "pick judgement")
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open judgement")
	}
	defer f.Close()

	err = r.Reply(i.Interaction, &discordgo.InteractionResponseData{
		Content: Judgement(optionString(i, askQuestionOption)),
		Files: []*discordgo.File{{
			Name:        AttachmentName(path),
			ContentType: contentType(path),
			Reader:      f,
		}},
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	})
	if err != nil {
		return errors.Wrap(err, "send judgement")
	}
	metrics.VerdictCounter.WithLabelValues(verdict.String()).Inc()

	// 返信後に記録する。失敗してもユーザーへの応答には影響させない。
	if err := c.Analytics.UpdateUsage(ctx, i.GuildID, i.ChannelID); err != nil {
		c.Log.Warn("使用状況の記録に失敗しました", "error", err, "guild", i.GuildID)
	}
	return nil
}

// Judgement composes the reply text for a question.
func Judgement(question string) string {
	if question == "" {
		return spokenPlain
	}
	return fmt.Sprintf("The Adachi cube has spoken: `%s`", SanitizeQuestion(question))
}

// SanitizeQuestion strips backticks and @ and makes sure the result ends in '?'.
func SanitizeQuestion(question string) string {
	s := questionReplacer.Replace(question)
	if !strings.HasSuffix(s, "?") {
		s += "?"
	}
	return s
}

// AttachmentName is "judgement.<ext>", using mp4 when the path has no extension.
func AttachmentName(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		ext = defaultExtension
	}
	return "judgement." + ext
}

func contentType(path string) string {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}

package handlers

import (
	"context"
	"fmt"

	"adachi/interfaces"

	"github.com/bwmarrin/discordgo"
)

// ErrorKind classifies errors surfaced by the bot framework.
type ErrorKind int

const (
	// ErrorSetup means the bot cannot start. It is fatal.
	ErrorSetup ErrorKind = iota
	// ErrorCommand is a command handler returning an error.
	ErrorCommand
	// ErrorOther covers everything else: unknown commands, recovered panics,
	// failed event handling.
	ErrorOther
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorSetup:
		return "setup"
	case ErrorCommand:
		return "command"
	default:
		return "other"
	}
}

// FrameworkError is what the framework hands to the ErrorRouter.
type FrameworkError struct {
	Kind    ErrorKind
	Command string
	Err     error

	// Interaction and Replier are set when the error belongs to a user interaction.
	Interaction *discordgo.Interaction
	Replier     interfaces.Replier
}

func (e *FrameworkError) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("%s error in `%s`: %v", e.Kind, e.Command, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *FrameworkError) Unwrap() error { return e.Err }

// ErrorRouter sends framework errors to the analytics sink at the right severity.
type ErrorRouter struct {
	Analytics interfaces.Analytics
	Log       interfaces.Logger
	// Render is the framework's default user-facing error report.
	Render func(ctx context.Context, fe *FrameworkError) error
	// Abort stops the process after a setup failure.
	Abort func(msg string, args ...any)
}

func NewErrorRouter(analytics interfaces.Analytics, log interfaces.Logger) *ErrorRouter {
	return &ErrorRouter{
		Analytics: analytics,
		Log:       log,
		Render:    RenderError,
		Abort:     log.Fatal,
	}
}

// Route logs fe and applies the policy for its kind.
func (r *ErrorRouter) Route(ctx context.Context, fe *FrameworkError) {
	switch fe.Kind {
	case ErrorSetup:
		r.logError(ctx, fmt.Sprintf("failed to set up the bot: %v", fe.Err))
		r.Abort("Botのセットアップに失敗しました", "error", fe.Err)
	case ErrorCommand:
		r.logWarn(ctx, fmt.Sprintf("command `%s` failed: %v", fe.Command, fe.Err))
	default:
		r.logError(ctx, fe.Error())
		if r.Render == nil {
			return
		}
		if err := r.Render(ctx, fe); err != nil {
			r.logError(ctx, fmt.Sprintf("error while handling error: %v", err))
		}
	}
}

func (r *ErrorRouter) logWarn(ctx context.Context, msg string) {
	if err := r.Analytics.Warn(ctx, msg); err != nil {
		r.Log.Warn("警告ログの記録に失敗しました", "error", err, "message", msg)
	}
}

func (r *ErrorRouter) logError(ctx context.Context, msg string) {
	if err := r.Analytics.Error(ctx, msg); err != nil {
		r.Log.Error("エラーログの記録に失敗しました", "error", err, "message", msg)
	}
}

// RenderError tells the user an interaction failed. Errors without an
// interaction have nobody to tell and are ignored.
func RenderError(ctx context.Context, fe *FrameworkError) error {
	if fe.Interaction == nil || fe.Replier == nil {
		return nil
	}
	content := "Something went wrong. Please try again later."
	if fe.Command != "" {
		content = fmt.Sprintf("Something went wrong while running `/%s`. Please try again later.", fe.Command)
	}
	return fe.Replier.Reply(fe.Interaction, &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

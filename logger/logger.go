package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bwmarrin/discordgo"
	"gopkg.in/natefinch/lumberjack.v2"
)

// シングルトンとしてロガーを保持
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Options はロガーの出力先とレベルを指定します。
type Options struct {
	// File が空の場合はファイルへ出力しません。
	File  string
	Level string
}

// Init はグローバルロガーを初期化します。
func Init(opts Options) {
	var w io.Writer = os.Stdout
	if opts.File != "" {
		// ログローテーションの設定
		logFile := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		// ログの出力先を「標準出力（コンソール）」と「ファイル」の両方に設定
		w = io.MultiWriter(os.Stdout, logFile)
	}
	logger = New(w, opts.Level)
	slog.SetDefault(logger)

	discordgo.Logger = discordLogger
}

// New は指定した出力先とレベルで JSON ロガーを作成します。
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     ParseLevel(level),
	}))
}

// ParseLevel maps a config level name to a slog level. Unknown names fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Infoレベルのログを出力
// 例: logger.Info("Botが起動しました", "shard", 0)
func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

// Warnレベルのログを出力
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Errorレベルのログを出力
// 例: logger.Error("コマンドの実行に失敗", "error", err, "command", "ask")
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}

// Fatalレベルのログを出力（出力後にプログラムを終了）
func Fatal(msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}

// Default は interfaces.Logger を満たすグローバルロガーのアダプタを返します。
func Default() *Adapter {
	return &Adapter{l: logger}
}

// Wrap adapts an arbitrary slog logger, mainly for tests.
func Wrap(l *slog.Logger) *Adapter {
	return &Adapter{l: l}
}

// Adapter は slog.Logger を interfaces.Logger として公開します。
type Adapter struct {
	l *slog.Logger
}

func (a *Adapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *Adapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *Adapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
func (a *Adapter) Fatal(msg string, args ...any) {
	a.l.Error(msg, args...)
	os.Exit(1)
}

// discordLogger routes discordgo's internal messages into slog.
func discordLogger(msgL, caller int, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	switch msgL {
	case discordgo.LogError:
		logger.Error(msg, "source", "discordgo")
	case discordgo.LogWarning:
		logger.Warn(msg, "source", "discordgo")
	case discordgo.LogInformational:
		logger.Info(msg, "source", "discordgo")
	default:
		logger.Debug(msg, "source", "discordgo")
	}
}

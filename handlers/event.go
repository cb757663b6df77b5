package handlers

import (
	"context"
	"fmt"
	"strconv"

	"adachi/interfaces"
	"adachi/metrics"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// GuildInfo is the part of a guild lifecycle event the handler needs.
// Name is empty when the platform did not deliver the full guild object.
type GuildInfo struct {
	ID   string
	Name string
}

// EventHandler reacts to ready and guild lifecycle events. It keeps no guild
// counter of its own: every transition re-fetches the count from the platform.
type EventHandler struct {
	Platform  interfaces.Platform
	Analytics interfaces.Analytics
	Log       interfaces.Logger
}

func NewEventHandler(platform interfaces.Platform, analytics interfaces.Analytics, log interfaces.Logger) *EventHandler {
	return &EventHandler{Platform: platform, Analytics: analytics, Log: log}
}

// OnReady logs that the bot is online and refreshes the guild gauge.
func (h *EventHandler) OnReady(ctx context.Context) error {
	if err := h.Analytics.Info(ctx, "online"); err != nil {
		h.Log.Warn("オンライン通知の記録に失敗しました", "error", err)
	}
	_, err := h.RefreshGuildCount(ctx)
	return err
}

// OnGuildCreate handles a guild becoming visible. Only new joins are announced;
// a nil isNew counts as new.
func (h *EventHandler) OnGuildCreate(ctx context.Context, g GuildInfo, isNew *bool) error {
	if isNew != nil && !*isNew {
		return nil
	}
	count, err := h.Platform.GuildCount(ctx)
	if err != nil {
		return errors.Wrapf(err, "fetch guild list after joining %s", g.ID)
	}
	return h.announce(ctx, count, fmt.Sprintf("joined guild `%s`:%s [%d servers]", g.Name, g.ID, count))
}

// OnGuildDelete handles leaving a guild.
func (h *EventHandler) OnGuildDelete(ctx context.Context, g GuildInfo) error {
	count, err := h.Platform.GuildCount(ctx)
	if err != nil {
		return errors.Wrapf(err, "fetch guild list after leaving %s", g.ID)
	}
	name := g.Name
	if name == "" {
		name = "<unknown>"
	}
	return h.announce(ctx, count, fmt.Sprintf("left guild `%s`:%s [%d servers]", name, g.ID, count))
}

// RefreshGuildCount re-fetches the guild count and writes the gauge.
// A telemetry failure is logged, not returned.
func (h *EventHandler) RefreshGuildCount(ctx context.Context) (int, error) {
	count, err := h.Platform.GuildCount(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "fetch guild list")
	}
	h.recordGuilds(ctx, count)
	return count, nil
}

// announce writes the gauge and DMs the owner concurrently. Only the DM
// outcome is returned.
func (h *EventHandler) announce(ctx context.Context, count int, msg string) error {
	var g errgroup.Group
	g.Go(func() error {
		h.recordGuilds(ctx, count)
		return nil
	})
	g.Go(func() error {
		if err := h.Platform.NotifyOwner(ctx, msg); err != nil {
			return errors.Wrap(err, "notify owner")
		}
		return nil
	})
	return g.Wait()
}

func (h *EventHandler) recordGuilds(ctx context.Context, count int) {
	shard := h.Platform.ShardID()
	metrics.Guilds.WithLabelValues(strconv.Itoa(shard)).Set(float64(count))
	if err := h.Analytics.UpdateGuilds(ctx, count, shard); err != nil {
		h.Log.Warn("サーバー数の記録に失敗しました", "error", err, "count", count, "shard", shard)
	}
}

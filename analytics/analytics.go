// Package analytics writes bot telemetry to InfluxDB, or only to the console
// when no InfluxDB endpoint is configured.
package analytics

import (
	"context"
	"io"
	"os"
	"strconv"
	"time"

	client "github.com/influxdata/influxdb1-client/v2"
	"github.com/pkg/errors"
)

var (
	ErrMissingHost       = errors.New("missing host")
	ErrMissingDatabase   = errors.New("missing database")
	ErrMissingIdentifier = errors.New("missing analytics identifier")
)

// Measurement names written to the backend.
const (
	MeasurementGuildCount = "guild_count"
	MeasurementUse        = "use"
	MeasurementLog        = "log"
)

// Sink is either an *InfluxSink or a *NoopSink. Both satisfy interfaces.Analytics.
type Sink interface {
	UpdateGuilds(ctx context.Context, count int, shardID int) error
	UpdateUsage(ctx context.Context, guildID, channelID string) error
	Info(ctx context.Context, msg string) error
	Warn(ctx context.Context, msg string) error
	Error(ctx context.Context, msg string) error
	Identifier() string
	Close() error
}

type options struct {
	out    io.Writer
	now    func() time.Time
	client *client.HTTPConfig
}

// Option customises a sink.
type Option func(*options)

// WithOutput sets where colored log lines are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithHTTPConfig overrides the InfluxDB HTTP client settings. Addr is always
// taken from the host argument of New.
func WithHTTPConfig(conf client.HTTPConfig) Option {
	return func(o *options) { o.client = &conf }
}

// New は host と database の組み合わせからシンクを作成します。
// 両方未設定なら NoopSink、両方設定済みなら InfluxSink、片方のみはエラーです。
func New(host, database, identifier string, opts ...Option) (Sink, error) {
	if host != "" && database == "" {
		return nil, ErrMissingDatabase
	}
	if host == "" && database != "" {
		return nil, ErrMissingHost
	}
	if identifier == "" {
		return nil, ErrMissingIdentifier
	}

	o := options{out: os.Stdout, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	con := &console{out: o.out, now: o.now}

	if host == "" {
		return &NoopSink{identifier: identifier, console: con}, nil
	}

	conf := client.HTTPConfig{Timeout: 10 * time.Second}
	if o.client != nil {
		conf = *o.client
	}
	conf.Addr = host
	c, err := client.NewHTTPClient(conf)
	if err != nil {
		return nil, errors.Wrap(err, "create influx client")
	}
	return &InfluxSink{
		client:     c,
		database:   database,
		identifier: identifier,
		console:    con,
		now:        o.now,
	}, nil
}

// InfluxSink writes one point per operation. The underlying HTTP client is
// safe for concurrent writes; failures are returned, never retried.
type InfluxSink struct {
	client     client.Client
	database   string
	identifier string
	console    *console
	now        func() time.Time
}

func (s *InfluxSink) Identifier() string { return s.identifier }

func (s *InfluxSink) Close() error { return s.client.Close() }

// UpdateGuilds writes a guild_count gauge tagged with the shard.
func (s *InfluxSink) UpdateGuilds(ctx context.Context, count int, shardID int) error {
	return s.write(ctx, MeasurementGuildCount, map[string]string{
		"shard_id": strconv.Itoa(shardID),
	}, count)
}

// UpdateUsage writes a use counter increment tagged with the guild.
// channelID is accepted for future use and not written.
func (s *InfluxSink) UpdateUsage(ctx context.Context, guildID, channelID string) error {
	if guildID == "" {
		guildID = DirectMessageGuild
	}
	return s.write(ctx, MeasurementUse, map[string]string{
		"guild": guildID,
	}, 1)
}

func (s *InfluxSink) Info(ctx context.Context, msg string) error  { return s.log(ctx, LevelInfo, msg) }
func (s *InfluxSink) Warn(ctx context.Context, msg string) error  { return s.log(ctx, LevelWarn, msg) }
func (s *InfluxSink) Error(ctx context.Context, msg string) error { return s.log(ctx, LevelError, msg) }

func (s *InfluxSink) log(ctx context.Context, level Level, msg string) error {
	s.console.print(level, msg)
	return s.write(ctx, MeasurementLog, map[string]string{
		"level": level.String(),
	}, msg)
}

func (s *InfluxSink) write(ctx context.Context, measurement string, tags map[string]string, value interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tags["bot"] = s.identifier

	bp, err := client.NewBatchPoints(client.BatchPointsConfig{Database: s.database})
	if err != nil {
		return errors.Wrap(err, "create batch")
	}
	pt, err := client.NewPoint(measurement, tags, map[string]interface{}{"value": value}, s.now().UTC())
	if err != nil {
		return errors.Wrapf(err, "build %s point", measurement)
	}
	bp.AddPoint(pt)

	if err := s.client.Write(bp); err != nil {
		return errors.Wrapf(err, "write %s point", measurement)
	}
	return nil
}

// NoopSink prints log lines and otherwise does nothing. It never touches the network.
type NoopSink struct {
	identifier string
	console    *console
}

func (s *NoopSink) Identifier() string { return s.identifier }

func (s *NoopSink) Close() error { return nil }

func (s *NoopSink) UpdateGuilds(context.Context, int, int) error { return nil }

func (s *NoopSink) UpdateUsage(context.Context, string, string) error { return nil }

func (s *NoopSink) Info(_ context.Context, msg string) error {
	s.console.print(LevelInfo, msg)
	return nil
}

func (s *NoopSink) Warn(_ context.Context, msg string) error {
	s.console.print(LevelWarn, msg)
	return nil
}

func (s *NoopSink) Error(_ context.Context, msg string) error {
	s.console.print(LevelError, msg)
	return nil
}

package antispam

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

// Registry owns one GuildEngine per guild, created on first use.
type Registry struct {
	config  Config
	gateway Gateway
	logger  *zap.Logger
	engines *xsync.MapOf[string, *GuildEngine]
}

func NewRegistry(cfg Config, gateway Gateway, logger *zap.Logger) *Registry {
	return &Registry{
		config:  cfg,
		gateway: gateway,
		logger:  logger,
		engines: xsync.NewMapOf[string, *GuildEngine](),
	}
}

func (r *Registry) Engine(guildID string) *GuildEngine {
	engine, _ := r.engines.LoadOrCompute(guildID, func() *GuildEngine {
		return NewGuildEngine(guildID, r.config, r.gateway, r.logger.With(zap.String("guild_id", guildID)))
	})
	return engine
}

func (r *Registry) Evaluate(ctx context.Context, msg Message) (Verdict, error) {
	if msg.GuildID == "" {
		return Verdict{}, nil
	}
	return r.Engine(msg.GuildID).Evaluate(ctx, msg)
}

func (r *Registry) Guilds() int {
	return r.engines.Size()
}

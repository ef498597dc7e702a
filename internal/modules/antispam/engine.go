package antispam

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"warden-bot/internal/config"
	"warden-bot/internal/metrics"
	"warden-bot/internal/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

var (
	// ErrPermissionDenied is returned by a Gateway when the platform refuses a moderation action.
	ErrPermissionDenied = errors.New("permission denied")
	ErrMalformedMessage = errors.New("malformed message")
)

const noticeTitle = "Anti-Spam"

// Gateway performs the platform side effects the engine asks for.
type Gateway interface {
	ApplyTimeout(ctx context.Context, guildID, userID string, d time.Duration) error
	SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error
}

type Message struct {
	ID             string
	GuildID        string
	ChannelID      string
	AuthorID       string
	AuthorIsMember bool
	AuthorIsAdmin  bool
	Content        string
	Attachments    []string
	CreatedAt      time.Time
}

type Config struct {
	Window       time.Duration
	Similarity   float64
	Threshold    int
	MuteDuration time.Duration
	DecayEnabled bool
	DecayAfter   time.Duration
	NoticeColor  int
}

func NewConfig(cfg config.AntispamConfig, noticeColor int) Config {
	return Config{
		Window:       cfg.Window(),
		Similarity:   cfg.Similarity,
		Threshold:    cfg.Threshold,
		MuteDuration: cfg.MuteDuration(),
		DecayEnabled: cfg.DecayEnabled,
		DecayAfter:   cfg.DecayAfter(),
		NoticeColor:  noticeColor,
	}
}

type Verdict struct {
	Suspicious    bool
	Count         int
	MuteRequested bool
	Muted         bool
}

type fingerprint struct {
	text      string
	createdAt time.Time
}

type userState struct {
	mu             sync.Mutex
	last           *fingerprint
	count          int
	lastSuspicious time.Time
}

// GuildEngine tracks the last message and suspicion count of every user seen in one guild.
type GuildEngine struct {
	guildID string
	config  Config
	gateway Gateway
	logger  *zap.Logger
	users   *xsync.MapOf[string, *userState]
}

func NewGuildEngine(guildID string, cfg Config, gateway Gateway, logger *zap.Logger) *GuildEngine {
	return &GuildEngine{
		guildID: guildID,
		config:  cfg,
		gateway: gateway,
		logger:  logger,
		users:   xsync.NewMapOf[string, *userState](),
	}
}

func (e *GuildEngine) GuildID() string {
	return e.guildID
}

// Tracked reports how many users have state in this engine.
func (e *GuildEngine) Tracked() int {
	return e.users.Size()
}

// Evaluate checks msg against the author's previous message and mutes the author
// once enough near-duplicates arrived in quick succession. Calls for the same
// author are serialised; gateway failures are logged, never returned.
func (e *GuildEngine) Evaluate(ctx context.Context, msg Message) (Verdict, error) {
	if !msg.AuthorIsMember || msg.AuthorIsAdmin {
		return Verdict{}, nil
	}
	if msg.AuthorID == "" {
		return Verdict{}, fmt.Errorf("%w: missing author", ErrMalformedMessage)
	}
	if msg.GuildID != e.guildID {
		return Verdict{}, fmt.Errorf("%w: guild %s routed to engine %s", ErrMalformedMessage, msg.GuildID, e.guildID)
	}

	state, _ := e.users.LoadOrCompute(msg.AuthorID, func() *userState {
		return &userState{}
	})
	state.mu.Lock()
	defer state.mu.Unlock()

	current := &fingerprint{
		text:      utils.ComparisonString(msg.Content, msg.Attachments),
		createdAt: msg.CreatedAt,
	}
	previous := state.last
	state.last = current
	if previous == nil {
		return Verdict{}, nil
	}

	if current.createdAt.Sub(previous.createdAt) > e.config.Window {
		return Verdict{Count: state.count}, nil
	}
	if utils.SimilarityRatio(previous.text, current.text) < e.config.Similarity {
		return Verdict{Count: state.count}, nil
	}

	if e.config.DecayEnabled && state.count > 0 && current.createdAt.Sub(state.lastSuspicious) > e.config.DecayAfter {
		state.count = 0
	}
	state.count++
	state.lastSuspicious = current.createdAt
	metrics.SpamSuspicious.Inc()

	verdict := Verdict{Suspicious: true, Count: state.count}
	if state.count < e.config.Threshold {
		return verdict, nil
	}

	verdict.MuteRequested = true
	verdict.Muted = e.mute(ctx, msg)
	return verdict, nil
}

func (e *GuildEngine) mute(ctx context.Context, msg Message) bool {
	err := e.gateway.ApplyTimeout(ctx, e.guildID, msg.AuthorID, e.config.MuteDuration)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			metrics.SpamMutes.WithLabelValues("denied").Inc()
			e.logger.Debug("antispam timeout denied", zap.String("user_id", msg.AuthorID), zap.Error(err))
			return false
		}
		metrics.SpamMutes.WithLabelValues("failed").Inc()
		e.logger.Warn("antispam timeout failed", zap.String("user_id", msg.AuthorID), zap.Error(err))
		return false
	}
	metrics.SpamMutes.WithLabelValues("applied").Inc()
	e.logger.Info("antispam timeout applied", zap.String("user_id", msg.AuthorID), zap.Duration("duration", e.config.MuteDuration))

	if err := e.gateway.SendEmbed(ctx, msg.ChannelID, Notice(msg.AuthorID, e.config.NoticeColor)); err != nil {
		e.logger.Warn("antispam notice failed", zap.String("channel_id", msg.ChannelID), zap.Error(err))
	}
	return true
}

// Notice is the embed posted in the channel where a spammer was muted.
func Notice(userID string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       noticeTitle,
		Description: fmt.Sprintf("Possible spam detected for user: <@%s>; please contact a moderator to be unmuted", userID),
		Color:       color,
	}
}

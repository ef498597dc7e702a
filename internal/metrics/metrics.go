package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var SpamSuspicious = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_spam_suspicious_total",
	Help: "Number of messages judged near-duplicates of the author's previous message",
})

// SpamMutes is labelled by result: "applied", "denied" or "failed".
var SpamMutes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_spam_mutes_total",
	Help: "Number of anti-spam timeouts requested",
}, []string{"result"})

// BanStatsBans is labelled by the bucket source: "matched", "untrackable", "manual" or "leftover".
var BanStatsBans = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_banstats_bans_total",
	Help: "Number of bans attributed by ban statistics reconciliation",
}, []string{"source"})

var ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_moderation_actions_total",
	Help: "Number of moderation commands executed",
}, []string{"action"})

var MessagesCached = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_messages_cached_total",
	Help: "Number of guild messages recorded for the event log",
})

func Handler() http.Handler {
	return promhttp.Handler()
}

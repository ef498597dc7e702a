package antispam

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type fakeGateway struct {
	mu         sync.Mutex
	timeoutErr error
	timeouts   []time.Duration
	embeds     []*discordgo.MessageEmbed
	channels   []string
}

func (g *fakeGateway) ApplyTimeout(ctx context.Context, guildID, userID string, d time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.timeouts = append(g.timeouts, d)
	return g.timeoutErr
}

func (g *fakeGateway) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.channels = append(g.channels, channelID)
	g.embeds = append(g.embeds, embed)
	return nil
}

func (g *fakeGateway) counts() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.timeouts), len(g.embeds)
}

func testConfig() Config {
	return Config{
		Window:       5 * time.Second,
		Similarity:   0.9,
		Threshold:    3,
		MuteDuration: 28 * 24 * time.Hour,
		DecayAfter:   time.Hour,
	}
}

func newTestEngine(gateway Gateway) *GuildEngine {
	return NewGuildEngine("g1", testConfig(), gateway, zap.NewNop())
}

func message(content string, at time.Time) Message {
	return Message{
		ID:             fmt.Sprintf("m%d", at.UnixNano()),
		GuildID:        "g1",
		ChannelID:      "c1",
		AuthorID:       "u1",
		AuthorIsMember: true,
		Content:        content,
		CreatedAt:      at,
	}
}

func evaluate(t *testing.T, engine *GuildEngine, msg Message) Verdict {
	t.Helper()
	verdict, err := engine.Evaluate(context.Background(), msg)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	return verdict
}

func TestFirstMessageNeverSuspicious(t *testing.T) {
	gateway := &fakeGateway{}
	engine := newTestEngine(gateway)

	verdict := evaluate(t, engine, message("buy cheap coins", time.Unix(1000, 0)))
	if verdict.Suspicious {
		t.Fatalf("first message flagged")
	}
	if engine.Tracked() != 1 {
		t.Fatalf("expected state after first message, got %d users", engine.Tracked())
	}
}

func TestMessagesOutsideWindowNotSuspicious(t *testing.T) {
	gateway := &fakeGateway{}
	engine := newTestEngine(gateway)
	base := time.Unix(1000, 0)

	for i := 0; i < 6; i++ {
		at := base.Add(time.Duration(i) * 6 * time.Second)
		if verdict := evaluate(t, engine, message("same text", at)); verdict.Suspicious {
			t.Fatalf("message %d flagged despite 6s gap", i)
		}
	}
	if timeouts, _ := gateway.counts(); timeouts != 0 {
		t.Fatalf("expected no timeouts, got %d", timeouts)
	}
}

func TestWindowSlidesWithLastMessage(t *testing.T) {
	engine := newTestEngine(&fakeGateway{})
	base := time.Unix(1000, 0)

	evaluate(t, engine, message("hello there", base))
	evaluate(t, engine, message("something else entirely", base.Add(3*time.Second)))
	// compared with the second message, not the first
	verdict := evaluate(t, engine, message("something else entirely", base.Add(6*time.Second)))
	if !verdict.Suspicious {
		t.Fatalf("expected duplicate of the previous message to be suspicious")
	}
}

func TestThreeDuplicatesMuteOnce(t *testing.T) {
	gateway := &fakeGateway{}
	engine := newTestEngine(gateway)
	base := time.Unix(1000, 0)

	evaluate(t, engine, message("FREE NITRO", base))
	for i := 1; i <= 3; i++ {
		verdict := evaluate(t, engine, message("free nitro", base.Add(time.Duration(i)*time.Second)))
		if !verdict.Suspicious || verdict.Count != i {
			t.Fatalf("hit %d: unexpected verdict %+v", i, verdict)
		}
		if verdict.MuteRequested != (i == 3) {
			t.Fatalf("hit %d: mute requested = %v", i, verdict.MuteRequested)
		}
	}

	timeouts, embeds := gateway.counts()
	if timeouts != 1 || embeds != 1 {
		t.Fatalf("expected one timeout and one notice, got %d and %d", timeouts, embeds)
	}
	if gateway.timeouts[0] != 28*24*time.Hour {
		t.Fatalf("unexpected timeout duration %s", gateway.timeouts[0])
	}
	if gateway.channels[0] != "c1" || gateway.embeds[0].Title != "Anti-Spam" {
		t.Fatalf("unexpected notice %+v in %s", gateway.embeds[0], gateway.channels[0])
	}
}

func TestAttachmentsTakePartInComparison(t *testing.T) {
	engine := newTestEngine(&fakeGateway{})
	base := time.Unix(1000, 0)

	first := message("", base)
	first.Attachments = []string{"scam.png"}
	second := message("", base.Add(time.Second))
	second.Attachments = []string{"holiday-photo-from-the-beach.jpg"}

	evaluate(t, engine, first)
	if verdict := evaluate(t, engine, second); verdict.Suspicious {
		t.Fatalf("different attachments flagged as duplicates")
	}

	third := message("", base.Add(2*time.Second))
	third.Attachments = []string{"HOLIDAY-photo-from-the-beach.jpg"}
	if verdict := evaluate(t, engine, third); !verdict.Suspicious {
		t.Fatalf("same attachment with different case not flagged")
	}
}

func TestAdminsAndNonMembersIgnored(t *testing.T) {
	gateway := &fakeGateway{}
	engine := newTestEngine(gateway)
	base := time.Unix(1000, 0)

	for i := 0; i < 5; i++ {
		msg := message("spam", base.Add(time.Duration(i)*time.Second))
		msg.AuthorIsAdmin = true
		if verdict := evaluate(t, engine, msg); verdict != (Verdict{}) {
			t.Fatalf("admin message produced verdict %+v", verdict)
		}

		msg.AuthorIsAdmin = false
		msg.AuthorIsMember = false
		evaluate(t, engine, msg)
	}
	if engine.Tracked() != 0 {
		t.Fatalf("expected no tracked users, got %d", engine.Tracked())
	}
	if timeouts, _ := gateway.counts(); timeouts != 0 {
		t.Fatalf("expected no timeouts, got %d", timeouts)
	}
}

func TestPermissionDeniedIsSwallowed(t *testing.T) {
	gateway := &fakeGateway{timeoutErr: fmt.Errorf("timeout: %w", ErrPermissionDenied)}
	engine := newTestEngine(gateway)
	base := time.Unix(1000, 0)

	var verdict Verdict
	for i := 0; i < 4; i++ {
		verdict = evaluate(t, engine, message("spam spam", base.Add(time.Duration(i)*time.Second)))
	}
	if !verdict.MuteRequested || verdict.Muted {
		t.Fatalf("expected requested but failed mute, got %+v", verdict)
	}
	if _, embeds := gateway.counts(); embeds != 0 {
		t.Fatalf("notice sent although timeout was denied")
	}
}

func TestCounterDoesNotDecayByDefault(t *testing.T) {
	engine := newTestEngine(&fakeGateway{})
	base := time.Unix(1000, 0)

	evaluate(t, engine, message("hi", base))
	evaluate(t, engine, message("hi", base.Add(time.Second)))
	later := base.Add(48 * time.Hour)
	evaluate(t, engine, message("hi", later))
	verdict := evaluate(t, engine, message("hi", later.Add(time.Second)))
	if verdict.Count != 2 || !verdict.Suspicious {
		t.Fatalf("expected count to carry over, got %+v", verdict)
	}
}

func TestCounterDecaysWhenEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.DecayEnabled = true
	engine := NewGuildEngine("g1", cfg, &fakeGateway{}, zap.NewNop())
	base := time.Unix(1000, 0)

	evaluate(t, engine, message("hi", base))
	evaluate(t, engine, message("hi", base.Add(time.Second)))
	later := base.Add(2 * time.Hour)
	evaluate(t, engine, message("hi", later))
	verdict := evaluate(t, engine, message("hi", later.Add(time.Second)))
	if verdict.Count != 1 {
		t.Fatalf("expected count to restart after decay, got %+v", verdict)
	}
}

func TestMalformedMessageRejected(t *testing.T) {
	engine := newTestEngine(&fakeGateway{})
	msg := message("hi", time.Unix(1000, 0))
	msg.AuthorID = ""
	if _, err := engine.Evaluate(context.Background(), msg); !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("expected ErrMalformedMessage, got %v", err)
	}
}

func TestConcurrentDuplicatesFromOneUser(t *testing.T) {
	gateway := &fakeGateway{}
	engine := newTestEngine(gateway)
	base := time.Unix(1000, 0)
	evaluate(t, engine, message("raid raid raid", base))

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = engine.Evaluate(context.Background(), message("raid raid raid", base.Add(time.Duration(i)*time.Millisecond)))
		}(i)
	}
	wg.Wait()

	// every duplicate is counted exactly once; hits 3..10 request a timeout
	if timeouts, _ := gateway.counts(); timeouts != 8 {
		t.Fatalf("expected 8 timeout requests, got %d", timeouts)
	}
}

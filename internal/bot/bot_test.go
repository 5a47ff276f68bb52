package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"daily-routine/internal/analyzer"
	"daily-routine/internal/model"
	"daily-routine/internal/notify"
	"daily-routine/internal/routine"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

type recordingPlatform struct {
	delivered []string
}

func (r *recordingPlatform) Status(context.Context, string) (bool, error) { return false, nil }

func (r *recordingPlatform) RequestPermission(context.Context, string) (bool, error) {
	return false, nil
}

func (r *recordingPlatform) Deliver(_ context.Context, recipient string, _ notify.Notification) error {
	r.delivered = append(r.delivered, recipient)
	return nil
}

func TestRecipientChatID(t *testing.T) {
	cases := []struct {
		in   string
		id   int64
		want bool
	}{
		{"tg-42", 42, true},
		{"tg--7", -7, true},
		{"user-3", 0, false},
		{"tg-abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		id, ok := recipientChatID(tc.in)
		if ok != tc.want || id != tc.id {
			t.Fatalf("recipientChatID(%q) = %d, %v; want %d, %v", tc.in, id, ok, tc.id, tc.want)
		}
	}
}

func TestPlatformDeliversToChat(t *testing.T) {
	api := &fakeSender{}
	fallback := &recordingPlatform{}
	p := newPlatform(api, fallback)
	ctx := context.Background()

	if ok, _ := p.Status(ctx, "tg-42"); !ok {
		t.Fatalf("expected chat recipients to be allowed")
	}
	if ok, _ := p.RequestPermission(ctx, "tg-42"); !ok {
		t.Fatalf("expected permission for chat recipients")
	}
	if err := p.Deliver(ctx, "tg-42", notify.Notification{Title: "Upcoming Task: <Run>", Body: "soon", Icon: "⏰"}); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(api.sent))
	}
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("unexpected chattable %T", api.sent[0])
	}
	if msg.ChatID != 42 || msg.ParseMode != tgbotapi.ModeHTML {
		t.Fatalf("unexpected message target: %+v", msg.BaseChat)
	}
	if msg.Text != "<b>⏰ Upcoming Task: &lt;Run&gt;</b>\nsoon" {
		t.Fatalf("unexpected text %q", msg.Text)
	}
	if len(fallback.delivered) != 0 {
		t.Fatalf("fallback should not be used for chats")
	}
}

func TestPlatformFallsBackForOtherProfiles(t *testing.T) {
	api := &fakeSender{}
	fallback := &recordingPlatform{}
	p := newPlatform(api, fallback)
	ctx := context.Background()

	if ok, _ := p.Status(ctx, "user-3"); ok {
		t.Fatalf("expected fallback status")
	}
	if err := p.Deliver(ctx, "user-3", notify.Notification{Title: "x"}); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if len(api.sent) != 0 || len(fallback.delivered) != 1 || fallback.delivered[0] != "user-3" {
		t.Fatalf("expected delivery through fallback, sent=%d fallback=%v", len(api.sent), fallback.delivered)
	}
}

func TestPlatformWrapsSendError(t *testing.T) {
	boom := errors.New("boom")
	p := newPlatform(&fakeSender{err: boom}, nil)
	err := p.Deliver(context.Background(), "tg-1", notify.Notification{Title: "x"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}

func TestParsePosition(t *testing.T) {
	if idx, err := parsePosition(" 2 ", 3); err != nil || idx != 1 {
		t.Fatalf("parsePosition(2) = %d, %v", idx, err)
	}
	if _, err := parsePosition("", 3); !errors.Is(err, errNoPosition) {
		t.Fatalf("expected errNoPosition, got %v", err)
	}
	for _, raw := range []string{"0", "4", "-1", "two"} {
		if _, err := parsePosition(raw, 3); !errors.Is(err, errBadPosition) {
			t.Fatalf("parsePosition(%q): expected errBadPosition, got %v", raw, err)
		}
	}
}

func TestParseOnOff(t *testing.T) {
	for _, raw := range []string{"on", "ON", "yes"} {
		if v, err := parseOnOff(raw); err != nil || !v {
			t.Fatalf("parseOnOff(%q) = %v, %v", raw, v, err)
		}
	}
	if v, err := parseOnOff("off"); err != nil || v {
		t.Fatalf("parseOnOff(off) = %v, %v", v, err)
	}
	if _, err := parseOnOff("maybe"); err == nil {
		t.Fatalf("expected error for maybe")
	}
}

func TestParseWaterDelta(t *testing.T) {
	cases := map[string]int{"": 1, "+": 1, "-": -1, "+1": 1, " - ": -1}
	for raw, want := range cases {
		got, err := parseWaterDelta(raw)
		if err != nil || got != want {
			t.Fatalf("parseWaterDelta(%q) = %d, %v; want %d", raw, got, err, want)
		}
	}
	for _, raw := range []string{"lots", "+2", "-3", "0", "100"} {
		if _, err := parseWaterDelta(raw); err == nil {
			t.Fatalf("parseWaterDelta(%q): expected error", raw)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" Yoga; Reading ,, Meditation ;")
	want := []string{"Yoga", "Reading", "Meditation"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("splitList = %v", got)
	}
	if len(splitList(" ; ")) != 0 {
		t.Fatalf("expected no items")
	}
}

func TestStripIcon(t *testing.T) {
	cases := map[string]string{
		"🩺 Health":  "Health",
		"🟡 medium":  "medium",
		"Work":      "Work",
		"Deep Work": "Deep Work",
		" 💼 ":       "💼",
	}
	for in, want := range cases {
		if got := stripIcon(in); got != want {
			t.Fatalf("stripIcon(%q) = %q, want %q", in, got, want)
		}
	}
	for _, c := range model.Categories {
		parsed, err := model.ParseCategory(stripIcon(categoryButton(c)))
		if err != nil || parsed != c {
			t.Fatalf("category button %q does not parse back: %v", categoryButton(c), err)
		}
	}
}

func TestShortTitle(t *testing.T) {
	if got := shortTitle("morning run", 20); got != "Morning run" {
		t.Fatalf("shortTitle = %q", got)
	}
	if got := shortTitle("read a chapter of a book", 10); got != "Read a ch…" {
		t.Fatalf("shortTitle = %q", got)
	}
}

func TestFormatTaskLine(t *testing.T) {
	task := model.Task{
		Name: "<Run>", Time: "07:00", Icon: "🏃", Category: model.CategoryHealth,
		Priority: model.PriorityHigh, Repeat: model.RepeatDaily, Completed: true, Streak: 3, Duration: 30,
	}
	got := formatTaskLine(1, task)
	want := "✅ <b>1.</b> 07:00 🏃 &lt;Run&gt; · 🔥 3\n   🔴 🩺 Health · 30 min · every day\n"
	if got != want {
		t.Fatalf("formatTaskLine:\n%q\nwant\n%q", got, want)
	}
}

func TestFormatSummaryOrdersCategories(t *testing.T) {
	s := routine.Summarize([]model.Task{
		{Name: "a", Time: "07:00", Category: model.CategoryWork},
		{Name: "b", Time: "13:00", Category: model.CategoryHealth, Completed: true},
		{Name: "c", Time: "19:00", Category: model.CategoryHealth},
	})
	out := formatSummary(s)
	if !strings.Contains(out, "Completed: 1 of 3 (33%)") {
		t.Fatalf("missing completion line:\n%s", out)
	}
	if strings.Index(out, "Health: 2") > strings.Index(out, "Work: 1") {
		t.Fatalf("expected larger category first:\n%s", out)
	}
}

func TestFormatAnalysis(t *testing.T) {
	if out := formatAnalysis(analyzer.Result{}); !strings.Contains(out, "balanced") {
		t.Fatalf("expected balanced message, got %q", out)
	}
	out := formatAnalysis(analyzer.Result{
		Activities:   []analyzer.Suggestion{{Name: "Power Nap", Time: "13:00", Duration: 60, Category: model.CategoryRelax}},
		Improvements: []string{"Add variety"},
	})
	if !strings.Contains(out, "1. 13:00 Power Nap, 60 min") || !strings.Contains(out, "• Add variety") {
		t.Fatalf("unexpected analysis text:\n%s", out)
	}
}

func TestWaterBar(t *testing.T) {
	if got := waterBar(model.WaterIntake{Amount: 2, Goal: 4}); got != "💧💧▫️▫️" {
		t.Fatalf("waterBar = %q", got)
	}
	if got := waterBar(model.WaterIntake{Amount: 9, Goal: 3}); got != "💧💧💧" {
		t.Fatalf("waterBar over goal = %q", got)
	}
}

func TestFormatQuoteEscapes(t *testing.T) {
	out := formatQuote(quote{text: "a < b", author: "Me & You"})
	if !strings.Contains(out, "a &lt; b") || !strings.Contains(out, "Me &amp; You") {
		t.Fatalf("quote not escaped: %q", out)
	}
	if q := randomQuote(); q.text == "" || q.author == "" {
		t.Fatalf("empty quote")
	}
}

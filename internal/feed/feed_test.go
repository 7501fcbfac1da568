package feed

import (
	"context"
	"reflect"
	"regexp"
	"testing"
	"time"

	"github.com/sentralab/sentra/internal/model"
)

var liveID = regexp.MustCompile(`^LIVE-\d{5}$`)

func TestGeneratorNext(t *testing.T) {
	th := model.DefaultConfig().Engine.Thresholds
	g := NewSeededGenerator(th, 42)

	knownSources := map[string]bool{}
	for _, s := range sources {
		knownSources[s] = true
	}
	knownContent := map[string]bool{}
	for _, s := range samples {
		knownContent[s.text] = true
	}

	for i := 0; i < 200; i++ {
		item := g.Next()

		if !liveID.MatchString(item.ID) {
			t.Fatalf("item id %q does not match LIVE-#####", item.ID)
		}
		if !knownSources[item.Source] {
			t.Fatalf("unknown source %q", item.Source)
		}
		if !knownContent[item.Content] {
			t.Fatalf("content %q is not a known sample", item.Content)
		}
		if item.Risk.Value < 0 || item.Risk.Value > 100 {
			t.Fatalf("score %d out of range", item.Risk.Value)
		}
		if item.Risk.Level != th.Level(item.Risk.Value) {
			t.Fatalf("level %s inconsistent with score %d", item.Risk.Level, item.Risk.Value)
		}
		if item.Flagged != (item.Risk.Value >= th.Medium) {
			t.Fatalf("flagged %v inconsistent with score %d", item.Flagged, item.Risk.Value)
		}

		switch {
		case item.Risk.Value > 50 && item.Sentiment != model.SentimentNegative:
			t.Fatalf("score %d should read Negative, got %s", item.Risk.Value, item.Sentiment)
		case item.Risk.Value < 20 && item.Sentiment != model.SentimentPositive:
			t.Fatalf("score %d should read Positive, got %s", item.Risk.Value, item.Sentiment)
		}
	}
}

func TestGeneratorSeededReproducible(t *testing.T) {
	th := model.DefaultConfig().Engine.Thresholds
	a := NewSeededGenerator(th, 7)
	b := NewSeededGenerator(th, 7)

	for i := 0; i < 10; i++ {
		x, y := a.Next(), b.Next()
		x.Timestamp, y.Timestamp = time.Time{}, time.Time{}
		if !reflect.DeepEqual(x, y) {
			t.Fatalf("draw %d diverged:\n%+v\n%+v", i, x, y)
		}
	}
}

func TestGeneratorBurst(t *testing.T) {
	g := NewSeededGenerator(model.DefaultConfig().Engine.Thresholds, 1)
	items := g.Burst(5)
	if len(items) != 5 {
		t.Fatalf("Burst(5) returned %d items", len(items))
	}
}

func TestQuickCategories(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "phishing keywords",
			text: "URGENT: Verify your banking credentials immediately or account suspended.",
			want: []string{"Phishing"},
		},
		{
			name: "violence keyword",
			text: "Explosive devices rigged at three locations. Ready for signal.",
			want: []string{"Violence"},
		},
		{
			name: "cybersecurity keyword",
			text: "Malware sample exfiltrating financial records from internal server.",
			want: []string{"Cybersecurity"},
		},
		{
			name: "misinformation keyword",
			text: "BREAKING: Source claims government suppressing cure — share before deleted!",
			want: []string{"Misinformation"},
		},
		{
			name: "suspicious activity keywords",
			text: "We need to talk. Meet me at the old warehouse at midnight. Delete this.",
			want: []string{"Suspicious Activity"},
		},
		{
			name: "several labels in rule order",
			text: "urgent attack with malware crossing the border",
			want: []string{"Violence", "Cybersecurity", "Phishing", "Suspicious Activity"},
		},
		{
			name: "clean text",
			text: "Can someone send me the API documentation link?",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuickCategories(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("QuickCategories(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestGeneratorStream(t *testing.T) {
	g := NewSeededGenerator(model.DefaultConfig().Engine.Thresholds, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := g.Stream(ctx, time.Millisecond)

	for i := 0; i < 3; i++ {
		select {
		case item, ok := <-ch:
			if !ok {
				t.Fatal("stream closed early")
			}
			if item.ID == "" {
				t.Fatal("stream emitted an empty item")
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for a feed item")
		}
	}

	cancel()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream did not close after cancel")
		}
	}
}

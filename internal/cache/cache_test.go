package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/sentralab/sentra/internal/model"
)

func TestKey(t *testing.T) {
	a := Key("urgent: verify your account")
	b := Key("urgent: verify your account")
	c := Key("urgent: verify your account.")

	if a != b {
		t.Error("identical content produced different keys")
	}
	if a == c {
		t.Error("different content produced the same key")
	}
	if !strings.HasPrefix(a, "sentra:v1:") {
		t.Errorf("key %q lacks the version prefix", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Get on an empty cache reported a hit")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if val, found := c.Get("k"); !found || string(val) != "v" {
		t.Errorf("Get(k) = %q, %v; want v, true", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Get after Delete reported a hit")
	}

	_ = c.Set("a", []byte("1"), time.Minute)
	_ = c.Set("b", []byte("2"), time.Minute)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("Get after Clear reported a hit")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_ = c.Set("short", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("short"); found {
		t.Error("entry outlived its TTL")
	}
}

func TestResultCache(t *testing.T) {
	rc := NewResultCache(NewMemoryCache(time.Minute, time.Minute), time.Minute)

	content := "transfer the customer records to the usb drive"
	if _, ok := rc.Get(content); ok {
		t.Error("Get before Set reported a hit")
	}

	stored := &model.AnalysisResult{
		ContentHash: "abcdef0123456789",
		Risk:        model.RiskScore{Value: 50, Level: model.LevelMedium},
		Flagged:     true,
		Categories:  []string{"data_exfiltration"},
	}
	rc.Set(content, stored)

	got, ok := rc.Get(content)
	if !ok {
		t.Fatal("Get after Set missed")
	}
	if got.Risk.Value != 50 || got.Risk.Level != model.LevelMedium {
		t.Errorf("cached risk = %d/%s, want 50/MEDIUM", got.Risk.Value, got.Risk.Level)
	}
	if len(got.Categories) != 1 || got.Categories[0] != "data_exfiltration" {
		t.Errorf("cached categories = %v", got.Categories)
	}

	if _, ok := rc.Get(content + " amended"); ok {
		t.Error("different content hit the same entry")
	}
}

func TestResultCachePoisonedEntry(t *testing.T) {
	backend := NewMemoryCache(time.Minute, time.Minute)
	rc := NewResultCache(backend, time.Minute)

	content := "some content"
	_ = backend.Set(Key(content), []byte("not json"), time.Minute)

	if _, ok := rc.Get(content); ok {
		t.Error("undecodable entry reported as a hit")
	}
	if _, found := backend.Get(Key(content)); found {
		t.Error("undecodable entry was not evicted")
	}
}

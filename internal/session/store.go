// Package session keeps the assessments of one monitoring session in memory
// and renders them for export. Content identity lives in the result's
// fingerprint; the session only adds envelope data (id, time, source).
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sentralab/sentra/internal/model"
)

// Record is one stored assessment with its session envelope.
type Record struct {
	ID        string                `json:"id"`
	Timestamp time.Time             `json:"timestamp"`
	Source    string                `json:"source"`
	Result    *model.AnalysisResult `json:"result"`
}

// Stats summarizes a session.
type Stats struct {
	TotalAnalyzed   int            `json:"total_analyzed"`
	ThreatsDetected int            `json:"threats_detected"`
	AvgRiskScore    float64        `json:"avg_risk_score"`
	ThreatLevel     string         `json:"threat_level"`
	ByLevel         map[string]int `json:"by_level"`
}

// Store holds a session's records. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records []*Record
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{}
}

// Add stores a result under a fresh analysis id and returns the record.
func (s *Store) Add(source string, res *model.AnalysisResult) *Record {
	return s.AddWithID(fmt.Sprintf("SENT-%s", uuid.New().String()[:8]), source, res)
}

// AddWithID stores a result under a caller-chosen id (live feed events carry
// their own).
func (s *Store) AddWithID(id, source string, res *model.AnalysisResult) *Record {
	rec := &Record{
		ID:        id,
		Timestamp: time.Now().UTC(),
		Source:    source,
		Result:    res,
	}

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()
	return rec
}

// Records returns a snapshot of the stored records in insertion order.
func (s *Store) Records() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear drops all records.
func (s *Store) Clear() {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
}

// Stats computes the session summary. The session threat level starts at
// MODERATE and escalates to HIGH or CRITICAL with the worst stored result.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		ThreatLevel: "MODERATE",
		ByLevel:     make(map[string]int),
	}

	var total int
	for _, rec := range s.records {
		stats.TotalAnalyzed++
		total += rec.Result.Risk.Value
		stats.ByLevel[string(rec.Result.Risk.Level)]++
		if rec.Result.Flagged {
			stats.ThreatsDetected++
		}
	}

	if stats.TotalAnalyzed > 0 {
		stats.AvgRiskScore = float64(total) / float64(stats.TotalAnalyzed)
	}
	if stats.ByLevel[string(model.LevelHigh)] > 0 {
		stats.ThreatLevel = "HIGH"
	}
	if stats.ByLevel[string(model.LevelCritical)] > 0 {
		stats.ThreatLevel = "CRITICAL"
	}
	return stats
}

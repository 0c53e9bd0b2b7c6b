// Package scoring maintains trip trust scores from verification outcomes.
package scoring

import (
	"context"
	"encoding/json"
	"log/slog"

	"gatepass-service/internal/events"
	"gatepass-service/pkg/kafka"
)

// deniedPenalty is subtracted from a trip's trust score per denied scan.
const deniedPenalty = 5

// TrustStore adjusts a trip's trust score by a delta, clamped by the store.
type TrustStore interface {
	AdjustTrustScore(ctx context.Context, tripID string, delta int) error
}

// Scorer consumes gatepass.denied events and lowers the trust score of the
// trips involved. Trips never regain score here; that is left to whatever
// offline process audits them.
type Scorer struct {
	kafka *kafka.Client
	store TrustStore
}

// NewScorer creates a scorer.
func NewScorer(k *kafka.Client, store TrustStore) *Scorer {
	return &Scorer{kafka: k, store: store}
}

// Start begins consuming gatepass.denied in a background goroutine.
func (s *Scorer) Start(ctx context.Context) {
	s.kafka.Subscribe(ctx, kafka.TopicGatepassDenied, "trust-scoring", func(data []byte) error {
		var ev events.VerificationDeniedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}

		// Denials before a trip is identified (bad credential, garbage
		// token) have no trip to score.
		if ev.TripID == "" {
			return nil
		}

		if err := s.store.AdjustTrustScore(ctx, ev.TripID, -deniedPenalty); err != nil {
			slog.Warn("trust score adjustment failed", "trip_id", ev.TripID, "error", err)
			return err
		}
		slog.Info("trust score lowered", "trip_id", ev.TripID, "reason", ev.Reason)
		return nil
	})
}

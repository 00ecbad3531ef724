// Package categorizer scores uncategorized transactions against a keyword
// taxonomy and suggests a category with a confidence value. It never
// persists anything itself: accepting a suggestion goes through a
// caller-supplied updater.
package categorizer

import (
	"context"
	"strings"

	"contas/internal/core"
)

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Tier is the presentation band for a confidence value.
type Tier string

// Config holds the scoring thresholds. The defaults come from the original
// tuning; they are configuration, not invariants.
type Config struct {
	// MinConfidence is the exclusive lower bound for emitting a suggestion.
	MinConfidence float64
	// AutoAcceptConfidence is the exclusive lower bound for bulk acceptance.
	AutoAcceptConfidence float64
	// FullConfidenceMatches is the keyword-match count worth confidence 1.0.
	FullConfidenceMatches int
	// MediumTier and HighTier are the presentation band boundaries.
	MediumTier float64
	HighTier   float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinConfidence:         0.3,
		AutoAcceptConfidence:  0.7,
		FullConfidenceMatches: 3,
		MediumTier:            0.6,
		HighTier:              0.8,
	}
}

// Suggestion is a proposed category for one transaction.
type Suggestion struct {
	Transaction core.Transaction `json:"transaction"`
	Category    string           `json:"category"`
	Confidence  float64          `json:"confidence"`
	Tier        Tier             `json:"tier"`
}

// CategoryUpdater is the write-back side of acceptance, implemented by the
// persistence collaborator.
type CategoryUpdater interface {
	UpdateTransactionCategory(ctx context.Context, txID, category string) error
}

// Categorizer scores transactions against an immutable rule set. Safe for
// concurrent use: it holds no mutable state.
type Categorizer struct {
	rules RuleSet
	cfg   Config
}

func New(rules RuleSet, cfg Config) *Categorizer {
	return &Categorizer{rules: rules, cfg: cfg}
}

// Suggest scores one transaction. The second return is false when there is
// nothing to suggest: empty text, no keyword hits, a tie between two
// categories, or confidence at or below the emission threshold. Ties are
// deliberately not broken — two merchants matching different categories
// equally well must surface to the user, not silently pick one.
func (c *Categorizer) Suggest(tx core.Transaction) (Suggestion, bool) {
	text := searchText(tx)
	if len(text) < 3 {
		return Suggestion{}, false
	}

	var (
		best       string
		bestScore  int
		secondBest int
	)
	for _, rule := range c.rules {
		score := 0
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(text, kw) {
				score++
			}
		}
		switch {
		case score > bestScore:
			secondBest = bestScore
			bestScore = score
			best = rule.Category
		case score > secondBest:
			secondBest = score
		}
	}

	if bestScore == 0 || bestScore == secondBest {
		return Suggestion{}, false
	}

	confidence := float64(bestScore) / float64(c.cfg.FullConfidenceMatches)
	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence <= c.cfg.MinConfidence {
		return Suggestion{}, false
	}

	return Suggestion{
		Transaction: tx,
		Category:    best,
		Confidence:  confidence,
		Tier:        c.ConfidenceTier(confidence),
	}, true
}

// BulkSuggest scores every transaction that has no effective category yet,
// preserving input order.
func (c *Categorizer) BulkSuggest(txs []core.Transaction) []Suggestion {
	var out []Suggestion
	for _, tx := range txs {
		if !tx.IsUncategorized() {
			continue
		}
		if s, ok := c.Suggest(tx); ok {
			out = append(out, s)
		}
	}
	return out
}

// AutoAcceptable reports whether a suggestion clears the bulk-acceptance
// threshold.
func (c *Categorizer) AutoAcceptable(s Suggestion) bool {
	return s.Confidence > c.cfg.AutoAcceptConfidence
}

// ConfidenceTier maps a confidence value to its presentation band.
func (c *Categorizer) ConfidenceTier(confidence float64) Tier {
	switch {
	case confidence >= c.cfg.HighTier:
		return TierHigh
	case confidence >= c.cfg.MediumTier:
		return TierMedium
	default:
		return TierLow
	}
}

// Accept requests the category write-back for a suggestion through the
// caller's updater.
func (c *Categorizer) Accept(ctx context.Context, s Suggestion, updater CategoryUpdater) error {
	return updater.UpdateTransactionCategory(ctx, s.Transaction.ID, s.Category)
}

// searchText builds the lowercase haystack from description and merchant.
func searchText(tx core.Transaction) string {
	text := strings.TrimSpace(tx.Description)
	if m := strings.TrimSpace(tx.Merchant); m != "" {
		if text != "" {
			text += " "
		}
		text += m
	}
	return strings.ToLower(text)
}

package leak

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/zee-1/TheSnitchBot-sub001/pkg/logging"
)

// ErrNoCandidates means the message window held no eligible participants.
// This is a normal outcome, not a failure.
var ErrNoCandidates = errors.New("no eligible candidates in window")

const (
	poolWindowSize = 200

	primaryMinScore  = 0.1
	primaryMinAvgLen = 15.0

	fallbackMinScore  = 0.05
	fallbackMinAvgLen = 10.0

	sampledMessagesPerAuthor = 10
	recencyDecayHours        = 24.0
)

// SelectorConfig configures candidate selection.
type SelectorConfig struct {
	MinRecentMessages int // minimum messages to qualify (default 2)
	MinMessageLength  int // minimum content length counted (default 10)
	MaxCandidates     int // pool cap after scoring (default 50)
	FallbackLimit     int // fallback pool cap (default 10)
	Registry          *TargetRegistry
	Logger            logging.Logger
}

// Selector builds a scored candidate pool from a message window and picks
// one participant, tracking recent targets per community.
type Selector struct {
	minRecentMessages int
	minMessageLength  int
	maxCandidates     int
	fallbackLimit     int
	registry          *TargetRegistry
	logger            logging.Logger
	now               func() time.Time
}

func NewSelector(cfg SelectorConfig) *Selector {
	if cfg.MinRecentMessages <= 0 {
		cfg.MinRecentMessages = 2
	}
	if cfg.MinMessageLength <= 0 {
		cfg.MinMessageLength = 10
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = 50
	}
	if cfg.FallbackLimit <= 0 {
		cfg.FallbackLimit = 10
	}
	if cfg.Registry == nil {
		cfg.Registry = NewTargetRegistry()
	}
	return &Selector{
		minRecentMessages: cfg.MinRecentMessages,
		minMessageLength:  cfg.MinMessageLength,
		maxCandidates:     cfg.MaxCandidates,
		fallbackLimit:     cfg.FallbackLimit,
		registry:          cfg.Registry,
		logger:            cfg.Logger,
		now:               time.Now,
	}
}

// Select picks one target from the window. The recently-targeted check and
// the final record happen under the community lock, so concurrent
// selections for the same community cannot double-pick.
func (s *Selector) Select(ctx context.Context, window []Message, invokingUserID, communityID string) (*Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := s.buildPool(window, invokingUserID)
	selectionPoolSize.Observe(float64(len(candidates)))
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	var selected *Candidate
	s.registry.Do(communityID, func(v RegistryView) {
		filtered := s.primaryFilter(candidates, v)
		if len(filtered) == 0 {
			if s.logger != nil {
				s.logger.WithFields(logging.Fields{
					"community_id": communityID,
					"pool_size":    len(candidates),
				}).Warn("Selector: no candidates passed filtering, applying fallback strategy")
			}
			filtered = s.fallbackFilter(candidates)
		}

		// Uniform random pick: score shapes the surviving pool, never the
		// final draw.
		selected = filtered[rand.Intn(len(filtered))]
		v.Record(selected.UserID)
	})

	if s.logger != nil {
		s.logger.WithFields(logging.Fields{
			"community_id": communityID,
			"user_id":      selected.UserID,
			"pool_size":    len(candidates),
		}).Info("Selector: target selected")
	}
	return selected, nil
}

// Stats returns recent selection statistics for a community.
func (s *Selector) Stats(communityID string) SelectionStats {
	return s.registry.Stats(communityID)
}

func (s *Selector) buildPool(window []Message, invokingUserID string) []*Candidate {
	if len(window) > poolWindowSize {
		window = window[len(window)-poolWindowSize:]
	}

	byAuthor := make(map[string]*Candidate)
	channels := make(map[string]map[string]struct{})

	for _, msg := range window {
		content := strings.TrimSpace(msg.Content)
		if msg.Bot || msg.AuthorID == invokingUserID || len(content) < s.minMessageLength {
			continue
		}

		c, ok := byAuthor[msg.AuthorID]
		if !ok {
			c = &Candidate{
				UserID:      msg.AuthorID,
				DisplayName: displayName(msg),
			}
			byAuthor[msg.AuthorID] = c
			channels[msg.AuthorID] = make(map[string]struct{})
		}

		c.MessageCount++
		c.TotalChars += len(msg.Content)
		c.RecentMessages = append(c.RecentMessages, msg.Content)
		if len(c.RecentMessages) > sampledMessagesPerAuthor {
			c.RecentMessages = c.RecentMessages[len(c.RecentMessages)-sampledMessagesPerAuthor:]
		}
		channels[msg.AuthorID][msg.ChannelID] = struct{}{}
		if msg.CreatedAt.After(c.LastMessageAt) {
			c.LastMessageAt = msg.CreatedAt
		}
	}

	now := s.now()
	candidates := make([]*Candidate, 0, len(byAuthor))
	for id, c := range byAuthor {
		c.AvgMessageLen = float64(c.TotalChars) / float64(c.MessageCount)
		for ch := range channels[id] {
			c.Channels = append(c.Channels, ch)
		}

		recencyHours := recencyDecayHours
		if !c.LastMessageAt.IsZero() {
			recencyHours = now.Sub(c.LastMessageAt).Hours()
		}
		recencyFactor := 1 - recencyHours/recencyDecayHours
		if recencyFactor < 0 {
			recencyFactor = 0
		}

		c.ActivityScore = float64(c.MessageCount)*0.4 +
			(c.AvgMessageLen/100)*0.2 +
			float64(len(c.Channels))*0.2 +
			recencyFactor*0.2

		if c.MessageCount >= s.minRecentMessages && c.AvgMessageLen >= float64(s.minMessageLength) {
			candidates = append(candidates, c)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ActivityScore > candidates[j].ActivityScore
	})
	if len(candidates) > s.maxCandidates {
		candidates = candidates[:s.maxCandidates]
	}
	return candidates
}

func (s *Selector) primaryFilter(candidates []*Candidate, v RegistryView) []*Candidate {
	filtered := make([]*Candidate, 0, len(candidates))
	for _, c := range candidates {
		if v.RecentlyTargeted(c.UserID) {
			continue
		}
		if c.ActivityScore < primaryMinScore {
			continue
		}
		if len(c.RecentMessages) < 1 {
			continue
		}
		if c.AvgMessageLen < primaryMinAvgLen {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

// fallbackFilter relaxes thresholds and drops the recency exclusion. The
// result is shuffled so rank order does not bias the final uniform pick.
func (s *Selector) fallbackFilter(candidates []*Candidate) []*Candidate {
	fallback := make([]*Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ActivityScore < fallbackMinScore {
			continue
		}
		if len(c.RecentMessages) < 1 {
			continue
		}
		if c.AvgMessageLen < fallbackMinAvgLen {
			continue
		}
		fallback = append(fallback, c)
	}

	if len(fallback) == 0 {
		limit := s.fallbackLimit
		if limit > len(candidates) {
			limit = len(candidates)
		}
		fallback = append(fallback, candidates[:limit]...)
	}

	rand.Shuffle(len(fallback), func(i, j int) {
		fallback[i], fallback[j] = fallback[j], fallback[i]
	})
	if len(fallback) > s.fallbackLimit {
		fallback = fallback[:s.fallbackLimit]
	}
	return fallback
}

func displayName(msg Message) string {
	if msg.AuthorName != "" {
		return msg.AuthorName
	}
	id := msg.AuthorID
	if len(id) > 8 {
		id = id[:8]
	}
	return "User-" + id
}

package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pushp314/prompttutor-backend/internal/badges"
	"github.com/pushp314/prompttutor-backend/internal/database"
	"github.com/pushp314/prompttutor-backend/internal/evaluator"
	"github.com/pushp314/prompttutor-backend/internal/graph"
	"github.com/pushp314/prompttutor-backend/internal/history"
	"github.com/pushp314/prompttutor-backend/internal/leaderboard"
	"github.com/pushp314/prompttutor-backend/internal/models"
	"github.com/pushp314/prompttutor-backend/internal/store"
	apperrors "github.com/pushp314/prompttutor-backend/pkg/errors"
	"github.com/pushp314/prompttutor-backend/pkg/logger"
)

// LeaderboardCachePrefix namespaces the cached leaderboard responses
// invalidated on every processed submission.
const LeaderboardCachePrefix = "leaderboard:"

// Profile is the single local user profile.
type Profile struct {
	UserID    string `json:"userId"`
	Username  string `json:"username,omitempty"`
	Contact   string `json:"contact,omitempty"`
	Continent string `json:"continent,omitempty"`
}

// SubmissionRequest is one prompt submitted for review.
type SubmissionRequest struct {
	Prompt    string            `json:"prompt" binding:"required"`
	Type      models.PromptType `json:"type" binding:"required"`
	Username  string            `json:"username"`
	Contact   string            `json:"contact"`
	Continent string            `json:"continent"`
}

// SubmissionOutcome is everything a UI layer would render after one
// processed submission. PersistenceWarnings surfaces store writes that
// failed after the in-memory state was already updated.
type SubmissionOutcome struct {
	Result              models.ReviewResult      `json:"result"`
	Event               models.SubmissionEvent   `json:"event"`
	NewBadges           []badges.UnlockedBadge   `json:"newBadges"`
	LeaderboardEntry    *models.LeaderboardEntry `json:"leaderboardEntry"`
	GraphDelta          models.GraphDelta        `json:"graphDelta"`
	PersistenceWarnings []string                 `json:"persistenceWarnings,omitempty"`
}

// ExportBundle is the full-profile export/import shape.
type ExportBundle struct {
	UserProfile Profile                    `json:"userProfile"`
	History     []models.SubmissionEvent   `json:"history"`
	Leaderboard models.LeaderboardSnapshot `json:"leaderboard"`
	Badges      models.UnlockedBadgeRecord `json:"badges"`
	Graph       models.GraphSnapshot       `json:"knowledgeGraph"`
}

// ReviewService runs the submission pipeline: validate, score via the
// collaborator, then fan the immutable event out to the badge engine,
// knowledge graph and leaderboard. One submission is processed at a
// time; the busy gate rejects overlap so partial fan-out is never
// observable.
type ReviewService struct {
	History  *history.Store
	Badges   *badges.Engine
	Graph    *graph.Graph
	Board    *leaderboard.Aggregator
	Reviewer evaluator.Reviewer

	kv      *store.Store
	profile Profile
	busy    atomic.Bool
}

func NewReviewService(kv *store.Store, hist *history.Store, engine *badges.Engine, g *graph.Graph, board *leaderboard.Aggregator, reviewer evaluator.Reviewer) *ReviewService {
	s := &ReviewService{
		History:  hist,
		Badges:   engine,
		Graph:    g,
		Board:    board,
		Reviewer: reviewer,
		kv:       kv,
	}

	kv.Load(store.KeyUserProfile, &s.profile)

	var graphSnap models.GraphSnapshot
	if kv.Load(store.KeyKnowledgeGraph, &graphSnap) {
		g.Import(graphSnap)
	}
	var boardSnap models.LeaderboardSnapshot
	if kv.Load(store.KeyLeaderboard, &boardSnap) {
		board.Import(boardSnap)
	}

	return s
}

// Profile returns the current local profile.
func (s *ReviewService) Profile() Profile {
	return s.profile
}

// ProcessSubmission runs one prompt through the full pipeline.
// Validation failures and collaborator failures leave no state behind:
// history is only written after scoring succeeds.
func (s *ReviewService) ProcessSubmission(ctx context.Context, req SubmissionRequest) (*SubmissionOutcome, error) {
	if req.Prompt == "" || req.Type == "" {
		return nil, apperrors.BadRequest("Prompt and type are required")
	}
	if !validType(req.Type) {
		return nil, apperrors.BadRequest(fmt.Sprintf("Unknown prompt type %q", req.Type))
	}

	if !s.busy.CompareAndSwap(false, true) {
		return nil, apperrors.ErrReviewInFlight
	}
	defer s.busy.Store(false)

	s.updateProfile(req)

	// The scoring call is the only suspension point. It is awaited to
	// completion before any state changes, so a failure here means the
	// submission simply never happened.
	result, err := s.Reviewer.Review(ctx, req.Prompt, req.Type)
	if err != nil {
		return nil, fmt.Errorf("review prompt: %w", err)
	}

	outcome := &SubmissionOutcome{Result: result}
	warn := func(err error) {
		if err != nil {
			logger.Error().Err(err).Msg("Persistence write failed, in-memory state kept")
			outcome.PersistenceWarnings = append(outcome.PersistenceWarnings, err.Error())
		}
	}

	event, err := s.History.Append(models.SubmissionEvent{
		Prompt:    result.Prompt,
		Type:      result.Type,
		Score:     result.Score,
		Criteria:  result.Criteria,
		Styles:    result.Styles,
		Timestamp: time.Now().UnixMilli(),
		Username:  s.profile.Username,
		Contact:   s.profile.Contact,
		Continent: s.profile.Continent,
	})
	warn(err)
	outcome.Event = event

	// Fan-out. The three consumers are independent and all read the
	// same immutable event via the history log.
	unlocked, err := s.Badges.Evaluate(s.History.Entries())
	warn(err)
	outcome.NewBadges = unlocked

	outcome.GraphDelta = s.Graph.Ingest(result)
	warn(s.kv.Save(store.KeyKnowledgeGraph, s.Graph.Export()))

	entry := s.Board.RecordSubmission(s.profile.UserID, s.displayName(), s.profile.Continent, event.Score, event.Type)
	s.Board.UpdateBadges(s.profile.UserID, s.allUnlockedBadges())
	warn(s.kv.Save(store.KeyLeaderboard, s.Board.Export()))
	outcome.LeaderboardEntry = entry

	database.CacheInvalidate(LeaderboardCachePrefix)

	logger.Info().
		Int("score", event.Score).
		Str("type", string(event.Type)).
		Int("new_badges", len(unlocked)).
		Msg("Submission processed")

	return outcome, nil
}

func validType(t models.PromptType) bool {
	for _, pt := range models.PromptTypes {
		if t == pt {
			return true
		}
	}
	return false
}

func (s *ReviewService) displayName() string {
	if s.profile.Username != "" {
		return s.profile.Username
	}
	return "Anonymous"
}

// updateProfile folds submitted identity fields into the stored
// profile, minting a stable user id on first contact.
func (s *ReviewService) updateProfile(req SubmissionRequest) {
	if s.profile.UserID == "" {
		s.profile.UserID = uuid.New().String()
	}
	if req.Username != "" {
		s.profile.Username = req.Username
	}
	if req.Contact != "" {
		s.profile.Contact = req.Contact
	}
	if req.Continent != "" {
		s.profile.Continent = req.Continent
	}
	if err := s.kv.Save(store.KeyUserProfile, s.profile); err != nil {
		logger.Error().Err(err).Msg("Failed to persist profile")
	}
}

func (s *ReviewService) allUnlockedBadges() []models.Badge {
	unlocked := s.Badges.Unlocked()
	out := make([]models.Badge, len(unlocked))
	for i, u := range unlocked {
		out[i] = u.Badge
	}
	return out
}

// Export assembles the full data bundle.
func (s *ReviewService) Export() ExportBundle {
	return ExportBundle{
		UserProfile: s.profile,
		History:     s.History.Entries(),
		Leaderboard: s.Board.Export(),
		Badges:      s.Badges.UnlockedRecord(),
		Graph:       s.Graph.Export(),
	}
}

// Import replaces all state from a bundle.
func (s *ReviewService) Import(bundle ExportBundle) error {
	if !s.busy.CompareAndSwap(false, true) {
		return apperrors.ErrReviewInFlight
	}
	defer s.busy.Store(false)

	s.profile = bundle.UserProfile
	if err := s.kv.Save(store.KeyUserProfile, s.profile); err != nil {
		return err
	}
	if err := s.History.Replace(bundle.History); err != nil {
		return err
	}
	if err := s.Badges.Restore(bundle.Badges); err != nil {
		return err
	}
	s.Graph.Import(bundle.Graph)
	if err := s.kv.Save(store.KeyKnowledgeGraph, s.Graph.Export()); err != nil {
		return err
	}
	s.Board.Import(bundle.Leaderboard)
	if err := s.kv.Save(store.KeyLeaderboard, s.Board.Export()); err != nil {
		return err
	}

	database.CacheInvalidate(LeaderboardCachePrefix)
	return nil
}

// ImportGraph replaces only the knowledge graph and persists the new
// snapshot.
func (s *ReviewService) ImportGraph(snap models.GraphSnapshot) error {
	if !s.busy.CompareAndSwap(false, true) {
		return apperrors.ErrReviewInFlight
	}
	defer s.busy.Store(false)

	s.Graph.Import(snap)
	return s.kv.Save(store.KeyKnowledgeGraph, s.Graph.Export())
}

// Reset wipes every owned key and all in-memory state.
func (s *ReviewService) Reset() error {
	if !s.busy.CompareAndSwap(false, true) {
		return apperrors.ErrReviewInFlight
	}
	defer s.busy.Store(false)

	if err := s.History.Reset(); err != nil {
		return err
	}
	if err := s.Badges.Reset(); err != nil {
		return err
	}
	s.Graph.Reset()
	s.Board.Reset()
	s.profile = Profile{}
	if err := s.kv.Reset(); err != nil {
		return err
	}

	database.CacheInvalidate(LeaderboardCachePrefix)
	return nil
}

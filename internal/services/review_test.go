package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pushp314/prompttutor-backend/internal/badges"
	"github.com/pushp314/prompttutor-backend/internal/evaluator"
	"github.com/pushp314/prompttutor-backend/internal/graph"
	"github.com/pushp314/prompttutor-backend/internal/history"
	"github.com/pushp314/prompttutor-backend/internal/leaderboard"
	"github.com/pushp314/prompttutor-backend/internal/models"
	"github.com/pushp314/prompttutor-backend/internal/store"
	apperrors "github.com/pushp314/prompttutor-backend/pkg/errors"
)

// stubReviewer returns a fixed result, or an error, optionally blocking
// until released.
type stubReviewer struct {
	result  models.ReviewResult
	err     error
	started chan struct{}
	release chan struct{}
}

func (s *stubReviewer) Review(_ context.Context, prompt string, promptType models.PromptType) (models.ReviewResult, error) {
	if s.started != nil {
		select {
		case <-s.started:
		default:
			close(s.started)
		}
	}
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return models.ReviewResult{}, s.err
	}
	r := s.result
	r.Prompt = prompt
	r.Type = promptType
	return r, nil
}

func fixedResult() models.ReviewResult {
	return models.ReviewResult{
		Score:    85,
		Criteria: map[string]int{"Clarity": 5, "Specificity": 4},
		Topics:   []string{"AI", "prompting", "coding"},
		Entities: []string{"OpenAI", "GPT"},
		Styles:   []string{"specifies_role"},
	}
}

var testDBSeq int64

func setupService(t *testing.T, reviewer evaluator.Reviewer) (*ReviewService, *store.Store) {
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	kv, err := store.New(db)
	assert.NoError(t, err)

	svc := NewReviewService(kv, history.New(kv), badges.NewEngine(kv), graph.New(), leaderboard.New(), reviewer)
	return svc, kv
}

func TestProcessSubmission_FansOutToAllEngines(t *testing.T) {
	svc, _ := setupService(t, &stubReviewer{result: fixedResult()})

	outcome, err := svc.ProcessSubmission(context.Background(), SubmissionRequest{
		Prompt:    "You are a tutor, explain interfaces",
		Type:      models.PromptTypeCoding,
		Username:  "ada",
		Continent: "Europe",
	})
	assert.NoError(t, err)
	assert.Empty(t, outcome.PersistenceWarnings)

	// History holds the scored event
	assert.Equal(t, 1, svc.History.Len())
	assert.Equal(t, 85, svc.History.Entries()[0].Score)
	assert.Equal(t, "ada", svc.History.Entries()[0].Username)

	// First submission unlocks at least one badge
	assert.NotEmpty(t, outcome.NewBadges)

	// Leaderboard entry reflects the submission
	assert.NotNil(t, outcome.LeaderboardEntry)
	assert.Equal(t, 1, outcome.LeaderboardEntry.Stats.PromptsSubmitted)
	assert.InDelta(t, 85.0, outcome.LeaderboardEntry.Stats.AverageScore, 1e-9)
	assert.Equal(t, outcome.LeaderboardEntry.Badges.Total, len(svc.Badges.Unlocked()))

	// Graph grew 1 prompt + 3 topics + 2 entities + 1 style
	assert.Equal(t, 7, svc.Graph.NodeCount())
	assert.NotEmpty(t, outcome.GraphDelta.PromptNodeID)
}

func TestProcessSubmission_ValidationRejectsWithoutMutation(t *testing.T) {
	svc, _ := setupService(t, &stubReviewer{result: fixedResult()})

	_, err := svc.ProcessSubmission(context.Background(), SubmissionRequest{Type: models.PromptTypeCoding})
	assert.ErrorContains(t, err, "required")

	_, err = svc.ProcessSubmission(context.Background(), SubmissionRequest{Prompt: "x", Type: "Bogus"})
	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)

	assert.Equal(t, 0, svc.History.Len())
	assert.Equal(t, 0, svc.Graph.NodeCount())
}

func TestProcessSubmission_ReviewerFailureRecordsNothing(t *testing.T) {
	svc, _ := setupService(t, &stubReviewer{err: fmt.Errorf("model unavailable")})

	_, err := svc.ProcessSubmission(context.Background(), SubmissionRequest{
		Prompt: "hello", Type: models.PromptTypeChatbot,
	})
	assert.Error(t, err)

	assert.Equal(t, 0, svc.History.Len())
	assert.Empty(t, svc.Badges.Unlocked())
	assert.Equal(t, 0, svc.Graph.NodeCount())
	assert.Empty(t, svc.Board.GetEntries(leaderboard.QueryOptions{}))
}

func TestProcessSubmission_BusyGateRejectsOverlap(t *testing.T) {
	stub := &stubReviewer{
		result:  fixedResult(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc, _ := setupService(t, stub)

	done := make(chan error, 1)
	go func() {
		_, err := svc.ProcessSubmission(context.Background(), SubmissionRequest{
			Prompt: "first", Type: models.PromptTypeCoding,
		})
		done <- err
	}()

	// Wait until the first submission is inside the reviewer call
	select {
	case <-stub.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never reached the reviewer")
	}

	_, err := svc.ProcessSubmission(context.Background(), SubmissionRequest{
		Prompt: "second", Type: models.PromptTypeCoding,
	})
	assert.Equal(t, apperrors.ErrReviewInFlight, err)

	close(stub.release)
	assert.NoError(t, <-done)

	// Only the first one landed; the gate is open again afterwards
	assert.Equal(t, 1, svc.History.Len())
	_, err = svc.ProcessSubmission(context.Background(), SubmissionRequest{
		Prompt: "third", Type: models.PromptTypeCoding,
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, svc.History.Len())
}

func TestProcessSubmission_ProfilePersistsAcrossFields(t *testing.T) {
	svc, _ := setupService(t, &stubReviewer{result: fixedResult()})

	_, err := svc.ProcessSubmission(context.Background(), SubmissionRequest{
		Prompt: "one", Type: models.PromptTypeCoding, Username: "ada", Continent: "Europe",
	})
	assert.NoError(t, err)
	userID := svc.Profile().UserID
	assert.NotEmpty(t, userID)

	// Later submissions keep the minted id and earlier identity fields
	_, err = svc.ProcessSubmission(context.Background(), SubmissionRequest{
		Prompt: "two", Type: models.PromptTypeCoding, Contact: "ada@example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, userID, svc.Profile().UserID)
	assert.Equal(t, "ada", svc.Profile().Username)
	assert.Equal(t, "ada@example.com", svc.Profile().Contact)

	// Both submissions rolled into one leaderboard entry
	entry, ok := svc.Board.Entry(userID)
	assert.True(t, ok)
	assert.Equal(t, 2, entry.Stats.PromptsSubmitted)
}

func TestStateSurvivesServiceRestart(t *testing.T) {
	svc, kv := setupService(t, &stubReviewer{result: fixedResult()})

	_, err := svc.ProcessSubmission(context.Background(), SubmissionRequest{
		Prompt: "persist me", Type: models.PromptTypeCoding, Username: "ada",
	})
	assert.NoError(t, err)
	wantNodes := svc.Graph.NodeCount()
	wantBadges := len(svc.Badges.Unlocked())

	restarted := NewReviewService(kv, history.New(kv), badges.NewEngine(kv), graph.New(), leaderboard.New(), &stubReviewer{result: fixedResult()})
	assert.Equal(t, 1, restarted.History.Len())
	assert.Equal(t, wantNodes, restarted.Graph.NodeCount())
	assert.Len(t, restarted.Badges.Unlocked(), wantBadges)
	assert.Equal(t, svc.Profile().UserID, restarted.Profile().UserID)

	entry, ok := restarted.Board.Entry(svc.Profile().UserID)
	assert.True(t, ok)
	assert.Equal(t, 1, entry.Stats.PromptsSubmitted)
}

func TestExportImport_RoundTrip(t *testing.T) {
	svc, _ := setupService(t, &stubReviewer{result: fixedResult()})

	_, err := svc.ProcessSubmission(context.Background(), SubmissionRequest{
		Prompt: "snapshot me", Type: models.PromptTypeImage, Username: "ada",
	})
	assert.NoError(t, err)
	bundle := svc.Export()

	other, _ := setupService(t, &stubReviewer{result: fixedResult()})
	assert.NoError(t, other.Import(bundle))

	assert.Equal(t, 1, other.History.Len())
	assert.Equal(t, svc.Graph.NodeCount(), other.Graph.NodeCount())
	assert.Equal(t, svc.Profile().UserID, other.Profile().UserID)
	assert.Len(t, other.Badges.Unlocked(), len(svc.Badges.Unlocked()))
}

func TestReset_WipesEverything(t *testing.T) {
	svc, _ := setupService(t, &stubReviewer{result: fixedResult()})

	_, err := svc.ProcessSubmission(context.Background(), SubmissionRequest{
		Prompt: "wipe me", Type: models.PromptTypeResearch, Username: "ada",
	})
	assert.NoError(t, err)

	assert.NoError(t, svc.Reset())
	assert.Equal(t, 0, svc.History.Len())
	assert.Empty(t, svc.Badges.Unlocked())
	assert.Equal(t, 0, svc.Graph.NodeCount())
	assert.Empty(t, svc.Board.GetEntries(leaderboard.QueryOptions{}))
	assert.Empty(t, svc.Profile().UserID)
}

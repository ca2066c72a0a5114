package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GhadeBhavesh/QZone/internal/domain"
)

func TestQuestionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string]domain.QuestionSet{
			"general": sampleSet(),
		}),
	}
	repo := NewQuestionRepository(loader, time.Minute)

	if _, err := repo.GetQuestionSet(context.Background(), "general"); err != nil {
		t.Fatalf("get set: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetQuestionSet(context.Background(), "general"); err != nil {
		t.Fatalf("get set 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuestionRepositoryExpiresEntries(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string]domain.QuestionSet{
			"general": sampleSet(),
		}),
	}
	repo := NewQuestionRepository(loader, time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	if _, err := repo.GetQuestionSet(context.Background(), "general"); err != nil {
		t.Fatalf("get set: %v", err)
	}

	// Past the TTL (plus its jitter margin) the loader is consulted again.
	now = now.Add(2 * time.Minute)
	if _, err := repo.GetQuestionSet(context.Background(), "general"); err != nil {
		t.Fatalf("get set after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, got %d calls", loader.calls)
	}
}

func TestStaticLoaderUnknownSet(t *testing.T) {
	loader := NewStaticQuestionLoader(nil)
	if _, err := loader.LoadQuestionSet(context.Background(), "nope"); !errors.Is(err, domain.ErrQuestionSetNotFound) {
		t.Fatalf("expected ErrQuestionSetNotFound, got %v", err)
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestionSet(ctx, setID)
}

func sampleSet() domain.QuestionSet {
	return domain.QuestionSet{
		ID: "general",
		Questions: []domain.Question{
			{
				Prompt:  "What is 2 + 2?",
				Choices: []string{"3", "4", "5"},
				Correct: 1,
			},
		},
	}
}

package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/event-tracker-api/internal/eventquery"
	"github.com/noah-isme/event-tracker-api/internal/models"
)

type seedStore interface {
	Count(ctx context.Context) (int, error)
	CreateMany(ctx context.Context, events []models.Event) error
}

// SeedFile is the YAML layout of an events fixture.
type SeedFile struct {
	Events []models.Event `yaml:"events"`
}

// SeedService loads fixture events into an empty store.
type SeedService struct {
	repo   seedStore
	logger *zap.Logger
}

// NewSeedService constructs a SeedService.
func NewSeedService(repo seedStore, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{repo: repo, logger: logger}
}

// ParseSeed decodes and normalizes fixture events.
func ParseSeed(raw []byte) ([]models.Event, error) {
	var file SeedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	seen := make(map[string]struct{}, len(file.Events))
	events := make([]models.Event, 0, len(file.Events))
	for i, event := range file.Events {
		event.ID = strings.TrimSpace(event.ID)
		event.Title = strings.TrimSpace(event.Title)
		event.Type = eventquery.NormalizeType(event.Type)
		event.DueDate = strings.TrimSpace(event.DueDate)
		if event.Title == "" || event.Type == "" || !eventquery.ValidDate(event.DueDate) {
			return nil, fmt.Errorf("seed event %d: title, type and dueDate (YYYY-MM-DD) are required", i+1)
		}
		if event.ID != "" {
			if _, dup := seen[event.ID]; dup {
				return nil, fmt.Errorf("seed event %d: duplicate id %s", i+1, event.ID)
			}
			seen[event.ID] = struct{}{}
		}
		events = append(events, event)
	}
	return events, nil
}

// SeedFromFile inserts the events of path when the store holds none. It
// reports how many events were inserted.
func (s *SeedService) SeedFromFile(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	existing, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		s.logger.Debug("seed skipped, events present", zap.Int("existing", existing))
		return 0, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	events, err := ParseSeed(raw)
	if err != nil {
		return 0, err
	}
	if err := s.repo.CreateMany(ctx, events); err != nil {
		return 0, err
	}
	s.logger.Info("events seeded", zap.String("file", path), zap.Int("count", len(events)))
	return len(events), nil
}

package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mathquest/internal/content"
	"mathquest/internal/models"
	"mathquest/internal/repository"
)

var (
	ErrItemNotFound     = errors.New("shop item not found")
	ErrItemOwned        = errors.New("item already owned")
	ErrInvalidComptName = errors.New("companion name must be 1 to 24 characters")
)

// CompanionService manages the learner's companion: cosmetics bought with
// spendable XP and perks derived from study counters.
type CompanionService struct {
	progressionRepo *repository.ProgressionRepository
}

// NewCompanionService creates a new companion service
func NewCompanionService(progressionRepo *repository.ProgressionRepository) *CompanionService {
	return &CompanionService{progressionRepo: progressionRepo}
}

// CompanionView is the companion state for display
type CompanionView struct {
	Name          string         `json:"name"`
	Items         []string       `json:"items"`
	UnlockedPerks []content.Perk `json:"unlocked_perks"`
	SpendableXP   int            `json:"spendable_xp"`
}

func (s *CompanionService) load(learnerID int64) (*models.ProgressionState, error) {
	state, err := s.progressionRepo.Get(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progression state: %w", err)
	}
	if state == nil {
		state = NewProgressionState(learnerID)
	}
	return state, nil
}

// Get returns the learner's companion view
func (s *CompanionService) Get(learnerID int64) (*CompanionView, error) {
	state, err := s.load(learnerID)
	if err != nil {
		return nil, err
	}
	return &CompanionView{
		Name:          state.CompanionName,
		Items:         state.CompanionItems,
		UnlockedPerks: UnlockedPerks(state),
		SpendableXP:   SpendableXP(state.TotalPoints),
	}, nil
}

// Purchase buys a shop item with spendable XP. Buying never lowers the
// learner's level; an already-owned item cannot be bought twice.
func (s *CompanionService) Purchase(learnerID int64, itemID string, now time.Time) (*CompanionView, error) {
	item := content.ShopItemByID(itemID)
	if item == nil {
		return nil, ErrItemNotFound
	}

	state, err := s.load(learnerID)
	if err != nil {
		return nil, err
	}
	if state.HasCompanionItem(itemID) {
		return nil, ErrItemOwned
	}

	if err := SpendXP(state, item.Price, "shop: "+item.Name, now); err != nil {
		return nil, err
	}
	state.CompanionItems = append(state.CompanionItems, itemID)

	if err := s.progressionRepo.Save(state); err != nil {
		return nil, fmt.Errorf("failed to save progression state: %w", err)
	}

	return &CompanionView{
		Name:          state.CompanionName,
		Items:         state.CompanionItems,
		UnlockedPerks: UnlockedPerks(state),
		SpendableXP:   SpendableXP(state.TotalPoints),
	}, nil
}

// Rename changes the companion's display name
func (s *CompanionService) Rename(learnerID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 24 {
		return ErrInvalidComptName
	}

	state, err := s.load(learnerID)
	if err != nil {
		return err
	}
	state.CompanionName = name

	if err := s.progressionRepo.Save(state); err != nil {
		return fmt.Errorf("failed to save progression state: %w", err)
	}
	return nil
}

// UnlockedPerks derives the companion perks earned by the learner's lifetime
// counters. Perks are never stored; they fall out of the counters.
func UnlockedPerks(state *models.ProgressionState) []content.Perk {
	var unlocked []content.Perk
	for _, perk := range content.Perks {
		if state.Stat(models.StatKind(perk.Stat)) >= perk.Threshold {
			unlocked = append(unlocked, perk)
		}
	}
	return unlocked
}

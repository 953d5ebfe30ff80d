package domain

import (
	"fmt"
	"strings"
)

// ValidateItems rejects malformed content before it can reach the spawner.
func ValidateItems(items []QuestionItem) error {
	if len(items) == 0 {
		return ErrEmptyBank
	}
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if item.ID == "" {
			return fmt.Errorf("item %d: %w", i, ErrDuplicateItem)
		}
		if _, ok := seen[item.ID]; ok {
			return fmt.Errorf("item %q: %w", item.ID, ErrDuplicateItem)
		}
		seen[item.ID] = struct{}{}
		if strings.TrimSpace(item.Text) == "" {
			return fmt.Errorf("item %q: %w", item.ID, ErrEmptyText)
		}
		if !item.Category.Valid() {
			return fmt.Errorf("item %q: %w: %q", item.ID, ErrInvalidCategory, item.Category)
		}
	}
	return nil
}

// Validate checks the bank's items.
func (b Bank) Validate() error {
	if err := ValidateItems(b.Items); err != nil {
		return fmt.Errorf("bank %q: %w", b.ID, err)
	}
	return nil
}

// Validate requires the name and class shown on the leaderboard.
func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.ClassName) == "" {
		return ErrIncompletePlayer
	}
	return nil
}

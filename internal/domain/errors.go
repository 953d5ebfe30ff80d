package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a player has no game session.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrEntityNotFound indicates a drag or drop referenced a card that is not on screen.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrNotPlaying is returned when acting on a match outside the playing phase.
	ErrNotPlaying = errors.New("match is not playing")
	// ErrEmptyBank rejects banks without items.
	ErrEmptyBank = errors.New("question bank is empty")
	// ErrEmptyText rejects items without text.
	ErrEmptyText = errors.New("question text is empty")
	// ErrInvalidCategory rejects items outside the three categories.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrDuplicateItem rejects banks with repeated or empty item IDs.
	ErrDuplicateItem = errors.New("duplicate or empty item id")
	// ErrIncompletePlayer rejects players without a name or class.
	ErrIncompletePlayer = errors.New("player name and class are required")
)

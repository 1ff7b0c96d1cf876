package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/masy43/Student-Management-System/internal/domain/preference"
	"github.com/masy43/Student-Management-System/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PREFERENCES COMMAND
// Sets or toggles the client's UI theme.
// ══════════════════════════════════════════════════════════════════════════════

// UpdatePreferencesCommand contains the data to update preferences.
type UpdatePreferencesCommand struct {
	// ClientID identifies the browser or client.
	ClientID string

	// Theme is the new theme; nil means "don't change".
	Theme *string

	// Toggle flips the current theme. Ignored when Theme is set.
	Toggle bool
}

// Validate validates the command.
func (c UpdatePreferencesCommand) Validate() error {
	if c.ClientID == "" {
		return errors.New("update_preferences: client_id is required")
	}
	if c.Theme == nil && !c.Toggle {
		return errors.New("update_preferences: nothing to update")
	}
	return nil
}

// UpdatePreferencesResult contains the result of updating preferences.
type UpdatePreferencesResult struct {
	ClientID string
	Theme    preference.Theme

	// Changed is false when the stored theme already matched.
	Changed bool
}

// UpdatePreferencesHandler handles the UpdatePreferencesCommand.
type UpdatePreferencesHandler struct {
	store preference.Store
	log   *logger.Logger
}

// NewUpdatePreferencesHandler creates a new UpdatePreferencesHandler.
func NewUpdatePreferencesHandler(store preference.Store, log *logger.Logger) *UpdatePreferencesHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &UpdatePreferencesHandler{
		store: store,
		log:   log.With(logger.Component("command"), logger.Operation("update_preferences")),
	}
}

// Handle executes the update preferences command.
func (h *UpdatePreferencesHandler) Handle(ctx context.Context, cmd UpdatePreferencesCommand) (*UpdatePreferencesResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if cmd.Theme == nil {
		next, err := preference.Toggle(ctx, h.store, cmd.ClientID)
		if err != nil {
			return nil, fmt.Errorf("update_preferences: %w", err)
		}
		h.logChange(cmd.ClientID, next)
		return &UpdatePreferencesResult{ClientID: cmd.ClientID, Theme: next, Changed: true}, nil
	}

	next, err := preference.ParseTheme(*cmd.Theme)
	if err != nil {
		return nil, err
	}

	current, err := h.store.Theme(ctx, cmd.ClientID)
	if err != nil {
		return nil, fmt.Errorf("update_preferences: %w", err)
	}

	result := &UpdatePreferencesResult{ClientID: cmd.ClientID, Theme: next}
	if next == current {
		return result, nil
	}

	if err := h.store.SetTheme(ctx, cmd.ClientID, next); err != nil {
		return nil, fmt.Errorf("update_preferences: %w", err)
	}
	result.Changed = true

	h.logChange(cmd.ClientID, next)
	return result, nil
}

func (h *UpdatePreferencesHandler) logChange(clientID string, theme preference.Theme) {
	h.log.Debug("theme updated",
		logger.String("client_id", clientID),
		logger.String("theme", theme.String()),
	)
}

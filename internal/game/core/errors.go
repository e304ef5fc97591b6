package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCell     = errors.New("cell is outside the battlefield or blocked")
	ErrCellOccupied    = errors.New("cell is occupied")
	ErrEntityNotFound  = errors.New("entity not found")
	ErrEntityDead      = errors.New("entity is not alive")
	ErrDuplicateEntity = errors.New("entity ID already registered")
	ErrBattleOver      = errors.New("battle is over")
	ErrActionNotFound  = errors.New("action definition not found")
	ErrActionNotUsable = errors.New("action not usable by entity")
	ErrInvalidTarget   = errors.New("cell is not a valid target")
	ErrWrongPhase      = errors.New("operation not allowed in current phase")
	ErrNotPlayersTurn  = errors.New("current actor is not player controlled")
)

// WrapEntityError adds entity and operation context to an error
func WrapEntityError(entityID, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("entity %s %s: %w", entityID, operation, err)
}

// WrapPhaseError adds battle phase context to an error
func WrapPhaseError(phase, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("battle phase %s [%s]: %w", phase, operation, err)
}

// BattleError is a structured error carrying where in the battle it happened
type BattleError struct {
	Round     int
	EntityID  string
	Operation string
	Err       error
}

// NewBattleError creates a BattleError
func NewBattleError(round int, entityID, operation string, err error) *BattleError {
	return &BattleError{
		Round:     round,
		EntityID:  entityID,
		Operation: operation,
		Err:       err,
	}
}

func (e *BattleError) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("round %d: entity %s %s: %v", e.Round, e.EntityID, e.Operation, e.Err)
	}
	return fmt.Sprintf("round %d: %s: %v", e.Round, e.Operation, e.Err)
}

func (e *BattleError) Unwrap() error {
	return e.Err
}

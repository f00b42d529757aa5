package controller

import "errors"

// Domain errors for the controller package.
var (
	// ErrFieldNotEditable is returned when a local edit names a field that
	// cannot be edited through the core (address, name, description).
	ErrFieldNotEditable = errors.New("controller: field not editable")
)

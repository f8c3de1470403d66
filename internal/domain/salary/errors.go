package salary

import "errors"

var (
	ErrComponentNotFound    = errors.New("salary component not found")
	ErrComponentNameExists  = errors.New("salary component name already exists")
	ErrComponentInactive    = errors.New("salary component is not active")
	ErrAssignmentNotFound   = errors.New("salary component assignment not found")
	ErrInvalidComponentType = errors.New("invalid component type")
)

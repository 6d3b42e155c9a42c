package errors

import "errors"

var (
	ErrMissingToken      = errors.New("GITHUB_TOKEN environment variable is required")
	ErrNoRepository      = errors.New("repository handle not available")
	ErrInvalidConfig     = errors.New("invalid community configuration")
	ErrPathEscapesOutput = errors.New("artifact path escapes output directory")
	ErrTemplateNotFound  = errors.New("founding post template not found")
)

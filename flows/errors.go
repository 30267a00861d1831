package flows

import "fmt"

// ValidationError is returned by the request builders when a caller supplied
// field breaks its constraint. Field is the JSON path of that field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// GenerationFormatError means the text service answered with something that
// does not satisfy the declared output schema.
type GenerationFormatError struct {
	Flow   FlowName
	Field  string
	Reason string
	Err    error
}

func (e *GenerationFormatError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: generated output field %q %s", e.Flow, e.Field, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: generated output %s: %v", e.Flow, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: generated output %s", e.Flow, e.Reason)
}

func (e *GenerationFormatError) Unwrap() error {
	return e.Err
}

// MediaGenerationFailure is raised by the image step. Flows with a decorative
// image swallow it, flows with a primary image return it.
type MediaGenerationFailure struct {
	Flow FlowName
	Err  error
}

func (e *MediaGenerationFailure) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: image service returned no media", e.Flow)
	}
	return fmt.Sprintf("%s: image generation failed: %v", e.Flow, e.Err)
}

func (e *MediaGenerationFailure) Unwrap() error {
	return e.Err
}

// ToolInvocationFailure wraps errors from a nested flow run as a chat tool.
type ToolInvocationFailure struct {
	Tool string
	Err  error
}

func (e *ToolInvocationFailure) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ToolInvocationFailure) Unwrap() error {
	return e.Err
}

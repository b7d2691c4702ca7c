package service

import "errors"

// Sentinel errors. Callers match them with errors.Is.
var (
	// ErrNoIdeas means the text model produced no usable business names.
	ErrNoIdeas = errors.New("no names produced")

	// ErrLogoUnavailable means one idea's logo step failed. It never aborts a batch.
	ErrLogoUnavailable = errors.New("logo generation failed")
)

// AIGenerationError is the batch-fatal failure: idea generation did not
// produce anything to display. It wraps either ErrNoIdeas or the transport error.
type AIGenerationError struct {
	Err error
}

func (e *AIGenerationError) Error() string {
	return "generating business ideas: " + e.Err.Error()
}

func (e *AIGenerationError) Unwrap() error { return e.Err }

// UserMessage is the text shown in the error banner.
func (e *AIGenerationError) UserMessage() string {
	if errors.Is(e.Err, ErrNoIdeas) {
		return "The AI could not generate any business names. Try a different prompt."
	}
	return "The AI service could not be reached. Please try again."
}

// UserMessage derives a banner message from any batch error.
func UserMessage(err error) string {
	var genErr *AIGenerationError
	if errors.As(err, &genErr) {
		return genErr.UserMessage()
	}
	if err != nil {
		return err.Error()
	}
	return "An unknown error occurred. Please try again."
}

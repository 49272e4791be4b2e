package google

import (
	"errors"
	"fmt"

	"github.com/spetersoncode/cinematch"
	"google.golang.org/genai"
)

// BlockedError is returned when Gemini refuses the prompt.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("prompt blocked: %s", e.Reason)
}

// wrapError categorizes a GenAI API error by status code.
// genai.APIError does not expose headers, so there is no Retry-After.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		// network errors pass through
		return err
	}
	return cinematch.NewAPIError("google", apiErr.Code, err)
}

package anthropic

import (
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spetersoncode/cinematch"
)

// wrapError categorizes an Anthropic SDK error by status code.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return cinematch.NewAPIError("anthropic", apiErr.StatusCode, err)
}

package service

import "fmt"

// ProviderError marks a failure of an external provider (embedding, synthesis
// or web search). The pipeline aborts on these and the handler maps them to a
// 500 response.
type ProviderError struct {
	Stage string
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider failed: %v", e.Stage, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

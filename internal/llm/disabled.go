package llm

import (
	"context"
	"errors"
)

// DisabledClient falla en cada llamada; la entrevista corre solo con contenido de respaldo.
type DisabledClient struct {
	reason string
}

func NewDisabledClient(reason string) *DisabledClient {
	return &DisabledClient{reason: reason}
}

func (c *DisabledClient) Generate(_ context.Context, _ string, _ Options) (string, error) {
	if c.reason == "" {
		return "", errors.New("llm client disabled")
	}
	return "", errors.New(c.reason)
}

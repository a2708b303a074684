package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// GenerationError envuelve fallas del backend: red, timeout, status de error o salida vacia.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("llm %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ParseError indica que la salida del LLM no cumple el esquema esperado.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("llm structured output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Schema decodifica y valida un objeto JSON ya extraido de la salida del LLM.
type Schema interface {
	Decode(obj gjson.Result) error
}

// Gateway es la unica puerta hacia el LLM. No aplica logica de negocio:
// emite el prompt y devuelve texto o un resultado estructurado validado.
type Gateway struct {
	client  LLMClient
	timeout time.Duration
	logger  *zap.Logger
}

func NewGateway(client LLMClient, timeout time.Duration, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{client: client, timeout: timeout, logger: logger}
}

// GenerateText devuelve el texto generado sin espacios sobrantes.
func (g *Gateway) GenerateText(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	if g == nil || g.client == nil {
		return "", &GenerationError{Op: "generate", Err: errors.New("llm client not configured")}
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := g.client.Generate(ctx, prompt, Options{MaxTokens: maxTokens, Temperature: temperature})
	if err != nil {
		return "", &GenerationError{Op: "generate", Err: err}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", &GenerationError{Op: "generate", Err: errors.New("empty output")}
	}
	g.logger.Debug("llm call finished",
		zap.Duration("latency", time.Since(start)),
		zap.Int("prompt_len", len(prompt)),
		zap.Int("output_len", len(out)),
	)
	return out, nil
}

// GenerateStructured pide una salida JSON y la entrega al schema. Devuelve *GenerationError
// si la llamada falla y *ParseError si la salida no es un objeto JSON valido para el schema.
func (g *Gateway) GenerateStructured(ctx context.Context, prompt string, maxTokens int, temperature float64, schema Schema) error {
	raw, err := g.GenerateText(ctx, prompt, maxTokens, temperature)
	if err != nil {
		return err
	}

	obj := extractFirstJSONObject(CleanFences(raw))
	if obj == "" || !gjson.Valid(obj) {
		return &ParseError{Raw: raw, Err: errors.New("no json object in output")}
	}
	if err := schema.Decode(gjson.Parse(obj)); err != nil {
		return &ParseError{Raw: raw, Err: err}
	}
	return nil
}

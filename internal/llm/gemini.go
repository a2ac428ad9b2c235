package llm

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	genai "google.golang.org/genai"

	"diagen/internal/diagram"
)

const extractPrompt = `You are an expert at describing system architectures as graphs.
Break the user's description into components, clusters and connections.
Respond with JSON only, using this shape:
{"title": "...", "nodes": [{"label": "...", "type": "...", "cluster": "..."}], "edges": [{"from": "...", "to": "..."}], "clusters": ["..."]}

Rules:
1. "type" must be one of: compute, relational-database, load-balancer, object-storage, queue, cache, api-gateway, vpc, internet, monitoring, iam, react, fastapi, python.
2. Labels must be unique and human readable.
3. "cluster" is optional; use it to group related components.
4. Every edge endpoint must be a node label from the list.
5. No explanations, JSON only.`

const replyPrompt = `You are a helpful assistant that helps users create architecture diagrams.
You can explain how to create diagrams, ask clarifying questions about requirements,
and suggest diagram types. Be conversational and concise. If the user wants a diagram,
ask for the components and connections they have in mind.`

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli   *genai.Client
	model string
	rl    *rpsLimiter
	log   *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey, model string, rps float64, burst int, log *zap.Logger) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(model) == "" {
		model = "gemini-2.5-flash"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GeminiClient{cli: cli, model: model, rl: newRPSLimiter(rps, burst), log: log}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

func (g *GeminiClient) Close() error {
	if g != nil {
		g.rl.Stop()
	}
	return nil
}

// ExtractGraph requests a structured graph as application/json. If the model
// returns something that does not unmarshal into the expected shape, the
// description is passed through as a raw-text payload instead of failing.
func (g *GeminiClient) ExtractGraph(ctx context.Context, description string) (diagram.Payload, error) {
	raw, err := g.generate(ctx, extractPrompt+"\n\n[DESCRIPTION]\n"+description, "application/json")
	if err != nil {
		return diagram.Payload{}, err
	}
	var sp diagram.StructuredPayload
	if err := json.Unmarshal(raw, &sp); err != nil || len(sp.Nodes) == 0 {
		g.log.Warn("model output not usable as structured payload, degrading to raw text",
			zap.Error(err), zap.Int("bytes", len(raw)))
		return diagram.Payload{RawText: description}, nil
	}
	return diagram.Payload{Structured: &sp}, nil
}

// Reply generates a conversational assistant answer.
func (g *GeminiClient) Reply(ctx context.Context, message, history string) (string, error) {
	full := replyPrompt
	if strings.TrimSpace(history) != "" {
		full += "\n\n[CONVERSATION SO FAR]\n" + history
	}
	full += "\n\n[USER]\n" + message
	raw, err := g.generate(ctx, full, "text/plain")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (g *GeminiClient) generate(ctx context.Context, full, mime string) ([]byte, error) {
	g.log.Debug("LLM request", zap.String("model", g.model), zap.Int("bytes", len(full)))

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		// Respect the RPS limiter per attempt (each API call consumes a token).
		if err := g.rl.Acquire(ctx); err != nil {
			lastErr = err
			break
		}
		resp, err := g.cli.Models.GenerateContent(ctx, g.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
			&genai.GenerateContentConfig{ResponseMIMEType: mime},
		)
		if err != nil {
			lastErr = err
		} else if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = ErrInvalidJSON
		} else {
			return []byte(resp.Candidates[0].Content.Parts[0].Text), nil
		}
		time.Sleep(time.Duration(300*(1<<attempt)) * time.Millisecond)
	}
	return nil, lastErr
}

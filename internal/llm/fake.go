package llm

import (
	"context"
	"strings"

	"diagen/internal/diagram"
)

// FakeClient returns deterministic payloads and replies for mock/offline
// mode and for tests. No network access, no randomness.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

// ExtractGraph keys canned structured payloads off description keywords,
// mirroring what the live model typically produces for these intents.
// Unrecognized descriptions come back as raw text so the heuristic parser
// and template fallback get exercised the same way as in degraded mode.
func (f *FakeClient) ExtractGraph(_ context.Context, description string) (diagram.Payload, error) {
	lower := strings.ToLower(description)
	switch {
	case strings.Contains(lower, "web") && strings.Contains(lower, "load balancer"):
		return diagram.Payload{Structured: &diagram.StructuredPayload{
			Title: "Web Application Architecture",
			Nodes: []diagram.PayloadNode{
				{Label: "Application Load Balancer", Type: "load-balancer", Cluster: "Web Tier"},
				{Label: "Web Server 1", Type: "compute", Cluster: "Web Tier"},
				{Label: "Web Server 2", Type: "compute", Cluster: "Web Tier"},
				{Label: "Database", Type: "relational-database"},
			},
			Edges: []diagram.PayloadEdge{
				{From: "Application Load Balancer", To: "Web Server 1"},
				{From: "Application Load Balancer", To: "Web Server 2"},
				{From: "Web Server 1", To: "Database"},
				{From: "Web Server 2", To: "Database"},
			},
		}}, nil
	case strings.Contains(lower, "microservice"):
		return diagram.Payload{Structured: &diagram.StructuredPayload{
			Title: "Microservices Architecture",
			Nodes: []diagram.PayloadNode{
				{Label: "API Gateway", Type: "api-gateway"},
				{Label: "Auth Service", Type: "compute", Cluster: "Microservices"},
				{Label: "Payment Service", Type: "compute", Cluster: "Microservices"},
				{Label: "Order Service", Type: "compute", Cluster: "Microservices"},
				{Label: "Message Queue", Type: "queue"},
				{Label: "Shared Database", Type: "relational-database"},
			},
			Edges: []diagram.PayloadEdge{
				{From: "API Gateway", To: "Auth Service"},
				{From: "API Gateway", To: "Payment Service"},
				{From: "API Gateway", To: "Order Service"},
				{From: "Auth Service", To: "Message Queue"},
				{From: "Payment Service", To: "Message Queue"},
				{From: "Order Service", To: "Message Queue"},
				{From: "Auth Service", To: "Shared Database"},
				{From: "Payment Service", To: "Shared Database"},
				{From: "Order Service", To: "Shared Database"},
			},
		}}, nil
	default:
		return diagram.Payload{RawText: description}, nil
	}
}

// Reply returns canned assistant responses keyed by message keywords.
func (f *FakeClient) Reply(_ context.Context, message, _ string) (string, error) {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "diagram"):
		return "I'd be happy to help you create a diagram. Could you tell me more about " +
			"what you'd like to visualize? For example a system architecture, a network " +
			"layout, or a microservices topology?", nil
	case strings.Contains(lower, "help"):
		return "I can help you create architecture diagrams: web applications, " +
			"microservices layouts, event pipelines and more. Describe what you want " +
			"to visualize and I'll generate it.", nil
	default:
		return "Hello! I'm here to help you create architecture diagrams. " +
			"What would you like to visualize today?", nil
	}
}

// Package assistant implements the conversational pathway: chat turns with
// history, and diagram generation triggered from within a conversation.
package assistant

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"diagen/internal/diagram"
	"diagen/internal/llm"
	"diagen/internal/metrics"
	"diagen/internal/service"
)

// historyWindow is how many recent turns are replayed to the model as
// conversation context.
const historyWindow = 5

var errEmptyMessage = &diagram.ValidationError{Msg: "message is required"}

// DiagramGenerator is the slice of the generation service the assistant
// needs.
type DiagramGenerator interface {
	Generate(ctx context.Context, description, format string) (*service.Result, error)
}

// Reply is one assistant response. DiagramURL and DiagramCode are set only
// when the turn produced a diagram.
type Reply struct {
	Message        string
	ConversationID string
	DiagramURL     string
	DiagramCode    string
}

func (r *Reply) HasDiagram() bool { return r != nil && r.DiagramURL != "" }

type Assistant struct {
	llm   llm.Client
	gen   DiagramGenerator
	store *Store
	met   *metrics.Metrics
	log   *zap.Logger
}

func New(client llm.Client, gen DiagramGenerator, store *Store, met *metrics.Metrics, log *zap.Logger) *Assistant {
	if store == nil {
		store = NewStore()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{llm: client, gen: gen, store: store, met: met, log: log}
}

func (a *Assistant) Store() *Store { return a.store }

// Chat processes one user message. A blank conversation ID starts a new
// conversation. Model failures produce an apologetic reply rather than an
// error so the conversation stays usable; only empty input is rejected.
func (a *Assistant) Chat(ctx context.Context, message, conversationID string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errEmptyMessage
	}
	if strings.TrimSpace(conversationID) == "" {
		conversationID = uuid.NewString()
	}
	if a.met != nil {
		a.met.AssistantTurns.Inc()
	}

	a.store.Append(conversationID, Turn{Role: RoleUser, Content: message})
	history := formatHistory(a.store.History(conversationID, historyWindow))

	text, err := a.llm.Reply(ctx, message, history)
	if err != nil {
		a.log.Warn("assistant reply failed", zap.String("conversation", conversationID), zap.Error(err))
		text = "Sorry, I ran into a problem processing that. Could you try rephrasing?"
	}

	reply := &Reply{Message: text, ConversationID: conversationID}

	if a.gen != nil && wantsDiagram(message, text) {
		res, genErr := a.gen.Generate(ctx, message, "")
		if genErr != nil {
			a.log.Warn("assistant diagram generation failed",
				zap.String("conversation", conversationID), zap.Error(genErr))
		} else {
			reply.DiagramURL = res.ImageURL
			reply.DiagramCode = res.SourceText
			if a.met != nil {
				a.met.AssistantDiagrams.Inc()
			}
		}
	}

	a.store.Append(conversationID, Turn{Role: RoleAssistant, Content: reply.Message})
	return reply, nil
}

// wantsDiagram decides whether a turn should produce a diagram: the user
// asked for one to be made and the exchange is about diagrams or
// architecture.
func wantsDiagram(message, reply string) bool {
	msg := strings.ToLower(message)
	asked := false
	for _, verb := range []string{"create", "make", "generate", "draw", "show"} {
		if strings.Contains(msg, verb) {
			asked = true
			break
		}
	}
	if !asked {
		return false
	}
	combined := msg + " " + strings.ToLower(reply)
	return strings.Contains(combined, "diagram") || strings.Contains(combined, "architecture")
}

func formatHistory(turns []Turn) string {
	if len(turns) == 0 {
		return ""
	}
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(t.Role)
		b.WriteString(": ")
		b.WriteString(t.Content)
	}
	return b.String()
}

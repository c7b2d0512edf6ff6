// Package nlu adapts a language-model oracle to the dialogue's understanding
// surface: intent classification, slot extraction and scheme identification.
// Oracle failures never leave this package; they degrade to empty answers.
package nlu

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Oracle is a single-shot completion backend.
type Oracle interface {
	Complete(ctx context.Context, msgs []*schema.Message) (*Completion, error)
}

// Completion is one oracle answer with its token usage, when reported.
type Completion struct {
	Text  string
	Model string
	Usage *schema.TokenUsage
}

// ChatModelOracle runs completions through an Eino chat model (Gemini in production).
type ChatModelOracle struct {
	model einomodel.BaseChatModel
	name  string
}

func NewChatModelOracle(m einomodel.BaseChatModel, name string) *ChatModelOracle {
	return &ChatModelOracle{model: m, name: name}
}

func (o *ChatModelOracle) Complete(ctx context.Context, msgs []*schema.Message) (*Completion, error) {
	if o.model == nil {
		return nil, errors.New("chat model is nil")
	}
	// Attribute model callbacks to the oracle rather than the enclosing graph node.
	ctx = callbacks.ReuseHandlers(ctx, &callbacks.RunInfo{
		Name:      o.name,
		Type:      "Oracle",
		Component: components.ComponentOfChatModel,
	})

	out, err := o.model.Generate(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if out == nil {
		return nil, errors.New("generate: empty message")
	}

	c := &Completion{Text: out.Content, Model: o.name}
	if out.ResponseMeta != nil {
		c.Usage = out.ResponseMeta.Usage
	}
	return c, nil
}

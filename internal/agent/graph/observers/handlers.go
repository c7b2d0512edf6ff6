package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks aggregates all observer handlers (prompt, model, node) into one callbacks.Handler.
func NewAllCallbacks() einocb.Handler {
	promptHandler := newPromptHandler()
	modelHandler := newModelHandler()
	nodeHandler := newNodeHandler()

	return callbackHelper.NewHandlerHelper().
		ChatModel(modelHandler).
		Prompt(promptHandler).
		Lambda(nodeHandler).
		Handler()
}

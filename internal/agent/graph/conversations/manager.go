package conversations

import (
	"strings"

	"github.com/scheme-assistant/server/internal/agent/model"
)

// MessagesManager builds the conversation context handed to the NLU oracle.
type MessagesManager struct {
	nluMaxTurns int
}

func NewMessagesManager(config model.DialogConfig) *MessagesManager {
	return &MessagesManager{
		nluMaxTurns: config.WithDefaults().NLUContextTurns,
	}
}

// =========== Function for NLU ===========

// BuildNLUContext renders the most recent turns, followed by the message to analyze.
func (cm *MessagesManager) BuildNLUContext(history []model.HistoryEntry, query string) string {
	var fullContext strings.Builder
	fullContext.WriteString(cm.buildNLUContext(history))
	if query != "" {
		fullContext.WriteString("\n<current_message_to_analyze>\n")
		fullContext.WriteString("UserMessage(" + query + ")\n")
		fullContext.WriteString("</current_message_to_analyze>")
	}
	return fullContext.String()
}

func (cm *MessagesManager) buildNLUContext(history []model.HistoryEntry) string {
	recent := trimTail(history, cm.nluMaxTurns)

	var contextBuilder strings.Builder
	contextBuilder.WriteString("<conversation_context>\n")

	for _, entry := range recent {
		content := strings.TrimSpace(entry.Content)
		if content == "" {
			continue
		}
		switch entry.Role {
		case model.RoleUser:
			contextBuilder.WriteString("UserMessage(" + content + ")\n")
		case model.RoleAssistant:
			contextBuilder.WriteString("AssistantMessage(" + content + ")\n")
		}
	}

	contextBuilder.WriteString("</conversation_context>")
	return contextBuilder.String()
}

// ====================== Helper function ======================
func trimTail(entries []model.HistoryEntry, maxTurns int) []model.HistoryEntry {
	if maxTurns <= 0 {
		return nil
	}
	if len(entries) <= maxTurns {
		return entries
	}
	return entries[len(entries)-maxTurns:]
}

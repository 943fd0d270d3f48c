package service

import (
	"Wellspring/internal/pkg/mongo"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tmc/langchaingo/llms"
)

func TestConversationIDIsolatesUsers(t *testing.T) {
	assert.Equal(t, "1:abc", conversationID(1, "abc"))
	assert.NotEqual(t, conversationID(1, "abc"), conversationID(2, "abc"))
}

func TestToLLMHistoryRoles(t *testing.T) {
	history := []*mongo.AssistantMessage{
		{SenderID: 7, Content: "帮我推荐一个训练计划"},
		{SenderID: 0, Content: "好的，先告诉我你的目标"},
	}

	messages := toLLMHistory(history)
	assert.Len(t, messages, 2)
	assert.Equal(t, llms.ChatMessageTypeHuman, messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, messages[1].Role)
}

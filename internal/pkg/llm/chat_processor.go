package llm

import (
	"context"
	log "log/slog"
	"strings"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/prompts"
)

var mapSessionToChain = make(map[string]*chains.LLMChain)

// ChatWithChain 轻量多轮对话，链内存维护上下文，不触发工具调用
// 用于不需要检索的快速问答场景
func ChatWithChain(ctx context.Context, question string, sessionID string) (chan string, error) {
	split := strings.Split(assistantPrompt, "---")
	systemPromptTpl := split[0]
	userPromptTpl := "{{.question}}"
	if len(split) > 1 {
		userPromptTpl = split[1]
	}

	promptTemplate := prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.NewSystemMessagePromptTemplate(
			systemPromptTpl,
			nil,
		),

		prompts.NewHumanMessagePromptTemplate(
			userPromptTpl,
			[]string{"question"},
		),
	})

	chain, ok := mapSessionToChain[sessionID]
	if !ok {
		mem := memory.NewConversationBuffer()
		chain = chains.NewLLMChain(llmClient, promptTemplate)
		chain.Memory = mem
		mapSessionToChain[sessionID] = chain
	}

	inputs := map[string]any{
		"question": question,
	}

	stream := make(chan string, 10)

	go func() {
		defer close(stream)

		_, err := chains.Call(
			ctx,
			chain,
			inputs,
			chains.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				stream <- string(chunk)
				return nil
			}),
		)

		if err != nil {
			log.Error("AI大模型请求失败", "err", err)
		}
	}()

	return stream, nil
}

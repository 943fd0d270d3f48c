package llm

import (
	"Wellspring/internal/api/config"
	log "log/slog"

	"github.com/tmc/langchaingo/llms/openai"
)

var llmClient *openai.LLM

var assistantPrompt string
var fitnessPlanPrompt string
var certificatePrompt string
var contentSafePrompt string
var imageSafePrompt string

func InitLLM() error {
	cfg := config.Cfg.LLM

	llm, err := NewGLMClient(cfg.ApiKey, cfg.URL)
	if err != nil {
		log.Error("AI大模型初始化失败", "err", err)
		return err
	}

	llmClient = llm

	// 从prompt txt文件中读取prompt
	prompts := config.Cfg.LLM.PromptsPath
	assistantPrompt = readPrompt(prompts.Assistant)
	fitnessPlanPrompt = readPrompt(prompts.FitnessPlan)
	certificatePrompt = readPrompt(prompts.Certificate)
	contentSafePrompt = readPrompt(prompts.ContentSafe)
	imageSafePrompt = readPrompt(prompts.ImageSafe)

	return nil
}

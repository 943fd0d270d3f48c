package llm

import (
	"context"
	log "log/slog"

	"github.com/goccy/go-json"
)

const (
	ContentSafePass = iota + 1
	ContentSafeWarn
	ContentSafeDeny

	ContentSafePassStr = "1"
	ContentSafeWarnStr = "2"
	ContentSafeDenyStr = "3"

	ContentSensitive = "sensitive"
)

var mapContentSafe = map[string]int{
	ContentSafePassStr: ContentSafePass,
	ContentSafeWarnStr: ContentSafeWarn,
	ContentSafeDenyStr: ContentSafeDeny,
}

// Content 送审的文本内容
type Content struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func ContentSafe(ctx context.Context, content *Content) (int, error) {
	contentJSON, err := json.Marshal(content)
	if err != nil {
		log.Error("AI大模型请求数据序列化失败", "err", err)
		return ContentSafeWarn, err
	}

	resp, err := fetchModel(ctx, contentSafePrompt, string(contentJSON), 0.1)

	if err != nil {
		log.Error("AI大模型请求失败", "err", err)
		return ContentSafeWarn, err
	}

	log.Info("AI大模型请求成功", "resp", resp)

	if len(resp.Choices) > 0 {
		if resp.Choices[0].StopReason == ContentSensitive {
			return ContentSafeDeny, nil
		}

		safe := mapContentSafe[resp.Choices[0].Content]
		// AI 没有成功返回，默认为警告，进入人工审核
		if safe == 0 {
			return ContentSafeWarn, nil
		}
		return safe, nil
	}

	return ContentSafeWarn, nil
}

func ImageSafe(ctx context.Context, urls []string) (int, error) {
	if len(urls) == 0 {
		return ContentSafePass, nil
	}
	if len(urls) > 9 {
		return ContentSafeWarn, nil
	}
	resp, err := fetchModelByPicUrls(ctx, imageSafePrompt, urls, 0.1)
	if err != nil {
		log.Error("AI大模型请求失败", "err", err)
		return ContentSafeWarn, err
	}
	if len(resp.Choices) > 0 {
		safe := mapContentSafe[resp.Choices[0].Content]
		if safe == 0 {
			return ContentSafeWarn, nil
		}
		return safe, nil
	}
	return ContentSafeWarn, nil
}

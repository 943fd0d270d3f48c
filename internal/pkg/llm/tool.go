package llm

import "github.com/tmc/langchaingo/llms"

// DefineGeneralSearchTool 定义站内搜索工具的元数据
func DefineGeneralSearchTool() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "search_community_posts",
			Description: "搜索社区内的健身打卡、经验分享、饮食记录及挑战讨论内容。当你需要获取站内真实用户的训练心得、打卡记录或社区活动信息时，请调用此工具。",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "搜索关键词，例如：'30天平板支撑挑战'、'新手减脂饮食'、'晨跑打卡经验'",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

// DefinePostURLTool 定义帖子链接生成工具
func DefinePostURLTool() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "get_post_url",
			Description: "根据帖子 ID 生成可访问的帖子链接，用于在回复中引用站内内容。",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"post_id": map[string]any{
						"type":        "integer",
						"description": "帖子 ID",
					},
				},
				"required": []string{"post_id"},
			},
		},
	}
}

// DefineWebSearchTool 定义互联网搜索工具
func DefineWebSearchTool() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "web_search",
			Description: "在互联网上搜索公开资料。当站内搜索无法回答用户问题，或需要权威的健康、营养、训练知识时调用。",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "搜索关键词",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

// DefineWebFetchTool 定义网页正文抓取工具
func DefineWebFetchTool() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "web_fetch",
			Description: "抓取指定 URL 的网页并提取正文内容，用于阅读 web_search 返回的链接详情。",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "需要抓取的完整 URL",
					},
				},
				"required": []string{"url"},
			},
		},
	}
}

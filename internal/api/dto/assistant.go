package dto

// AssistantChatReq 智能助手对话请求
type AssistantChatReq struct {
	SessionID string `json:"session_id"` // 为空则开启新会话
	Message   string `json:"message" binding:"required,max=2000"`
}

// FitnessPlanReq 健身计划生成请求
type FitnessPlanReq struct {
	Goal      string `json:"goal" binding:"required,max=200"` // 减脂 / 增肌 / 养成习惯
	DaysAWeek int    `json:"days_a_week" binding:"required,min=1,max=7"`
	Level     string `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	Notes     string `json:"notes" validate:"max=500"`
}

// FitnessPlanDTO 健身计划返回
type FitnessPlanDTO struct {
	Plan string `json:"plan"`
}

// AssistantHistoryDTO 助手会话历史
type AssistantHistoryDTO struct {
	SessionID string        `json:"session_id"`
	Messages  []*MessageRow `json:"messages"`
}

// MessageRow 助手消息行
type MessageRow struct {
	Role      string `json:"role"` // user / assistant
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

package dto

type QueryRequest struct {
	Text    string `json:"text" validate:"max=4000"`
	IsAudio bool   `json:"is_audio"`
}

type QueryResponse struct {
	Reply string `json:"reply"`
}

// WebhookMessageRequest is an inbound chat message. Either Text or AudioUrl
// is set; audio is transcribed before it reaches the assistant.
type WebhookMessageRequest struct {
	UserId   string `json:"user_id" validate:"required"`
	Text     string `json:"text" validate:"max=4000"`
	AudioUrl string `json:"audio_url" validate:"omitempty,url"`
}

// PublishReportMessage is the async payload persisted by the report consumer.
type PublishReportMessage struct {
	UserId    string `json:"user_id"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

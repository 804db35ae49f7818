package wechat

// MessageType 消息类型
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeMarkdown MessageType = "markdown"
	MessageTypeImage    MessageType = "image"
)

// MaxImageBytes 企业微信机器人图片消息上限（编码前 2MB）
const MaxImageBytes = 2 << 20

// WebhookMessage 企业微信webhook消息
type WebhookMessage struct {
	MsgType  MessageType  `json:"msgtype"`
	Text     *TextMsg     `json:"text,omitempty"`
	Markdown *MarkdownMsg `json:"markdown,omitempty"`
	Image    *ImageMsg    `json:"image,omitempty"`
}

// TextMsg 文本消息
type TextMsg struct {
	Content             string   `json:"content"`
	MentionedList       []string `json:"mentioned_list,omitempty"`
	MentionedMobileList []string `json:"mentioned_mobile_list,omitempty"`
}

// MarkdownMsg Markdown消息
type MarkdownMsg struct {
	Content string `json:"content"`
}

// ImageMsg 图片消息，base64 为图片内容编码，md5 为编码前内容的 md5
type ImageMsg struct {
	Base64 string `json:"base64"`
	MD5    string `json:"md5"`
}

// WebhookResponse 企业微信webhook响应
type WebhookResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// IsSuccess 判断响应是否成功
func (r *WebhookResponse) IsSuccess() bool {
	return r.ErrCode == 0
}

// DailySummary is the text that accompanies the daily image
type DailySummary struct {
	Date         string
	Weekday      string
	Lunar        string
	ProgressText string
	PoemTitle    string
	PoemContent  string
	PoemAuthor   string
	Fallback     bool
}

package wechat

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// BuildTextMessage 构建文本消息
func BuildTextMessage(content string, mentionUsers []string) *WebhookMessage {
	return &WebhookMessage{
		MsgType: MessageTypeText,
		Text: &TextMsg{
			Content:       content,
			MentionedList: mentionUsers,
		},
	}
}

// BuildMarkdownMessage 构建Markdown消息
func BuildMarkdownMessage(content string) *WebhookMessage {
	return &WebhookMessage{
		MsgType:  MessageTypeMarkdown,
		Markdown: &MarkdownMsg{Content: content},
	}
}

// BuildImageMessage 构建图片消息
func BuildImageMessage(data []byte) (*WebhookMessage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidImage, len(data), MaxImageBytes)
	}

	sum := md5.Sum(data)
	return &WebhookMessage{
		MsgType: MessageTypeImage,
		Image: &ImageMsg{
			Base64: base64.StdEncoding.EncodeToString(data),
			MD5:    hex.EncodeToString(sum[:]),
		},
	}, nil
}

// FormatDailySummary 格式化每日图片的说明文字
func FormatDailySummary(s *DailySummary) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("## 📅 %s %s\n", s.Date, s.Weekday))
	builder.WriteString(fmt.Sprintf("> %s\n", s.Lunar))
	builder.WriteString(fmt.Sprintf("> %s\n\n", s.ProgressText))

	builder.WriteString(fmt.Sprintf("**%s**\n", s.PoemTitle))
	builder.WriteString(s.PoemContent + "\n")
	builder.WriteString(fmt.Sprintf("<font color=\"comment\">--- %s</font>", s.PoemAuthor))
	if s.Fallback {
		builder.WriteString("\n<font color=\"comment\">(诗词接口不可用，使用默认诗词)</font>")
	}
	return builder.String()
}

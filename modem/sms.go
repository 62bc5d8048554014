package modem

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SendSMS 提交短信，MessageID 为空时自动生成
func (s *Session) SendSMS(ctx context.Context, msg SendSMS) (SendResult, error) {
	if msg.MessageID == "" {
		msg.MessageID = uuid.NewString()
	}
	if msg.Time.IsZero() {
		msg.Time = s.client.now().In(s.client.location)
	}

	reply, err := s.Do(ctx, msg)
	if err != nil {
		return SendResult{}, err
	}
	if err := reply.Expect(cmdSendSMS, resultSuccess); err != nil {
		return SendResult{}, err
	}

	// Recipient 原样返回调用方给出的号码，设备收到的是去掉空白后的号码
	return SendResult{MessageID: msg.MessageID, Recipient: msg.Number}, nil
}

// ListSMS 读取设备中的短信，按 ID 倒序
func (s *Session) ListSMS(ctx context.Context) ([]Message, error) {
	reply, err := s.Do(ctx, ListSMS{})
	if err != nil {
		return nil, err
	}
	if err := reply.ExpectOK(cmdListSMS); err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	items := reply.array("messages")
	messages := make([]Message, 0, len(items))

	for _, item := range items {
		m := Message{
			ID:      textOf(item.Get("id")),
			Number:  textOf(item.Get("number")),
			Content: textOf(item.Get("content")),
			Date:    textOf(item.Get("date")),
			Tag:     textOf(item.Get("tag")),
		}

		// 单条内容损坏不影响列表，保留原始内容
		text, err := DecodeText(m.Content)
		if err != nil {
			logger.Warn().Err(err).Str("pkg", "modem").Str("msg_id", m.ID).Msg("undecodable sms content")
		} else {
			m.Text = text
		}

		messages = append(messages, m)
	}

	return messages, nil
}

// DeleteSMS 删除单条短信
func (s *Session) DeleteSMS(ctx context.Context, id string) error {
	reply, err := s.Do(ctx, DeleteSMS{ID: id})
	if err != nil {
		return err
	}
	return reply.Expect(cmdDeleteSMS, resultSuccess)
}

package modem

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

type messageStore interface {
	ListSMS(ctx context.Context) ([]Message, error)
	DeleteSMS(ctx context.Context, id string) error
}

// DeleteAllSMS 逐条删除设备中的全部短信。
// 单条失败只记入 Failed，其余短信照常删除。设备无短信时直接返回空结果。
func (s *Session) DeleteAllSMS(ctx context.Context) (BulkResult, error) {
	return deleteAll(ctx, s)
}

// DeleteMessages 逐条删除已列出的短信，不重新读取列表。
// 调用方先处理列表（例如归档）再删除，期间新到的短信不受影响。
func (s *Session) DeleteMessages(ctx context.Context, messages []Message) BulkResult {
	return deleteListed(ctx, s, messages)
}

func deleteAll(ctx context.Context, store messageStore) (BulkResult, error) {
	messages, err := store.ListSMS(ctx)
	if err != nil {
		return BulkResult{}, fmt.Errorf("listing messages: %w", err)
	}
	return deleteListed(ctx, store, messages), nil
}

func deleteListed(ctx context.Context, store messageStore, messages []Message) BulkResult {
	result := BulkResult{Deleted: []string{}, Failed: []string{}}
	if len(messages) == 0 {
		return result
	}

	logger := zerolog.Ctx(ctx).With().Str("pkg", "modem").Logger()
	seen := make(map[string]struct{}, len(messages))

	for _, m := range messages {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}

		if err := store.DeleteSMS(ctx, m.ID); err != nil {
			logger.Warn().Err(err).Str("msg_id", m.ID).Msg("delete failed")
			if result.Reasons == nil {
				result.Reasons = make(map[string]string)
			}
			result.Failed = append(result.Failed, m.ID)
			result.Reasons[m.ID] = err.Error()
			continue
		}
		result.Deleted = append(result.Deleted, m.ID)
	}

	logger.Info().Int("deleted", len(result.Deleted)).Int("failed", len(result.Failed)).Msg("bulk delete finished")
	return result
}

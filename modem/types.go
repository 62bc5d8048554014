package modem

// Message 设备中存储的一条短信
type Message struct {
	ID      string `json:"id"`
	Number  string `json:"number"`
	Content string `json:"content"`
	Text    string `json:"content_decoded"`
	Date    string `json:"date"`
	Tag     string `json:"tag,omitempty"`
}

// SendResult 短信提交结果
type SendResult struct {
	MessageID string `json:"messageId"`
	Recipient string `json:"recipient"`
}

// BulkResult 批量删除结果，每个 ID 只出现在 Deleted 或 Failed 之一
type BulkResult struct {
	Deleted []string          `json:"deleted"`
	Failed  []string          `json:"failed"`
	Reasons map[string]string `json:"reasons,omitempty"`
}

// Total 本次批量操作涉及的短信数量
func (r BulkResult) Total() int {
	return len(r.Deleted) + len(r.Failed)
}

// RebootState 重启协议的终态
type RebootState string

const (
	RebootSucceeded RebootState = "succeeded"
	RebootFailed    RebootState = "failed"
)

// RebootOutcome 重启命令的判定结果
type RebootOutcome struct {
	State        RebootState `json:"state"`
	Acknowledged bool        `json:"acknowledged"`
	Message      string      `json:"message"`
}

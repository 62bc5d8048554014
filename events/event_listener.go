package events

import (
	"sync"
	"time"
)

// 事件类型
const (
	SMSSent     = "sms_sent"
	SMSDeleted  = "sms_deleted"
	SMSReceived = "sms_received"
	Reboot      = "reboot"
	Maintenance = "maintenance"
)

// Event 推送给订阅者的设备事件
type Event struct {
	Type  string    `json:"type"`
	Modem string    `json:"modem"`
	Data  any       `json:"data,omitempty"`
	Time  time.Time `json:"time"`
}

// EventListener 管理事件订阅和广播。
type EventListener struct {
	pool map[chan Event]struct{}
	sync.RWMutex
}

// NewEventListener 创建事件广播器
func NewEventListener() *EventListener {
	return &EventListener{pool: make(map[chan Event]struct{})}
}

// Publish 广播一条事件
func (el *EventListener) Publish(kind, modem string, data any) {
	el.Broadcast(Event{Type: kind, Modem: modem, Data: data, Time: time.Now()})
}

// Broadcast 非阻塞地向所有订阅者发送消息。
// 如果订阅者的通道已满，则跳过该订阅者的消息。
func (el *EventListener) Broadcast(e Event) {
	el.RLock()
	defer el.RUnlock()

	for ch := range el.pool {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe 创建一个新的订阅通道。
// 返回接收消息的通道和取消订阅的函数。
func (el *EventListener) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 100
	}
	ch := make(chan Event, buffer)

	el.Lock()
	el.pool[ch] = struct{}{}
	el.Unlock()

	return ch, func() {
		el.Lock()
		defer el.Unlock()
		if _, ok := el.pool[ch]; ok {
			delete(el.pool, ch)
			close(ch)
		}
	}
}

// Subscribers 当前订阅者数量
func (el *EventListener) Subscribers() int {
	el.RLock()
	defer el.RUnlock()
	return len(el.pool)
}

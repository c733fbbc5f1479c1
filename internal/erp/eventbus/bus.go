package eventbus

import "sync"

// 下游联动主题
const (
	TopicScheduleCreated      = "schedule.created"
	TopicQualityIntakeCreated = "quality_intake.created"
	TopicRejectedOrderCreated = "rejected_order.created"
)

// Event 总线事件。Payload是发布方实体的快照。
type Event struct {
	Topic   string      `json:"topic"`
	OrderID string      `json:"order_id"`
	SKU     string      `json:"sku"`
	Payload interface{} `json:"payload"`
}

// Handler 主题处理器
type Handler func(Event)

type handlerEntry struct {
	id int
	fn Handler
}

// Bus 进程内同步事件总线。Publish在发布方goroutine里按注册顺序
// 依次调用处理器，处理完才返回。
type Bus struct {
	mu       sync.Mutex
	seq      int
	handlers map[string][]handlerEntry
}

func New() *Bus {
	return &Bus{handlers: make(map[string][]handlerEntry)}
}

// Subscribe 订阅主题，返回退订函数
func (b *Bus) Subscribe(topic string, fn Handler) func() {
	b.mu.Lock()
	b.seq++
	id := b.seq
	b.handlers[topic] = append(b.handlers[topic], handlerEntry{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		entries := b.handlers[topic]
		for i, e := range entries {
			if e.id == id {
				b.handlers[topic] = append(entries[:i], entries[i+1:]...)
				return
			}
		}
	}
}

// Publish 同步发布事件
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	entries := b.handlers[ev.Topic]
	snapshot := make([]handlerEntry, len(entries))
	copy(snapshot, entries)
	b.mu.Unlock()

	for _, e := range snapshot {
		e.fn(ev)
	}
}

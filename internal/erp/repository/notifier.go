package repository

import "sync"

// 变更动作
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeEvent 集合变更通知。OrderID用于订阅方把重扫范围收敛到单个订单。
type ChangeEvent struct {
	Collection string `json:"collection"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	OrderID    string `json:"order_id"`
}

// Listener 集合变更监听器
type Listener func(ChangeEvent)

type listenerEntry struct {
	id int
	fn Listener
}

// notifier 同步观察者列表：变更提交后、调用方返回前，按注册顺序逐个调用。
type notifier struct {
	collection string

	mu      sync.Mutex
	seq     int
	entries []listenerEntry
}

// Subscribe 注册监听器，返回退订函数
func (n *notifier) Subscribe(fn Listener) func() {
	n.mu.Lock()
	n.seq++
	id := n.seq
	n.entries = append(n.entries, listenerEntry{id: id, fn: fn})
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, e := range n.entries {
			if e.id == id {
				n.entries = append(n.entries[:i], n.entries[i+1:]...)
				return
			}
		}
	}
}

// emit 在数据锁释放后调用，保证监听器看到已提交的状态且可安全回读集合
func (n *notifier) emit(action, entityID, orderID string) {
	n.mu.Lock()
	snapshot := make([]listenerEntry, len(n.entries))
	copy(snapshot, n.entries)
	n.mu.Unlock()

	ev := ChangeEvent{
		Collection: n.collection,
		Action:     action,
		EntityID:   entityID,
		OrderID:    orderID,
	}
	for _, e := range snapshot {
		e.fn(ev)
	}
}

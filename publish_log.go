package orderbook

import "sync"

// PublishLog is an interface for publishing order book logs (trades, opens, cancels).
//
// Publish is called synchronously from inside a book mutation. Implementations
// must not call back into the book, and must either process the logs before
// returning or copy them: the book recycles BookLog objects to a sync.Pool
// after Publish returns.
type PublishLog interface {
	Publish(...*BookLog)
}

// MemoryPublishLog stores logs in memory, useful for testing.
type MemoryPublishLog struct {
	mu   sync.RWMutex
	Logs []*BookLog
}

// NewMemoryPublishLog creates a new MemoryPublishLog.
func NewMemoryPublishLog() *MemoryPublishLog {
	return &MemoryPublishLog{
		Logs: make([]*BookLog, 0),
	}
}

// Publish appends copies of the logs to the in-memory slice.
func (m *MemoryPublishLog) Publish(logs ...*BookLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, log := range logs {
		cpy := new(BookLog)
		*cpy = *log
		m.Logs = append(m.Logs, cpy)
	}
}

// Count returns the number of logs stored.
func (m *MemoryPublishLog) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Logs)
}

// Get returns the log at the specified index.
func (m *MemoryPublishLog) Get(index int) *BookLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.Logs[index]
}

// All returns a copy of all logs stored.
func (m *MemoryPublishLog) All() []*BookLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	logs := make([]*BookLog, len(m.Logs))
	copy(logs, m.Logs)
	return logs
}

// OfType returns the stored logs of the given type, in publish order.
func (m *MemoryPublishLog) OfType(logType LogType) []*BookLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	logs := make([]*BookLog, 0)
	for _, log := range m.Logs {
		if log.Type == logType {
			logs = append(logs, log)
		}
	}
	return logs
}

// Reset drops every stored log.
func (m *MemoryPublishLog) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = m.Logs[:0]
}

// DiscardPublishLog discards all logs, useful for benchmarking.
type DiscardPublishLog struct {
}

// NewDiscardPublishLog creates a new DiscardPublishLog.
func NewDiscardPublishLog() *DiscardPublishLog {
	return &DiscardPublishLog{}
}

// Publish does nothing.
func (p *DiscardPublishLog) Publish(logs ...*BookLog) {

}

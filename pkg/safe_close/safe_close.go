// Package safe_close 提供带关闭信号广播的协程生命周期管理
package safe_close

import (
	"sync"
)

// SafeClose coordinates a group of goroutines that must all observe one close
// signal and be waited on during shutdown.
// SafeClose 协调一组协程：统一接收关闭信号，并在退出时等待全部结束
type SafeClose struct {
	mu          sync.Mutex
	closed      bool
	closeSignal chan struct{}
	err         error
	wg          sync.WaitGroup
}

func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeSignal: make(chan struct{}),
	}
}

// Attach 注册一个受管协程；f 必须在退出前调用 done()
func (s *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var once sync.Once
	done := func() {
		once.Do(s.wg.Done)
	}
	go f(done, s.closeSignal)
}

// SendCloseSignal 广播关闭信号；首个非 nil 错误会被保留
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.err = err
	close(s.closeSignal)
}

// WaitClosed 阻塞直到收到关闭信号且所有受管协程退出，返回触发关闭的错误
func (s *SafeClose) WaitClosed() error {
	<-s.closeSignal
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/anontalk/internal/model"
	"github.com/d60-Lab/anontalk/pkg/logger"
)

var nowUTC = func() time.Time { return time.Now().UTC() }

type seenJob struct {
	talkID    uint64
	recipient model.Role
	ids       []uint64
	enqAt     time.Time
}

// SeenMarker 本地异步已读标记器：查看消息后由后台 worker 落库
type SeenMarker struct {
	messages  MessageStore
	ch        chan seenJob
	metricsCh chan time.Duration
}

func NewSeenMarker(messages MessageStore, queueSize int) *SeenMarker {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &SeenMarker{messages: messages, ch: make(chan seenJob, queueSize), metricsCh: make(chan time.Duration, 4096)}
}

// Start 启动 workers 个消费者；返回的停止函数先等待进行中的任务结束，再在短时间内排空队列
func (m *SeenMarker) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job := <-m.ch:
					m.process(job)
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}

		// 剩余任务在调用方 goroutine 中处理
		timeout := time.After(2 * time.Second)
		for {
			select {
			case job := <-m.ch:
				m.process(job)
			case <-timeout:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			default:
				return nil
			}
		}
	}
}

func (m *SeenMarker) process(job seenJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n, err := m.messages.MarkSeen(ctx, job.talkID, job.recipient, job.ids, nowUTC())
	if err != nil {
		logger.Warn("mark seen failed", zap.Uint64("talk", job.talkID), zap.String("recipient", string(job.recipient)), zap.Error(err))
	} else {
		logger.Debug("messages marked seen", zap.Uint64("talk", job.talkID), zap.Int64("count", n))
	}
	select {
	case m.metricsCh <- time.Since(job.enqAt):
	default:
	}
}

// Enqueue 非阻塞；队列满时丢弃，下次查看会再次入队。ids 为实际展示过的消息
func (m *SeenMarker) Enqueue(talkID uint64, recipient model.Role, ids []uint64) {
	select {
	case m.ch <- seenJob{talkID: talkID, recipient: recipient, ids: ids, enqAt: time.Now()}:
	default:
		logger.Warn("seen marker queue full, drop", zap.Uint64("talk", talkID), zap.String("recipient", string(recipient)))
	}
}

// Metrics 返回标记落地耗时的只读通道（每处理一条发送一次 duration）。
func (m *SeenMarker) Metrics() <-chan time.Duration { return m.metricsCh }

// QueueLen 返回当前队列长度（采样值）。
func (m *SeenMarker) QueueLen() int { return len(m.ch) }

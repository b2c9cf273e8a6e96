package notif

import (
	"context"
	"log"
	"sync"

	"labtrack/internal/common"
)

// ActivityManager fans mutation audit events out to its observers. Mutating
// operations publish through NotifyAsync after their primary write succeeds;
// observer failures are logged and swallowed, never surfaced to the caller.
type ActivityManager struct {
	observers    map[string]common.Observer
	eventChannel chan common.ActivityEvent
	workerPool   int
	ctx          context.Context
	cancel       context.CancelFunc
	mu           sync.RWMutex
	wg           sync.WaitGroup
}

func NewActivityManager(workerPoolSize, bufferSize int) *ActivityManager {
	ctx, cancel := context.WithCancel(context.Background())

	am := &ActivityManager{
		observers:    make(map[string]common.Observer),
		eventChannel: make(chan common.ActivityEvent, bufferSize),
		workerPool:   workerPoolSize,
		ctx:          ctx,
		cancel:       cancel,
	}

	for i := 0; i < workerPoolSize; i++ {
		am.wg.Add(1)
		go am.processEvents()
	}

	return am
}

func (am *ActivityManager) Subscribe(observer common.Observer) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.observers[observer.Name()] = observer
	log.Printf("Observer %s subscribed", observer.Name())
}

func (am *ActivityManager) Unsubscribe(observer common.Observer) {
	am.mu.Lock()
	defer am.mu.Unlock()
	delete(am.observers, observer.Name())
	log.Printf("Observer %s unsubscribed", observer.Name())
}

// Notify delivers the event to every observer synchronously. Observer errors
// are contained here.
func (am *ActivityManager) Notify(event common.ActivityEvent) {
	am.mu.RLock()
	observers := make([]common.Observer, 0, len(am.observers))
	for _, obs := range am.observers {
		observers = append(observers, obs)
	}
	am.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(event); err != nil {
			log.Printf("Observer %s update failed: %v", observer.Name(), err)
		}
	}
}

// NotifyAsync queues the event for the worker pool. A full channel drops the
// event rather than blocking the request path.
func (am *ActivityManager) NotifyAsync(event common.ActivityEvent) {
	select {
	case am.eventChannel <- event:

	case <-am.ctx.Done():
		return
	default:
		log.Printf("Activity channel full, dropping event: %s", event.Type)
	}
}

func (am *ActivityManager) processEvents() {
	defer am.wg.Done()

	for {
		select {
		case event := <-am.eventChannel:
			am.Notify(event)
		case <-am.ctx.Done():
			return
		}
	}
}

func (am *ActivityManager) Shutdown() {
	am.cancel()
	am.wg.Wait()
	log.Println("ActivityManager shutdown complete")
}

package common

// Observer receives activity events published by mutating operations.
type Observer interface {
	Update(event ActivityEvent) error
	Name() string
}

type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	Notify(event ActivityEvent)
	NotifyAsync(event ActivityEvent)
}

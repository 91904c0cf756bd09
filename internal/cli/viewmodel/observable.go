// Package viewmodel — состояние экранов клиента: каталог медикаментов и сессия.
// Каждая модель отдаёт неизменяемый снимок состояния и уведомляет подписчиков после изменений.
package viewmodel

import "sync"

// observable рассылает снимки состояния подписчикам.
type observable[T any] struct {
	mu   sync.Mutex
	subs map[int]func(T)
	next int
}

// Subscribe регистрирует fn и возвращает функцию отписки.
func (o *observable[T]) Subscribe(fn func(T)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.subs == nil {
		o.subs = map[int]func(T){}
	}
	o.next++
	id := o.next
	o.subs[id] = fn
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subs, id)
	}
}

func (o *observable[T]) publish(v T) {
	o.mu.Lock()
	fns := make([]func(T), 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

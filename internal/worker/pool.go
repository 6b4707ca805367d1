// Package worker ограничивает число одновременных CPU-тяжёлых операций
// (хеширование, классификация), чтобы они не вытесняли обработку апдейтов.
package worker

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool — ограниченный пул: не более n задач одновременно, остальные ждут слот
// (с учётом отмены контекста).
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool создаёт пул на n слотов; n <= 0 — по числу CPU.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &Pool{sem: semaphore.NewWeighted(int64(n))}
}

// Do выполняет fn в текущей горутине, заняв слот пула. Возвращает ошибку только
// если контекст отменён до получения слота.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("worker.Do: %w", err)
	}
	defer p.sem.Release(1)
	fn()
	return nil
}

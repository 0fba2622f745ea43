package cache

import (
	"context"
	"time"

	"github.com/vfg2006/campaign-metrics-api/pkg/log"
)

type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	DeletePrefix(prefix string) int
	Size() int
}

// Cleaner é implementado pelos caches que removem entradas vencidas
type Cleaner interface {
	CleanExpired() int
}

// Manager executa a limpeza periódica dos caches registrados
type Manager struct {
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

func (m *Manager) Register(cache Cleaner) {
	m.caches = append(m.caches, cache)
}

// StartCleanup roda até Stop ser chamado ou o contexto ser cancelado
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	go m.cleanup(ctx, interval)
}

func (m *Manager) cleanup(ctx context.Context, interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := m.CleanAll(); cleaned > 0 {
				log.L.WithField("removed", cleaned).Debug("cache: expired entries removed")
			}
		case <-m.stopCleanup:
			return
		case <-ctx.Done():
			return
		}
	}
}

// CleanAll limpa todos os caches registrados uma vez
func (m *Manager) CleanAll() int {
	total := 0
	for _, cache := range m.caches {
		total += cache.CleanExpired()
	}
	return total
}

// Stop encerra a rotina de limpeza e aguarda sua saída. Só pode ser chamado depois de StartCleanup.
func (m *Manager) Stop() {
	select {
	case <-m.stopCleanup:
	default:
		close(m.stopCleanup)
	}
	<-m.cleanupDone
}

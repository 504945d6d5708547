package memory

import (
	"fmt"
	"sync"
	"time"

	"image-adjuster/internal/logger"
	"image-adjuster/internal/opencv/safe"

	"gocv.io/x/gocv"
)

const (
	defaultMaxAllowed = 2 * 1024 * 1024 * 1024
	defaultPoolSize   = 4

	surfaceTag = "render_surface"
)

// Manager hands out render surfaces and keeps released ones in per-shape
// pools so repeated renders at the same preset reuse native buffers.
type Manager struct {
	pools       map[PoolKey]*Pool
	allocations map[uint64]*AllocationRecord
	mu          sync.Mutex
	stats       Stats
	poolSize    int
	logger      logger.Logger
}

type PoolKey struct {
	Rows    int
	Cols    int
	MatType gocv.MatType
}

type AllocationRecord struct {
	Mat       *safe.Mat
	CreatedAt time.Time
	Size      int64
}

type Stats struct {
	TotalAllocated int64
	TotalReleased  int64
	ActiveMats     int64
	PooledMats     int64
	PoolHits       int64
	PoolMisses     int64
	MaxAllowed     int64
}

func NewManager(log logger.Logger) *Manager {
	return &Manager{
		pools:       make(map[PoolKey]*Pool),
		allocations: make(map[uint64]*AllocationRecord),
		stats: Stats{
			MaxAllowed: defaultMaxAllowed,
		},
		poolSize: defaultPoolSize,
		logger:   log,
	}
}

// SetPoolSize caps how many released surfaces of one shape are kept for
// reuse. Pools that already exist are trimmed on their next release.
func (m *Manager) SetPoolSize(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if size > 0 {
		m.poolSize = size
	}
}

// GetMat returns a surface of exactly rows x cols. Its contents are undefined;
// callers overwrite every pixel.
func (m *Manager) GetMat(rows, cols int, matType gocv.MatType) (*safe.Mat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if live := m.stats.TotalAllocated - m.stats.TotalReleased; live > m.stats.MaxAllowed {
		return nil, fmt.Errorf("memory limit exceeded: %d bytes allocated", live)
	}

	key := PoolKey{Rows: rows, Cols: cols, MatType: matType}
	size := safe.ByteSize(rows, cols, matType)

	if pool, exists := m.pools[key]; exists {
		if mat := pool.Get(); mat != nil {
			m.stats.PoolHits++
			m.stats.PooledMats--
			m.track(mat, size)
			m.logger.Debug("MemoryManager", "reused Mat from pool", map[string]interface{}{
				"rows": rows,
				"cols": cols,
			})
			return mat, nil
		}
	}

	m.stats.PoolMisses++
	mat, err := safe.NewTaggedMat(rows, cols, matType, surfaceTag)
	if err != nil {
		return nil, err
	}
	m.track(mat, size)

	m.logger.Debug("MemoryManager", "created new Mat", map[string]interface{}{
		"rows": rows,
		"cols": cols,
	})
	return mat, nil
}

func (m *Manager) track(mat *safe.Mat, size int64) {
	m.allocations[mat.ID()] = &AllocationRecord{
		Mat:       mat,
		CreatedAt: time.Now(),
		Size:      size,
	}
	m.stats.TotalAllocated += size
	m.stats.ActiveMats++
}

// ReleaseMat returns mat to its pool, or closes it when the pool is full or
// the Mat was not handed out by this manager.
func (m *Manager) ReleaseMat(mat *safe.Mat) {
	if mat == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := mat.ID()
	record, exists := m.allocations[id]
	if !exists {
		m.logger.Warning("MemoryManager", "releasing untracked Mat", map[string]interface{}{
			"mat_id": id,
			"tag":    mat.Tag(),
		})
		mat.Close()
		return
	}

	delete(m.allocations, id)
	m.stats.TotalReleased += record.Size
	m.stats.ActiveMats--

	key := PoolKey{
		Rows:    mat.Rows(),
		Cols:    mat.Cols(),
		MatType: mat.Type(),
	}

	pool, exists := m.pools[key]
	if !exists {
		pool = NewPool(m.poolSize)
		m.pools[key] = pool
	}
	m.stats.PooledMats -= int64(pool.Resize(m.poolSize))

	if pool.Put(mat) {
		m.stats.PooledMats++
		return
	}

	mat.Close()
	m.logger.Debug("MemoryManager", "closed Mat, pool full", map[string]interface{}{
		"rows": key.Rows,
		"cols": key.Cols,
	})
}

func (m *Manager) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Cleanup closes every pooled and outstanding Mat.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	matCount := 0
	for key, pool := range m.pools {
		matCount += pool.Cleanup()
		delete(m.pools, key)
	}

	for id, record := range m.allocations {
		record.Mat.Close()
		delete(m.allocations, id)
		matCount++
	}

	m.stats.ActiveMats = 0
	m.stats.PooledMats = 0

	m.logger.Info("MemoryManager", "cleanup completed", map[string]interface{}{
		"closed_mats": matCount,
	})
}

// Shutdown satisfies the shutdown manager's component contract.
func (m *Manager) Shutdown() error {
	m.Cleanup()
	return nil
}

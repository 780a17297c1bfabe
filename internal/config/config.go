package config

import "sync"

const (
	MinViewDistance = 0
	MaxViewDistance = 16
)

// RenderSettings holds the settings the viewer may change while running.
type RenderSettings struct {
	mu            sync.RWMutex
	viewDistance  int // in chunks
	fpsLimit      int // 0 means unlimited
	wireframeMode bool
}

var globalRenderSettings = &RenderSettings{
	viewDistance: DefaultViewDistance,
	fpsLimit:     120,
}

// GetViewDistance returns the current view radius in chunks
func GetViewDistance() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.viewDistance
}

// SetViewDistance sets the view radius in chunks, clamped to
// [MinViewDistance, MaxViewDistance]. It returns the stored value.
func SetViewDistance(distance int) int {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	distance = max(distance, MinViewDistance)
	distance = min(distance, MaxViewDistance)
	globalRenderSettings.viewDistance = distance
	return distance
}

// AdjustViewDistance changes the view radius by delta chunks.
func AdjustViewDistance(delta int) int {
	return SetViewDistance(GetViewDistance() + delta)
}

func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.fpsLimit = max(limit, 0)
}

func IsWireframeMode() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.wireframeMode
}

func ToggleWireframeMode() {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.wireframeMode = !globalRenderSettings.wireframeMode
}

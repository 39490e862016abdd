// Package speech runs the spoken-audio side channel of the interview. It never
// blocks or alters the question/answer flow: every failure degrades to a
// playback status on the affected turn.
package speech

import (
	"context"
	"sync"

	"github.com/muhammadolammi/careeradvisor/internal/advisor"
	"github.com/muhammadolammi/careeradvisor/internal/domain"
	"github.com/muhammadolammi/careeradvisor/internal/logger"
)

type Synthesizer interface {
	SynthesizeSpeech(ctx context.Context, text string) (*advisor.Audio, error)
}

// Sink receives playback changes. Its methods are called with the manager's
// lock held and must not call back into the Manager.
type Sink interface {
	SetPlayback(turnID int, status domain.PlaybackStatus)
	PlayAudio(turnID int, audio *advisor.Audio)
	// ResolveAll marks every pending or playing turn as played.
	ResolveAll()
}

// Manager owns a session's playback handles and the audio-enabled flag. Only
// the Manager mutates them.
type Manager struct {
	synth Synthesizer
	cache *PhraseCache
	log   *logger.Logger

	mu      sync.Mutex
	sink    Sink
	enabled bool
	active  map[int]struct{}
	wg      sync.WaitGroup
}

func NewManager(synth Synthesizer, cache *PhraseCache, log *logger.Logger) *Manager {
	return &Manager{
		synth:   synth,
		cache:   cache,
		log:     log,
		enabled: true,
	}
}

// Attach sets the sink receiving playback changes.
func (m *Manager) Attach(sink Sink) {
	m.mu.Lock()
	m.sink = sink
	m.mu.Unlock()
}

// Announce narrates a turn in the background.
func (m *Manager) Announce(turnID int, text string, filler bool) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.Narrate(context.Background(), turnID, text, filler)
	}()
}

// Wait blocks until every background narration has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Narrate synthesizes text and starts its playback.
func (m *Manager) Narrate(ctx context.Context, turnID int, text string, filler bool) {
	if !m.Enabled() {
		m.resolve(turnID, domain.PlaybackPlayed)
		return
	}

	audio, err := m.audioFor(ctx, text, filler)
	if err != nil {
		m.log.Warn("speech synthesis failed", "turn_id", turnID, "err", err)
		m.failed(turnID)
		return
	}
	m.play(turnID, audio)
}

func (m *Manager) audioFor(ctx context.Context, text string, filler bool) (*advisor.Audio, error) {
	if filler && m.cache != nil {
		if audio, ok := m.cache.Get(text); ok {
			return audio, nil
		}
	}
	audio, err := m.synth.SynthesizeSpeech(ctx, text)
	if err != nil {
		return nil, err
	}
	if filler && audio != nil && m.cache != nil {
		m.cache.Set(text, audio)
	}
	return audio, nil
}

// play stops every active playback before starting turnID's.
func (m *Manager) play(turnID int, audio *advisor.Audio) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled || audio == nil {
		m.setPlayback(turnID, domain.PlaybackPlayed)
		return
	}
	m.stopAllLocked()
	if m.active == nil {
		m.active = make(map[int]struct{})
	}
	m.active[turnID] = struct{}{}
	m.setPlayback(turnID, domain.PlaybackPlaying)
	if m.sink != nil {
		m.sink.PlayAudio(turnID, audio)
	}
}

// Finished records the end of a turn's playback reported by the browser.
func (m *Manager) Finished(turnID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.active[turnID]; !ok {
		return
	}
	delete(m.active, turnID)
	m.setPlayback(turnID, domain.PlaybackPlayed)
}

// StopAll stops every active playback.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAllLocked()
}

func (m *Manager) stopAllLocked() {
	for id := range m.active {
		m.setPlayback(id, domain.PlaybackPlayed)
	}
	clear(m.active)
}

// Disable stops playback and resolves every outstanding turn. No playback
// starts until Enable is called.
func (m *Manager) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.enabled = false
	clear(m.active)
	if m.sink != nil {
		m.sink.ResolveAll()
	}
}

func (m *Manager) Enable() {
	m.mu.Lock()
	m.enabled = true
	m.mu.Unlock()
}

func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

func (m *Manager) Active() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int, 0, len(m.active))
	for id := range m.active {
		ids = append(ids, id)
	}
	return ids
}

func (m *Manager) resolve(turnID int, status domain.PlaybackStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setPlayback(turnID, status)
}

// failed marks a turn whose synthesis failed. Once audio is disabled the
// turn stays played.
func (m *Manager) failed(turnID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		m.setPlayback(turnID, domain.PlaybackPlayed)
		return
	}
	m.setPlayback(turnID, domain.PlaybackFailed)
}

func (m *Manager) setPlayback(turnID int, status domain.PlaybackStatus) {
	if m.sink != nil {
		m.sink.SetPlayback(turnID, status)
	}
}

// Warm synthesizes phrases missing from the cache. Failures are logged and skipped.
func Warm(ctx context.Context, synth Synthesizer, cache *PhraseCache, phrases []string, log *logger.Logger) {
	for _, text := range phrases {
		if _, ok := cache.Get(text); ok {
			continue
		}
		audio, err := synth.SynthesizeSpeech(ctx, text)
		if err != nil {
			log.Warn("failed to pre-cache phrase audio", "text", text, "err", err)
			continue
		}
		if audio != nil {
			cache.Set(text, audio)
		}
	}
}

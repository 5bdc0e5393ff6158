// Package presence はどのユーザーがどのスペースを表示中かを記録する
// プロセス内レジストリを提供する。永続化は行わず、プロセス再起動で失われる。
package presence

import (
	"sync"
	"time"
)

// ConnectionGauge はアクティブ接続数の計測インターフェース。
// metrics.Collectorの部分集合として定義する。nil可。
type ConnectionGauge interface {
	SetActiveConnections(n int)
}

// entry はユーザー1人分の接続記録。
type entry struct {
	spaceName string
	lastSeen  time.Time
}

// Tracker はユーザーごとの閲覧中スペースを記録するレジストリ。
// 1ユーザーにつき同時に記録されるスペースは最大1つ（上書きセマンティクス）。
// 全操作は単一のミューテックスで保護され、ロック保持中にI/Oは行わない。
type Tracker struct {
	mu          sync.Mutex
	connections map[string]entry

	ttl   time.Duration
	gauge ConnectionGauge
	now   func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

// Option はTrackerの生成オプション。
type Option func(*Tracker)

// WithGauge はアクティブ接続数のゲージを設定する。
func WithGauge(g ConnectionGauge) Option {
	return func(t *Tracker) {
		t.gauge = g
	}
}

// withClock はテスト用に現在時刻の取得関数を差し替える。
func withClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker は新しいTrackerを生成する。
// ttlが正の場合、最終アクセスからttlを超えたエントリを定期的に削除する
// ジャニターをバックグラウンドで起動する。切断イベントが失われても
// エントリが永久に残らないようにするための保険であり、Stop()で停止する。
func NewTracker(ttl time.Duration, opts ...Option) *Tracker {
	t := &Tracker{
		connections: make(map[string]entry),
		ttl:         ttl,
		now:         time.Now,
		stopCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	if ttl > 0 {
		go t.sweepLoop()
	}

	return t
}

// Stop はジャニターのバックグラウンドゴルーチンを停止する。
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
	})
}

// AddConnection はユーザーの接続を記録する。
// 同一ユーザーの既存エントリは上書きされる。
func (t *Tracker) AddConnection(userID, spaceName string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.connections[userID] = entry{
		spaceName: spaceName,
		lastSeen:  t.now(),
	}
	t.updateGaugeLocked()
}

// RemoveConnection はユーザーの接続記録を削除する。エントリがなければ何もしない。
func (t *Tracker) RemoveConnection(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.connections, userID)
	t.updateGaugeLocked()
}

// OtherActiveSpaces は自分以外の全ユーザーが現在表示中のスペース名を返す。
// 複数ユーザーが同じスペースを表示している場合は重複して含まれる。順序は不定。
func (t *Tracker) OtherActiveSpaces(userID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	spaces := []string{}
	for uid, e := range t.connections {
		if uid == userID {
			continue
		}
		spaces = append(spaces, e.spaceName)
	}

	return spaces
}

// ActiveConnectionCount は現在記録されている接続数を返す。テストおよびメトリクス用。
func (t *Tracker) ActiveConnectionCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.connections)
}

// sweepLoop はバックグラウンドで期限切れエントリを定期的に削除する。
func (t *Tracker) sweepLoop() {
	interval := t.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.sweep()
		case <-t.stopCh:
			return
		}
	}
}

// sweep は最終アクセスからTTLを超えたエントリを削除する。
func (t *Tracker) sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for uid, e := range t.connections {
		if now.Sub(e.lastSeen) > t.ttl {
			delete(t.connections, uid)
		}
	}
	t.updateGaugeLocked()
}

// updateGaugeLocked はゲージを現在の接続数に更新する。呼び出し側でロックを保持すること。
func (t *Tracker) updateGaugeLocked() {
	if t.gauge != nil {
		t.gauge.SetActiveConnections(len(t.connections))
	}
}

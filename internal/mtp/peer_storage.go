package mtp

import (
	"context"
	"sort"
	"sync"

	"github.com/gotd/contrib/storage"
)

// MemStorage is the default peer storage for MTP. It uses a map to store all
// peers, hence, it's not a persistent store.
type MemStorage struct {
	mu sync.RWMutex
	s  map[string]storage.Peer
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		s: make(map[string]storage.Peer),
	}
}

func (ms *MemStorage) Add(_ context.Context, value storage.Peer) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.s[storage.KeyFromPeer(value).String()] = value
	return nil
}

func (ms *MemStorage) Find(ctx context.Context, key storage.PeerKey) (storage.Peer, error) {
	return ms.Resolve(ctx, key.String())
}

func (ms *MemStorage) Assign(_ context.Context, key string, value storage.Peer) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.s[key] = value
	return nil
}

func (ms *MemStorage) Resolve(_ context.Context, key string) (storage.Peer, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	peer, ok := ms.s[key]
	if !ok {
		return storage.Peer{}, storage.ErrPeerNotFound
	}
	return peer, nil
}

func (ms *MemStorage) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.s)
}

// Iterate returns the iterator over the snapshot of the storage, sorted by
// key.  Changes made during iteration are not visible to the iterator.
func (ms *MemStorage) Iterate(ctx context.Context) (storage.PeerIterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	keys := make([]string, 0, len(ms.s))
	for k := range ms.s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	peers := make([]storage.Peer, len(keys))
	for i, k := range keys {
		peers[i] = ms.s[k]
	}
	return &memIterator{peers: peers, idx: -1}, nil
}

type memIterator struct {
	peers []storage.Peer
	idx   int
	err   error
}

func (it *memIterator) Next(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		it.err = err
		return false
	}
	it.idx++
	return it.idx < len(it.peers)
}

func (it *memIterator) Err() error {
	return it.err
}

func (it *memIterator) Value() storage.Peer {
	if it.idx < 0 || it.idx >= len(it.peers) {
		return storage.Peer{}
	}
	return it.peers[it.idx]
}

func (it *memIterator) Close() error {
	it.peers = nil
	return nil
}

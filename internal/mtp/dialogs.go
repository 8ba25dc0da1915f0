package mtp

import (
	"context"
	"errors"
	"fmt"
	"runtime/trace"

	"github.com/gotd/contrib/storage"
	"github.com/gotd/td/telegram/query/dialogs"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
)

// ErrNotFound is returned by Resolve, if the conversation is not known.
var ErrNotFound = errors.New("conversation not found")

// GetDialogs retrieves all account dialogs in the order returned by the
// server.
func (c *Client) GetDialogs(ctx context.Context) ([]Conversation, error) {
	return c.GetConversations(ctx, FilterAll())
}

// GetChats retrieves the account chats.
func (c *Client) GetChats(ctx context.Context) ([]Conversation, error) {
	return c.GetConversations(ctx, FilterChat())
}

// GetChannels retrieves the account channels.
func (c *Client) GetChannels(ctx context.Context) ([]Conversation, error) {
	return c.GetConversations(ctx, FilterChannel())
}

// GetConversations ensures that storage is populated, then walks through the
// dialogs calling filterFn for each peer.  The filterFn should return the
// Conversation and true, if the peer satisfies the criteria, or false
// otherwise.
func (c *Client) GetConversations(ctx context.Context, filterFn FilterFunc) ([]Conversation, error) {
	ctx, task := trace.NewTask(ctx, "GetConversations")
	defer task.End()

	keys, err := c.ensureStoragePopulated(ctx)
	if err != nil {
		return nil, err
	}

	var cc []Conversation
	for _, key := range keys {
		peer, err := c.storage.Find(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("peer %s: %w", key, err)
		}
		conv, ok := filterFn(peer)
		if !ok {
			continue
		}
		cc = append(cc, conv)
	}
	return cc, nil
}

// ensureStoragePopulated ensures that the peer storage has been populated within
// defCacheEvict duration.  It returns the keys of dialog peers in the dialog
// order.
func (c *Client) ensureStoragePopulated(ctx context.Context) ([]storage.PeerKey, error) {
	if cached, err := c.cache.Get(cacheDlgStorage); err == nil {
		trace.Log(ctx, "cache", "hit")
		return cached.([]storage.PeerKey), nil
	}
	trace.Log(ctx, "cache", "miss")

	dlgIter := dialogs.NewQueryBuilder(c.cl.API()).
		GetDialogs().
		BatchSize(defBatchSize).
		Iter()
	keys, err := collectDialogs(ctx, c.storage, dlgIter)
	if err != nil {
		return nil, err
	}
	if err := c.cache.SetWithExpire(cacheDlgStorage, keys, defCacheEvict); err != nil {
		return nil, err
	}
	return keys, nil
}

type dialogIterator interface {
	Next(ctx context.Context) bool
	Value() dialogs.Elem
	Err() error
}

// collectDialogs adds the peer of each dialog to the storage.
func collectDialogs(ctx context.Context, s storage.PeerStorage, it dialogIterator) ([]storage.PeerKey, error) {
	var keys []storage.PeerKey
	for it.Next(ctx) {
		p, ok := peerOf(it.Value())
		if !ok {
			continue
		}
		if err := s.Add(ctx, p); err != nil {
			return nil, err
		}
		keys = append(keys, storage.KeyFromPeer(p))
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("get dialogs: %w", err)
	}
	return keys, nil
}

func peerOf(elem dialogs.Elem) (storage.Peer, bool) {
	var p storage.Peer
	switch dp := elem.Dialog.GetPeer().(type) {
	case *tg.PeerUser:
		u, ok := elem.Entities.Users()[dp.UserID]
		if !ok {
			return p, false
		}
		ok = p.FromUser(u)
		return p, ok
	case *tg.PeerChat:
		chat, ok := elem.Entities.Chats()[dp.ChatID]
		if !ok {
			return p, false
		}
		ok = p.FromChat(chat)
		return p, ok
	case *tg.PeerChannel:
		ch, ok := elem.Entities.Channels()[dp.ChannelID]
		if !ok {
			return p, false
		}
		ok = p.FromChat(ch)
		return p, ok
	}
	return p, false
}

// Resolve finds the group or channel by the reference, see ParseRef for the
// accepted forms.  Numeric IDs are looked up among the account dialogs.
func (c *Client) Resolve(ctx context.Context, raw string) (Conversation, error) {
	ctx, task := trace.NewTask(ctx, "Resolve")
	defer task.End()

	ref, err := ParseRef(raw)
	if err != nil {
		return Conversation{}, err
	}
	if ref.Username != "" {
		return c.resolveUsername(ctx, ref.Username)
	}
	if _, err := c.ensureStoragePopulated(ctx); err != nil {
		return Conversation{}, err
	}
	for _, key := range ref.keys() {
		peer, err := c.storage.Find(ctx, key)
		if err != nil {
			if errors.Is(err, storage.ErrPeerNotFound) {
				continue
			}
			return Conversation{}, err
		}
		if conv, ok := FilterGroupLike()(peer); ok {
			return conv, nil
		}
	}
	return Conversation{}, fmt.Errorf("%w: %s", ErrNotFound, raw)
}

func (c *Client) resolveUsername(ctx context.Context, name string) (Conversation, error) {
	res, err := c.cl.API().ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{Username: name})
	if err != nil {
		if tgerr.Is(err, "USERNAME_NOT_OCCUPIED", "USERNAME_INVALID") {
			return Conversation{}, fmt.Errorf("%w: @%s", ErrNotFound, name)
		}
		return Conversation{}, err
	}
	conv, p, ok := matchResolved(res)
	if !ok {
		return Conversation{}, fmt.Errorf("%w: @%s is not a group or channel", ErrNotFound, name)
	}
	if err := c.storage.Add(ctx, p); err != nil {
		return Conversation{}, err
	}
	return conv, nil
}

// matchResolved picks the resolved chat out of the response.
func matchResolved(res *tg.ContactsResolvedPeer) (Conversation, storage.Peer, bool) {
	var id int64
	switch p := res.Peer.(type) {
	case *tg.PeerChannel:
		id = p.ChannelID
	case *tg.PeerChat:
		id = p.ChatID
	default:
		return Conversation{}, storage.Peer{}, false
	}
	for _, chat := range res.Chats {
		var p storage.Peer
		if !p.FromChat(chat) {
			continue
		}
		conv, ok := FilterGroupLike()(p)
		if ok && conv.ID == id {
			return conv, p, true
		}
	}
	return Conversation{}, storage.Peer{}, false
}

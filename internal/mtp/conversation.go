package mtp

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gotd/contrib/storage"
	"github.com/gotd/td/telegram/query/dialogs"
	"github.com/gotd/td/tg"
)

// Kind is the kind of the conversation.
type Kind uint8

const (
	KindOther Kind = iota
	KindUser
	KindGroup
	KindChannel
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindGroup:
		return "group"
	case KindChannel:
		return "channel"
	default:
		return "other"
	}
}

// IsGroupLike returns true for groups, supergroups and channels.
func (k Kind) IsGroupLike() bool {
	return k == KindGroup || k == KindChannel
}

// Conversation is a dialog of the current user.  Peer is used to address the
// conversation in API calls.
type Conversation struct {
	ID    int64
	Title string
	Kind  Kind
	Peer  tg.InputPeerClass
}

func conversationOf(p storage.Peer) (Conversation, bool) {
	switch {
	case p.Channel != nil:
		kind := KindGroup
		if p.Channel.Broadcast {
			kind = KindChannel
		}
		return Conversation{ID: p.Channel.ID, Title: p.Channel.Title, Kind: kind, Peer: p.Channel.AsInputPeer()}, true
	case p.Chat != nil:
		return Conversation{ID: p.Chat.ID, Title: p.Chat.Title, Kind: KindGroup, Peer: p.Chat.AsInputPeer()}, true
	case p.User != nil:
		return Conversation{ID: p.User.ID, Title: userTitle(p.User), Kind: KindUser, Peer: p.User.AsInputPeer()}, true
	}
	return Conversation{}, false
}

func userTitle(u *tg.User) string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}

// botAPIChannelShift is the offset of the channel IDs in the Bot API notation:
// channel 1234 is written as -1000000001234.
const botAPIChannelShift = 1_000_000_000_000

// Ref is a parsed conversation reference given by the user.
type Ref struct {
	ID       int64
	Kinds    []dialogs.PeerKind // candidate kinds, in lookup order
	Username string
}

var errEmptyRef = errors.New("empty conversation reference")

// ParseRef parses the conversation reference.  Accepted forms are:
//
//	1234567890      channel or chat ID
//	-1001234567890  channel ID in Bot API notation
//	-1234567        chat ID in Bot API notation
//	@name, name, https://t.me/name  public username
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, errEmptyRef
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		name, err := usernameOf(s)
		if err != nil {
			return Ref{}, err
		}
		return Ref{Username: name}, nil
	}
	switch {
	case n == 0, n == -botAPIChannelShift, n == math.MinInt64:
		return Ref{}, fmt.Errorf("invalid conversation id: %s", s)
	case n <= -botAPIChannelShift:
		return Ref{ID: -n - botAPIChannelShift, Kinds: []dialogs.PeerKind{dialogs.Channel}}, nil
	case n < 0:
		return Ref{ID: -n, Kinds: []dialogs.PeerKind{dialogs.Chat}}, nil
	default:
		return Ref{ID: n, Kinds: []dialogs.PeerKind{dialogs.Channel, dialogs.Chat}}, nil
	}
}

func usernameOf(s string) (string, error) {
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", err
		}
		s = strings.Trim(u.Path, "/")
	}
	s = strings.TrimPrefix(s, "@")
	if s == "" || strings.ContainsAny(s, "/ ") {
		return "", fmt.Errorf("invalid username: %q", s)
	}
	return s, nil
}

// keys returns the storage keys to look the reference up with.
func (r Ref) keys() []storage.PeerKey {
	kk := make([]storage.PeerKey, 0, len(r.Kinds))
	for _, k := range r.Kinds {
		kk = append(kk, storage.PeerKey{Kind: k, ID: r.ID})
	}
	return kk
}

package mtp

import "github.com/gotd/contrib/storage"

type FilterFunc func(storage.Peer) (conv Conversation, ok bool)

// FilterAll accepts users, chats and channels.
func FilterAll() FilterFunc {
	return conversationOf
}

func FilterChat() FilterFunc {
	return func(peer storage.Peer) (Conversation, bool) {
		if peer.Chat != nil || (peer.Channel != nil && !peer.Channel.Broadcast) {
			return conversationOf(peer)
		}
		return Conversation{}, false
	}
}

func FilterChannel() FilterFunc {
	return func(peer storage.Peer) (Conversation, bool) {
		if peer.Channel != nil && peer.Channel.Broadcast {
			return conversationOf(peer)
		}
		return Conversation{}, false
	}
}

// FilterGroupLike accepts chats, supergroups and channels.
func FilterGroupLike() FilterFunc {
	return func(peer storage.Peer) (Conversation, bool) {
		conv, ok := conversationOf(peer)
		if !ok || !conv.Kind.IsGroupLike() {
			return Conversation{}, false
		}
		return conv, true
	}
}

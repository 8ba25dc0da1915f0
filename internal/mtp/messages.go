package mtp

import (
	"context"
	"errors"
	"fmt"
	"runtime/trace"

	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/tg"
)

var errNoPeer = errors.New("conversation has no input peer")

// SearchMyMessages searches the current user messages in the conversation.
func (c *Client) SearchMyMessages(ctx context.Context, conv Conversation, p SearchParams) (SearchResult, error) {
	return c.SearchMessages(ctx, conv, &tg.InputPeerSelf{}, p)
}

// SearchMessages runs a single messages.search in the conversation for the
// messages sent by `from`.
func (c *Client) SearchMessages(ctx context.Context, conv Conversation, from tg.InputPeerClass, p SearchParams) (SearchResult, error) {
	ctx, task := trace.NewTask(ctx, "SearchMessages")
	defer task.End()

	if conv.Peer == nil {
		return SearchResult{}, fmt.Errorf("%w: %d", errNoPeer, conv.ID)
	}
	trace.Logf(ctx, "api", "offset=%d limit=%d", p.OffsetID, p.Limit)
	resp, err := c.cl.API().MessagesSearch(ctx, p.request(conv.Peer, from))
	if err != nil {
		return SearchResult{}, err
	}
	return searchResultOf(resp)
}

func searchResultOf(resp tg.MessagesMessagesClass) (SearchResult, error) {
	var (
		count int
		msgs  []tg.MessageClass
	)
	switch r := resp.(type) {
	case *tg.MessagesMessages:
		count, msgs = len(r.Messages), r.Messages
	case *tg.MessagesMessagesSlice:
		count, msgs = r.Count, r.Messages
	case *tg.MessagesChannelMessages:
		count, msgs = r.Count, r.Messages
	case *tg.MessagesMessagesNotModified:
		count = r.Count
	default:
		return SearchResult{}, fmt.Errorf("unexpected response type: %T", resp)
	}
	ids := make([]int, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.GetID())
	}
	return SearchResult{Count: count, IDs: ids}, nil
}

// DeleteMessages deletes messages for all participants.  The IDs are sent in
// chunks of at most defBatchSize.  It returns the number of IDs that were
// deleted before an error, if any.
func (c *Client) DeleteMessages(ctx context.Context, conv Conversation, ids []int) (int, error) {
	ctx, task := trace.NewTask(ctx, "DeleteMessages")
	defer task.End()

	if conv.Peer == nil {
		return 0, fmt.Errorf("%w: %d", errNoPeer, conv.ID)
	}
	chunks := splitBy(defBatchSize, ids, func(i int) int { return ids[i] })
	trace.Logf(ctx, "logic", "split chunks: %d", len(chunks))

	total := 0
	for _, chunk := range chunks {
		if _, err := message.NewSender(c.cl.API()).To(conv.Peer).Revoke().Messages(ctx, chunk...); err != nil {
			trace.Logf(ctx, "api", "revoke error: %s", err)
			return total, fmt.Errorf("failed to delete: %w", err)
		}
		total += len(chunk)
	}
	trace.Log(ctx, "logic", "ok")
	return total, nil
}

// splitBy splits the chunk input of M items to X chunks of `n` items.
// For each element of input, the fn is called, that should return
// the value.
func splitBy[T, S any](n int, input []S, fn func(i int) T) [][]T {
	var out [][]T = make([][]T, 0, len(input)/n)
	var chunk []T
	for i := range input {
		if i > 0 && i%n == 0 {
			out = append(out, chunk)
			chunk = make([]T, 0, n)
		}
		chunk = append(chunk, fn(i))
	}
	if len(chunk) > 0 {
		out = append(out, chunk)
	}
	return out
}

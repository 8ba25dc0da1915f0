package mtp

import "github.com/gotd/td/tg"

// SearchParams is the set of messages.search parameters.  It is a value type:
// WithLimit and WithOffsetID return modified copies and leave the receiver
// intact.
type SearchParams struct {
	Limit     int
	Query     string
	MinDate   int
	MaxDate   int
	OffsetID  int
	AddOffset int
	MaxID     int
	MinID     int
	Hash      int64
}

// DefaultSearch returns the default parameters: a single message, no text
// filter, unrestricted dates and IDs.
func DefaultSearch() SearchParams {
	return SearchParams{Limit: 1}
}

func (p SearchParams) WithLimit(n int) SearchParams {
	p.Limit = n
	return p
}

// WithOffsetID sets the upper bound cursor, results are strictly older than
// the message id.
func (p SearchParams) WithOffsetID(id int) SearchParams {
	p.OffsetID = id
	return p
}

func (p SearchParams) request(peer, from tg.InputPeerClass) *tg.MessagesSearchRequest {
	return &tg.MessagesSearchRequest{
		Peer:      peer,
		Q:         p.Query,
		FromID:    from,
		Filter:    &tg.InputMessagesFilterEmpty{},
		MinDate:   p.MinDate,
		MaxDate:   p.MaxDate,
		OffsetID:  p.OffsetID,
		AddOffset: p.AddOffset,
		Limit:     p.Limit,
		MaxID:     p.MaxID,
		MinID:     p.MinID,
		Hash:      p.Hash,
	}
}

// SearchResult is the page of the search.  Count is the total number of
// matching messages reported by the server, IDs are the message IDs on the
// page, newest first.
type SearchResult struct {
	Count int
	IDs   []int
}

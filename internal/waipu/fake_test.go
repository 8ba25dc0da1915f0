package waipu

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"testing"

	"github.com/rusq/tgclean/internal/mtp"
)

func TestMain(m *testing.M) {
	progressOut = io.Discard
	os.Exit(m.Run())
}

var errFake = errors.New("fake error")

// fakeTelegram keeps messages per conversation, newest first.
type fakeTelegram struct {
	dialogs    []mtp.Conversation
	dialogsErr error
	messages   map[int64][]int
	searchErr  map[int64]error
	deleteErr  map[int64]error

	searches []mtp.SearchParams
	deletes  [][]int
}

func (f *fakeTelegram) GetDialogs(context.Context) ([]mtp.Conversation, error) {
	return f.dialogs, f.dialogsErr
}

func (f *fakeTelegram) Resolve(_ context.Context, raw string) (mtp.Conversation, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return mtp.Conversation{}, err
	}
	for _, d := range f.dialogs {
		if d.ID == id && d.Kind.IsGroupLike() {
			return d, nil
		}
	}
	return mtp.Conversation{}, mtp.ErrNotFound
}

func (f *fakeTelegram) SearchMyMessages(_ context.Context, conv mtp.Conversation, p mtp.SearchParams) (mtp.SearchResult, error) {
	f.searches = append(f.searches, p)
	if err := f.searchErr[conv.ID]; err != nil {
		return mtp.SearchResult{}, err
	}
	all := f.messages[conv.ID]
	var older []int
	for _, id := range all {
		if p.OffsetID == 0 || id < p.OffsetID {
			older = append(older, id)
		}
	}
	if len(older) > p.Limit {
		older = older[:p.Limit]
	}
	return mtp.SearchResult{Count: len(all), IDs: older}, nil
}

func (f *fakeTelegram) DeleteMessages(_ context.Context, conv mtp.Conversation, ids []int) (int, error) {
	if err := f.deleteErr[conv.ID]; err != nil {
		return 0, err
	}
	f.deletes = append(f.deletes, append([]int(nil), ids...))
	return len(ids), nil
}

// messageIDs returns n message IDs, newest first.
func messageIDs(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = n - i
	}
	return ids
}

func batchSizes(batches [][]int) []int {
	var sz []int
	for _, b := range batches {
		sz = append(sz, len(b))
	}
	return sz
}

package waipu

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"

	"github.com/rusq/tgclean/internal/mtp"
)

var (
	convUser     = mtp.Conversation{ID: 1, Title: "Mom", Kind: mtp.KindUser}
	convEmpty    = mtp.Conversation{ID: 2, Title: "Quiet channel", Kind: mtp.KindChannel}
	convChannel  = mtp.Conversation{ID: 3, Title: "Busy channel", Kind: mtp.KindChannel}
	convGroup    = mtp.Conversation{ID: 4, Title: "Friends", Kind: mtp.KindGroup}
	convOther    = mtp.Conversation{ID: 5, Title: "Unknown", Kind: mtp.KindOther}
	convNoAccess = mtp.Conversation{ID: 6, Title: "Private", Kind: mtp.KindChannel}
)

// dataRows returns the table lines between the header and the footer.
func dataRows(t *testing.T, out string) []string {
	t.Helper()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 5 {
		t.Fatalf("table too short:\n%s", out)
	}
	assert.Equal(t, "Chats/Groups:", lines[0])
	assert.Equal(t, tblSeparator, lines[1])
	assert.Equal(t, tblHeader, lines[2])
	assert.Equal(t, tblSeparator, lines[3])
	assert.Equal(t, tblSeparator, lines[len(lines)-1])
	return lines[4 : len(lines)-1]
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name        string
		tg          *fakeTelegram
		wantRows    []string
		wantResults int
		wantErrs    int
	}{
		{
			name: "only channel with messages is shown",
			tg: &fakeTelegram{
				dialogs:  []mtp.Conversation{convUser, convEmpty, convChannel},
				messages: map[int64][]int{1: messageIDs(10), 3: messageIDs(5)},
			},
			wantRows:    []string{row(convChannel, 5)},
			wantResults: 2,
		},
		{
			name: "no groups or channels",
			tg: &fakeTelegram{
				dialogs:  []mtp.Conversation{convUser, convOther},
				messages: map[int64][]int{1: messageIDs(10)},
			},
			wantRows:    []string{},
			wantResults: 0,
		},
		{
			name: "rows keep the dialog order",
			tg: &fakeTelegram{
				dialogs:  []mtp.Conversation{convGroup, convEmpty, convChannel},
				messages: map[int64][]int{3: messageIDs(7), 4: messageIDs(2)},
			},
			wantRows:    []string{row(convGroup, 2), row(convChannel, 7)},
			wantResults: 3,
		},
		{
			name: "error in one conversation does not stop the summary",
			tg: &fakeTelegram{
				dialogs:   []mtp.Conversation{convNoAccess, convChannel},
				messages:  map[int64][]int{3: messageIDs(1), 6: messageIDs(3)},
				searchErr: map[int64]error{6: errFake},
			},
			wantRows:    []string{row(convChannel, 1)},
			wantResults: 2,
			wantErrs:    1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			results, err := Summary(context.Background(), &buf, tt.tg)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantRows, dataRows(t, buf.String()))
			assert.Len(t, results, tt.wantResults)

			errs := 0
			for _, r := range results {
				assert.True(t, r.Conversation.Kind.IsGroupLike())
				if r.Err != nil {
					errs++
				}
			}
			assert.Equal(t, tt.wantErrs, errs)
			for _, p := range tt.tg.searches {
				assert.Equal(t, mtp.DefaultSearch(), p, "count query fetches a single message")
			}
		})
	}
}

func TestSummaryDialogsError(t *testing.T) {
	var buf bytes.Buffer
	_, err := Summary(context.Background(), &buf, &fakeTelegram{dialogsErr: errFake})
	assert.ErrorIs(t, err, errFake)
	assert.Empty(t, buf.String())
}

func TestSummaryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tg := &fakeTelegram{dialogs: []mtp.Conversation{convChannel}}
	_, err := Summary(ctx, &bytes.Buffer{}, tg)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, tg.searches)
}

func Test_row(t *testing.T) {
	tests := []struct {
		name  string
		conv  mtp.Conversation
		count int
		want  string
	}{
		{
			name:  "short title",
			conv:  mtp.Conversation{ID: 1234567890, Title: "Gophers"},
			count: 42,
			want:  "| 1234567890     | Gophers              | 42                 |",
		},
		{
			name:  "long title is cut",
			conv:  mtp.Conversation{ID: 1, Title: "Everything you need to know about everything"},
			count: 1,
			want:  "| 1              | Everything you need… | 1                  |",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := row(tt.conv, tt.count)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tblSeparator), runewidth.StringWidth(got))
		})
	}
	t.Run("wide characters keep the width", func(t *testing.T) {
		got := row(mtp.Conversation{ID: 7, Title: "🔞 18+ LINQ выражения в C#"}, 3)
		assert.Equal(t, len(tblSeparator), runewidth.StringWidth(got))
	})
}

package waipu

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rusq/dlog"

	"github.com/rusq/tgclean/internal/mtp"
)

const (
	colID    = 14
	colTitle = 20
	colCount = 19
)

var (
	tblSeparator = strings.Repeat("-", 62)
	tblHeader    = fmt.Sprintf("| %-*s | %-*s | %-*s|", colID, "Chat ID", colTitle, "Title", colCount, "My Messages Count")
)

// Summary prints the table of groups and channels with the number of the
// current user messages in each.  Rows are printed as soon as the count is
// known, conversations without own messages are omitted.  An error counting
// messages in one conversation is logged and collected in the results, it
// does not stop the summary.
func Summary(ctx context.Context, w io.Writer, cl Telegramer) ([]Result, error) {
	stop := spinner("Getting chats . . .")
	convs, err := cl.GetDialogs(ctx)
	stop()
	if err != nil {
		return nil, fmt.Errorf("failed to get dialogs: %w", err)
	}
	dlog.Debugf("got %d dialogs", len(convs))

	fmt.Fprintln(w, "Chats/Groups:")
	fmt.Fprintln(w, tblSeparator)
	fmt.Fprintln(w, tblHeader)
	fmt.Fprintln(w, tblSeparator)

	var results []Result
	for _, conv := range convs {
		if !conv.Kind.IsGroupLike() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}
		ref := strconv.FormatInt(conv.ID, 10)
		res, err := cl.SearchMyMessages(ctx, conv, mtp.DefaultSearch())
		if err != nil {
			dlog.Printf("Error fetching your message count for %d: %s", conv.ID, err)
			results = append(results, Result{Ref: ref, Conversation: conv, Err: err})
			continue
		}
		results = append(results, Result{Ref: ref, Conversation: conv, N: res.Count})
		if res.Count > 0 {
			fmt.Fprintln(w, row(conv, res.Count))
		}
	}
	fmt.Fprintln(w, tblSeparator)
	return results, nil
}

func row(conv mtp.Conversation, count int) string {
	return fmt.Sprintf("| %-*d | %s | %-*d|",
		colID, conv.ID,
		runewidth.FillRight(runewidth.Truncate(conv.Title, colTitle, "…"), colTitle),
		colCount, count,
	)
}

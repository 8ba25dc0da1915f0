package waipu

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rusq/dlog"
	"github.com/schollz/progressbar/v3"

	"github.com/rusq/tgclean/internal/mtp"
)

// pageSize is the number of messages requested per search and deleted per
// batch.
const pageSize = 100

var warn = color.New(color.FgHiRed)

// Wipe deletes the current user messages, for all participants, in each of
// the conversations referenced by refs, in order.  A conversation that can't
// be resolved is skipped.  A search or delete error stops the processing and
// is returned along with the results collected so far.
func Wipe(ctx context.Context, w io.Writer, cl Telegramer, refs []string) ([]Result, error) {
	var results []Result
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		fmt.Fprintf(w, "\nDeleting messages in chat ID: %s\n", ref)

		conv, err := cl.Resolve(ctx, ref)
		if err != nil {
			warn.Fprintf(w, " - Skipping: Could not fetch entity for ID: %s\n", ref)
			dlog.Debugf("resolve %s: %s", ref, err)
			results = append(results, Result{Ref: ref, Err: err})
			continue
		}

		n, err := wipe(ctx, cl, conv)
		results = append(results, Result{Ref: ref, Conversation: conv, N: n, Err: err})
		if err != nil {
			return results, fmt.Errorf("chat %s: deleted %d messages before error: %w", ref, n, err)
		}
		fmt.Fprintf(w, " - Finished deleting. Total deleted in %s: %d\n", ref, n)
	}
	fmt.Fprintln(w, "\nAll requested deletions complete.")
	return results, nil
}

// wipe pages through the user messages newest first.  The last ID of a page
// is the offset of the next one.  It stops on an empty page, or on a page
// shorter than pageSize.  If the last page is exactly pageSize long, one
// more search is issued, which returns an empty page.
func wipe(ctx context.Context, cl Telegramer, conv mtp.Conversation) (int, error) {
	params := mtp.DefaultSearch().WithLimit(pageSize)

	var (
		offset int
		total  int
		pb     *progressbar.ProgressBar
	)
	defer func() {
		if pb != nil {
			pb.Finish()
		}
	}()
	for {
		page, err := cl.SearchMyMessages(ctx, conv, params.WithOffsetID(offset))
		if err != nil {
			return total, fmt.Errorf("search: %w", err)
		}
		if len(page.IDs) == 0 {
			break
		}
		if pb == nil {
			pb = newBar(page.Count, conv.Title)
		}

		n, err := cl.DeleteMessages(ctx, conv, page.IDs)
		total += n
		_ = pb.Add(n)
		if err != nil {
			return total, err
		}
		dlog.Debugf("%d: deleted %d messages, offset %d", conv.ID, n, offset)

		offset = page.IDs[len(page.IDs)-1]
		if len(page.IDs) < pageSize {
			break
		}
	}
	return total, nil
}

// Package waipu implements the message counter and message wiper.
package waipu

import (
	"context"
	"io"
	"os"

	"github.com/rusq/tgclean/internal/mtp"
)

// Telegramer is the subset of the telegram client used by the commands.
type Telegramer interface {
	GetDialogs(ctx context.Context) ([]mtp.Conversation, error)
	Resolve(ctx context.Context, raw string) (mtp.Conversation, error)
	SearchMyMessages(ctx context.Context, conv mtp.Conversation, p mtp.SearchParams) (mtp.SearchResult, error)
	DeleteMessages(ctx context.Context, conv mtp.Conversation, ids []int) (int, error)
}

// Result is the outcome for a single conversation.  N is the message count
// for Summary, and the number of deleted messages for Wipe.
type Result struct {
	Ref          string
	Conversation mtp.Conversation
	N            int
	Err          error
}

// progressOut is where spinners and progress bars are rendered.
var progressOut io.Writer = os.Stderr

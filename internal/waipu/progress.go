package waipu

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
)

// spinner starts a spinner and returns the function that stops it and waits
// until it is cleared.
func spinner(title string) (stop func()) {
	const interval = 50 * time.Millisecond

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		bar := progressbar.NewOptions(
			-1,
			progressbar.OptionSetWriter(progressOut),
			progressbar.OptionSetDescription(title),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSpinnerType(9),
			progressbar.OptionClearOnFinish(),
		)
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-done:
				bar.Finish()
				return
			case <-t.C:
				bar.Add(1)
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}

func newBar(total int, title string) *progressbar.ProgressBar {
	if total <= 0 {
		total = -1
	}
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(progressOut),
		progressbar.OptionSetDescription(fmt.Sprintf("deleting in %q", title)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(progressOut) }),
	)
}

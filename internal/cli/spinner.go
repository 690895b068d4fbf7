package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/termdiag/pkg/textwidth"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line on statusOut around one blocking call,
// such as a remote cache connect or a Graphviz run. The animation ends
// when stop is called or ctx is done, whichever comes first.
type spinner struct {
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
}

func startSpinner(ctx context.Context, message string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &spinner{message: message, ctx: ctx, cancel: cancel, stopped: make(chan struct{})}
	go s.run()
	return s
}

// run is the only writer to statusOut until stopped is closed.
func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(statusOut, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
		}
	}
}

// stop ends the animation and blanks the status line. Later calls do
// nothing.
func (s *spinner) stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
		fmt.Fprintf(statusOut, "\r%s\r", strings.Repeat(" ", textwidth.String(s.message)+2))
	})
}

func (s *spinner) succeed(message string) {
	s.stop()
	printSuccess("%s", message)
}

func (s *spinner) fail(message string) {
	s.stop()
	printError("%s", message)
}

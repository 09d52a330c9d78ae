package progress

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pf-cli/pf/api"
	"github.com/pf-cli/pf/finder"
	"github.com/pf-cli/pf/log"
)

// Reporter runs the spinner in its own goroutine and feeds it crawl events.
type Reporter struct {
	program *tea.Program
	done    chan struct{}
}

// Start begins drawing to w. The caller must call Stop.
func Start(site string, w io.Writer) *Reporter {
	r := &Reporter{
		program: tea.NewProgram(
			New(site),
			tea.WithOutput(w),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}

	go func() {
		defer close(r.done)
		if _, err := r.program.Run(); err != nil {
			log.Warnf("progress display: %s", err)
		}
	}()

	return r
}

// Observer forwards finder events to the display. tea.Program.Send is safe
// for concurrent use, so the callbacks may run on any worker.
func (r *Reporter) Observer() finder.Observer {
	return finder.Observer{
		OnPage: func(page api.Page) {
			r.program.Send(pageMsg{url: page.URL})
		},
		OnItem: func(_ api.Item, res finder.Resolution) {
			r.program.Send(itemMsg{strategy: res.Strategy})
		},
		OnConfirmed: func(url string) {
			r.program.Send(foundMsg{url: url})
		},
	}
}

// Stop clears the line and waits for the program to exit.
func (r *Reporter) Stop() {
	r.program.Send(doneMsg{})
	<-r.done
}

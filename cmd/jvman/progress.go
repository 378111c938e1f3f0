package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"github.com/ZebulonRouseFrantzich/jvman/internal/events"
)

const progressThrottle = 100 * time.Millisecond

// progress renders worker events on a terminal. It runs on the bus
// dispatcher goroutine.
type progress struct {
	out io.Writer

	mu      sync.Mutex
	name    string
	written int64
	bar     *progressbar.ProgressBar
}

func newProgress(out io.Writer) *progress {
	return &progress{out: out}
}

// Handle implements events.Handler.
func (p *progress) Handle(ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Type {
	case events.FilenameFound:
		p.name = ev.Name
		p.written = 0
	case events.FilesizeFound:
		p.bar = progressbar.NewOptions64(ev.Bytes,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetDescription(p.name),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(progressThrottle),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	case events.BytesChanged:
		p.written = ev.Bytes
		if p.bar != nil {
			_ = p.bar.Set64(ev.Bytes)
		}
	case events.EndDownload:
		if p.bar != nil {
			if ev.Succeeded {
				_ = p.bar.Finish()
			} else {
				_ = p.bar.Exit()
			}
			fmt.Fprintln(p.out)
			p.bar = nil
		}
		if ev.Succeeded {
			fmt.Fprintf(p.out, "Downloaded %s (%s)\n", ev.Path, humanize.Bytes(uint64(p.written)))
		}
	case events.BeginExtract:
		fmt.Fprintf(p.out, "Extracting into %s...\n", ev.Path)
	case events.EndExtract:
		if ev.Succeeded {
			fmt.Fprintln(p.out, "Extraction complete")
		}
	}
}

package progress

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback while files are uploaded.
type Reporter interface {
	// Reader wraps r so that reading it advances the progress display.
	Reader(name string, size int64, r io.Reader) io.Reader
	// Finish ends the display for name.
	Finish(name string, err error)
}

// NewReporter returns a CIReporter when the CI environment variable is set
// and a TerminalReporter otherwise. Output goes to w.
func NewReporter(w io.Writer) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: w}
	}
	return &TerminalReporter{w: w}
}

// TerminalReporter displays a byte progress bar in the terminal.
type TerminalReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Reader(name string, size int64, src io.Reader) io.Reader {
	r.bar = progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Uploading "+name),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)
	reader := progressbar.NewReader(src, r.bar)
	return &reader
}

func (r *TerminalReporter) Finish(name string, err error) {
	if r.bar == nil {
		return
	}
	if err == nil {
		_ = r.bar.Finish()
	} else {
		_ = r.bar.Exit()
	}
	r.bar = nil
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	w    io.Writer
	read atomic.Int64
	size int64
}

func (r *CIReporter) Reader(name string, size int64, src io.Reader) io.Reader {
	r.size = size
	r.read.Store(0)
	fmt.Fprintf(r.w, "Uploading %s (%d bytes)\n", name, size)
	return &countingReader{r: src, n: &r.read}
}

func (r *CIReporter) Finish(name string, err error) {
	if err != nil {
		fmt.Fprintf(r.w, "Upload of %s failed after %d bytes: %v\n", name, r.read.Load(), err)
		return
	}
	fmt.Fprintf(r.w, "Uploaded %s (%d/%d bytes)\n", name, r.read.Load(), r.size)
}

type countingReader struct {
	r io.Reader
	n *atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

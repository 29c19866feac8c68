// Package watcher runs the clipboard observation loop: wait for a wake-up,
// read the clipboard, detect whether it changed, and publish the result to
// the shared mailbox that every consumer reads.
package watcher

import (
	"log/slog"
	"time"

	"github.com/undefined-moe/ClipboardQRReader/internal/detector"
	"github.com/undefined-moe/ClipboardQRReader/internal/snapshot"
	"github.com/undefined-moe/ClipboardQRReader/internal/state"
	"github.com/undefined-moe/ClipboardQRReader/internal/wakeup"
)

// ClipboardReader is the raw clipboard collaborator. It is only ever called
// from the watcher goroutine.
type ClipboardReader interface {
	Read() (snapshot.Snapshot, error)
}

// Decoder is the external QR decode collaborator. found distinguishes "no
// code in this image" (a normal outcome) from a decode failure.
type Decoder interface {
	Decode(s snapshot.Snapshot) (text string, found bool, err error)
}

// Recorder receives every published snapshot, e.g. for history persistence.
type Recorder interface {
	Record(s snapshot.Snapshot, st snapshot.DecodeStatus) error
}

// Options configures a Watcher. Source, Clipboard and Mailbox are required;
// Decoder and Recorder may be nil.
type Options struct {
	Source       wakeup.Source
	Clipboard    ClipboardReader
	Mailbox      *state.Mailbox
	Decoder      Decoder
	Recorder     Recorder
	PollInterval time.Duration // fallback poll cadence, DefaultPollInterval if zero
}

// Watcher owns the background observation goroutine. Construct with New,
// then Start once; Stop shuts the event source down and joins the loop.
type Watcher struct {
	source       wakeup.Source
	clip         ClipboardReader
	mailbox      *state.Mailbox
	decoder      Decoder
	recorder     Recorder
	det          *detector.Detector
	pollInterval time.Duration

	quit chan struct{}
	done chan struct{}
}

func New(opts Options) *Watcher {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = wakeup.DefaultPollInterval
	}
	return &Watcher{
		source:       opts.Source,
		clip:         opts.Clipboard,
		mailbox:      opts.Mailbox,
		decoder:      opts.Decoder,
		recorder:     opts.Recorder,
		det:          detector.New(),
		pollInterval: interval,
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start launches the observation loop on its own goroutine.
func (w *Watcher) Start() {
	slog.Info("clipboard watcher starting", "source", w.source.Name())
	go w.run()
}

// Stop shuts down the event source and waits for the loop to exit. Safe to
// call once; returns only after the goroutine and the source are fully done.
func (w *Watcher) Stop() {
	close(w.quit)
	<-w.done
}

func (w *Watcher) run() {
	defer close(w.done)

	src := w.source
	defer func() { src.Close() }()

	for {
		select {
		case <-w.quit:
			return
		case <-src.Wake():
			w.check()
		case err := <-src.Err():
			// The backend died during setup or mid-stream. Degrade to
			// polling for the rest of the process; never crash.
			slog.Warn("event source failed, falling back to polling",
				"source", src.Name(), "err", err)
			src.Close()
			src = wakeup.NewPoll(w.pollInterval)
		}
	}
}

// check performs one observation: read, dedupe, transform, publish. Read
// errors are transient (another process may hold the clipboard lock) and are
// retried on the next wake-up. The mailbox lock is never held across the
// read or the decode.
func (w *Watcher) check() {
	snap, err := w.clip.Read()
	if err != nil {
		slog.Debug("clipboard read failed", "err", err)
		return
	}
	if !w.det.Evaluate(snap) {
		return
	}

	pub, st := w.transform(snap)
	w.mailbox.Publish(pub, st)
	slog.Info("clipboard change published",
		"content", pub.String(), "decode", st.Outcome.String())

	if w.recorder != nil {
		if err := w.recorder.Record(pub, st); err != nil {
			slog.Error("recording published snapshot failed", "err", err)
		}
	}
}

// transform attempts QR decoding of image snapshots before publication. A
// successful decode replaces the published value with the decoded text, which
// is the user-facing clipboard content at that point. Anything else publishes
// the raw image unchanged, with the outcome attached for display.
func (w *Watcher) transform(snap snapshot.Snapshot) (snapshot.Snapshot, snapshot.DecodeStatus) {
	if snap.Kind() != snapshot.KindImage || w.decoder == nil {
		return snap, snapshot.NotAttempted()
	}
	text, found, err := w.decoder.Decode(snap)
	switch {
	case err != nil:
		return snap, snapshot.Error(err)
	case !found:
		return snap, snapshot.NotFound()
	default:
		return snapshot.Text(text), snapshot.Found()
	}
}

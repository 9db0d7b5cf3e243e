/*
 * playback.go, part of partview.
 *
 * Copyright 2026 The partview authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/rmera/partview"
	"github.com/rmera/partview/colormap"
	"github.com/rmera/partview/framestore"
	"github.com/rmera/partview/traj/part"
)

// DefaultInterval is the time between ticks if none is given.
const DefaultInterval = 50 * time.Millisecond

var (
	ErrState  = errors.New("playback: operation not allowed in the current state")
	ErrRender = errors.New("playback: renderer failed")
)

// State of a Player.
type State int

const (
	Idle    State = iota //no file list yet
	Ready                //file list loaded, not ticking
	Playing              //ticking
	Stopped              //done for good
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

//Result is what happened in one tick. Exactly one of these holds:
//Empty is true (nothing to play), Err is not nil (the frame was skipped), or
//the frame at Index was presented.
type Result struct {
	Index int //-1 if no file was involved
	Path  string
	Step  uint64
	Count int
	Err   error
	Empty bool
}

// OK is true if a frame was presented.
func (r Result) OK() bool { return !r.Empty && r.Err == nil }

// Stats are running counters for a Player.
type Stats struct {
	Ticks     uint64
	Presented uint64
	Skipped   uint64
	Loops     uint64 //times the index wrapped back to 0
}

// Player plays the frames of one trajectory directory, in a loop, one frame
// per tick. Several Players can run at the same time, they share nothing.
// The renderer is only ever called from the goroutine running the ticks.
type Player struct {
	id       string
	renderer partview.Renderer
	mapper   *colormap.Mapper
	decoder  part.Decoder
	discover []framestore.Option
	interval time.Duration
	watch    bool
	maxTicks uint64
	onResult func(Result)
	log      *slog.Logger

	autoRange bool //the global range was computed from the files

	tickMu sync.Mutex //held while a tick runs, so the renderer has one caller

	mu    sync.Mutex //guards the fields below
	state State
	dir   string
	files []string
	index int
	stats Stats

	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Player.
type Option func(*Player)

// WithInterval sets the time between ticks. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(P *Player) {
		if d > 0 {
			P.interval = d
		}
	}
}

//WithMapper sets the colour mapper. The Player works on its own copy, so one
//Mapper can configure several Players. If it is set to Global normalization
//without a range, the range is computed from all the frames at Load.
func WithMapper(m *colormap.Mapper) Option {
	return func(P *Player) {
		if m != nil {
			P.mapper = m.Clone()
		}
	}
}

// WithDecoder sets the frame decoder.
func WithDecoder(d part.Decoder) Option {
	return func(P *Player) { P.decoder = d }
}

// WithDiscovery passes options to framestore.Discover.
func WithDiscovery(opts ...framestore.Option) Option {
	return func(P *Player) { P.discover = append(P.discover, opts...) }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(P *Player) {
		if l != nil {
			P.log = l
		}
	}
}

//WithWatch makes the Player watch the directory while playing, and read the
//file list again whenever files are created, removed or renamed in it. Without it
//the list is read once, at Load.
func WithWatch(w bool) Option {
	return func(P *Player) { P.watch = w }
}

// WithMaxTicks stops playback after n ticks. 0 means never.
func WithMaxTicks(n uint64) Option {
	return func(P *Player) { P.maxTicks = n }
}

//OnResult sets a function called after every tick with its result, from
//the ticking goroutine. It must not call Stop.
func OnResult(f func(Result)) Option {
	return func(P *Player) { P.onResult = f }
}

// New returns an Idle Player presenting frames on r.
func New(r partview.Renderer, opts ...Option) *Player {
	P := &Player{
		id:       uuid.NewString(),
		renderer: r,
		interval: DefaultInterval,
		log:      slog.Default(),
	}
	for _, o := range opts {
		o(P)
	}
	if P.mapper == nil {
		//the default palette always exists.
		P.mapper, _ = colormap.New("")
	}
	P.log = P.log.With("session", P.id)
	P.mapper.SetLogger(P.log)
	return P
}

// ID returns the session id of the Player, as used in its log lines.
func (P *Player) ID() string { return P.id }

// Interval returns the time between ticks.
func (P *Player) Interval() time.Duration { return P.interval }

// State returns the current state.
func (P *Player) State() State {
	P.mu.Lock()
	defer P.mu.Unlock()
	return P.state
}

// Index returns the index of the file the next tick will play.
func (P *Player) Index() int {
	P.mu.Lock()
	defer P.mu.Unlock()
	return P.index
}

// Files returns a copy of the current file list.
func (P *Player) Files() []string {
	P.mu.Lock()
	defer P.mu.Unlock()
	return append([]string(nil), P.files...)
}

// Stats returns a snapshot of the counters.
func (P *Player) Stats() Stats {
	P.mu.Lock()
	defer P.mu.Unlock()
	return P.stats
}

//Load builds the file list from dir and moves the Player from Idle to Ready.
//If dir can't be used the error (wrapping framestore.ErrDirectoryNotFound) is
//returned and the Player stays Idle. An empty list is not an error: the player
//will just have nothing to show.
func (P *Player) Load(dir string) error {
	P.mu.Lock()
	if P.state != Idle {
		s := P.state
		P.mu.Unlock()
		return fmt.Errorf("%w: Load called while %s", ErrState, s)
	}
	P.mu.Unlock()

	files, err := framestore.Discover(dir, P.discover...)
	if err != nil {
		P.log.Error("can't load trajectory", "dir", dir, "error", err)
		return err
	}
	if P.mapper.Normalization() == colormap.Global {
		if _, _, ok := P.mapper.Range(); !ok || P.autoRange {
			P.globalRange(files)
		}
	}

	P.mu.Lock()
	P.dir = dir
	P.files = files
	P.index = 0
	P.state = Ready
	P.mu.Unlock()

	if len(files) == 0 {
		P.log.Warn("no frame files found, nothing to play", "dir", dir)
	} else {
		P.log.Info("trajectory loaded", "dir", dir, "frames", len(files))
	}
	return nil
}

func (P *Player) globalRange(files []string) {
	lo, hi, ok := colormap.GlobalRange(files, P.decoder)
	if !ok {
		return
	}
	P.mapper.SetRange(lo, hi)
	P.autoRange = true
	P.log.Info("global color range", "min", lo, "max", hi)
}

//Start moves a Ready Player to Playing and starts ticking in a new goroutine.
//Playback goes on until Stop is called, ctx is cancelled, or the tick limit, if
//any, is reached.
func (P *Player) Start(ctx context.Context) error {
	P.mu.Lock()
	defer P.mu.Unlock()
	if P.state != Ready {
		return fmt.Errorf("%w: Start called while %s", ErrState, P.state)
	}
	var w *fsnotify.Watcher
	if P.watch {
		var err error
		w, err = watch(P.dir)
		if err != nil {
			P.log.Warn("can't watch directory, the file list will not be updated", "dir", P.dir, "error", err)
			w = nil
		}
	}
	ctx, P.cancel = context.WithCancel(ctx)
	P.done = make(chan struct{})
	P.state = Playing
	P.log.Info("playback started", "interval", P.interval, "frames", len(P.files))
	go P.loop(ctx, w)
	return nil
}

//Stop ends playback and releases the timer. The file list and the index
//are left as they were. Stop can be called any number of times, from any state;
//it returns once the ticking goroutine, if any, is gone.
func (P *Player) Stop() {
	P.mu.Lock()
	cancel, done := P.cancel, P.done
	prev := P.state
	P.state = Stopped
	P.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
	if prev != Stopped {
		P.log.Info("playback stopped", "from", prev.String())
	}
}

//Done returns a channel closed when the ticking goroutine ends. It is nil if
//Start was never called.
func (P *Player) Done() <-chan struct{} {
	P.mu.Lock()
	defer P.mu.Unlock()
	return P.done
}

//Tick runs a single tick by hand, and returns its result. It is meant for
//Players that are Ready but not Playing (while Playing the ticks belong to
//the Player's own goroutine, and Tick returns an ErrState result).
func (P *Player) Tick() Result {
	P.tickMu.Lock()
	defer P.tickMu.Unlock()
	if s := P.State(); s != Ready {
		return Result{Index: -1, Err: fmt.Errorf("%w: Tick called while %s", ErrState, s)}
	}
	return P.tick()
}

func (P *Player) loop(ctx context.Context, w *fsnotify.Watcher) {
	defer close(P.done)
	defer func() {
		P.mu.Lock()
		P.state = Stopped
		P.mu.Unlock()
	}()
	t := time.NewTicker(P.interval)
	defer t.Stop()
	var events <-chan fsnotify.Event
	var werrs <-chan error
	if w != nil {
		defer w.Close()
		events, werrs = w.Events, w.Errors
	}
	var ticks uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			P.tickMu.Lock()
			P.tick()
			P.tickMu.Unlock()
			ticks++
			if P.maxTicks > 0 && ticks >= P.maxTicks {
				P.log.Info("tick limit reached", "ticks", ticks)
				return
			}
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				P.tickMu.Lock()
				P.rescan()
				P.tickMu.Unlock()
			}
		case err, ok := <-werrs:
			if !ok {
				werrs = nil
				continue
			}
			P.log.Warn("directory watch error", "error", err)
		}
	}
}

//tick decodes, colours and presents the frame at the current index. Callers hold
//tickMu, as rescan does, so the file list and index can't change between the two
//locked sections.
func (P *Player) tick() Result {
	P.mu.Lock()
	if len(P.files) == 0 {
		P.stats.Ticks++
		P.mu.Unlock()
		r := Result{Index: -1, Empty: true}
		P.report(r)
		return r
	}
	i := P.index
	path := P.files[i]
	P.mu.Unlock()

	r := P.present(i, path)

	P.mu.Lock()
	P.stats.Ticks++
	if r.Err != nil {
		P.stats.Skipped++
	} else {
		P.stats.Presented++
	}
	P.index = (i + 1) % len(P.files)
	if P.index == 0 {
		P.stats.Loops++
	}
	P.mu.Unlock()
	P.report(r)
	return r
}

func (P *Player) present(i int, path string) Result {
	r := Result{Index: i, Path: path}
	F, err := P.decoder.ReadFile(path)
	if err != nil {
		P.log.Warn("skipping frame", "index", i, "file", path, "error", err)
		r.Err = err
		return r
	}
	r.Step, r.Count = F.Step(), F.Len()
	colors := P.mapper.Colors(F.Types())
	if err := P.renderer.SetPoints(F.Positions(), colors); err != nil {
		P.log.Warn("renderer rejected frame", "index", i, "file", path, "error", err)
		r.Err = fmt.Errorf("%w: %v", ErrRender, err)
		return r
	}
	P.log.Debug("frame presented", "index", i, "step", r.Step, "particles", r.Count)
	return r
}

func (P *Player) report(r Result) {
	if P.onResult != nil {
		P.onResult(r)
	}
}

//rescan reads the file list again. The index is kept if it still points
//inside the list, otherwise playback goes back to the first frame.
func (P *Player) rescan() {
	P.mu.Lock()
	dir := P.dir
	P.mu.Unlock()
	files, err := framestore.Discover(dir, P.discover...)
	if err != nil {
		P.log.Warn("can't rescan directory, keeping the old file list", "dir", dir, "error", err)
		return
	}
	if P.autoRange {
		P.globalRange(files)
	}
	P.mu.Lock()
	old := len(P.files)
	P.files = files
	if P.index >= len(files) {
		P.index = 0
	}
	P.mu.Unlock()
	if old != len(files) {
		P.log.Info("file list changed", "dir", dir, "frames", len(files), "before", old)
	}
}

func watch(dir string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

package prefabs

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a file must stay quiet before its change is reported.
// Editors often write a file in several steps.
const settle = 100 * time.Millisecond

type ChangeKind int

const (
	ChangeTuning ChangeKind = iota
	ChangeScript
	ChangeLevel
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeTuning:
		return "tuning"
	case ChangeScript:
		return "script"
	case ChangeLevel:
		return "level"
	default:
		return "unknown"
	}
}

// Change is one settled edit. Name is the base file name ("player.yaml").
type Change struct {
	Kind ChangeKind
	Name string
	Path string
}

// Watcher reports tuning, script and level files edited on disk. Changes is
// closed once the watcher stops.
type Watcher struct {
	fs      *fsnotify.Watcher
	Changes chan Change
	Errors  chan error
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches each directory (non-recursively). A yaml file inside a
// directory named "levels" is reported as a level change.
func NewWatcher(dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:      fsw,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Changes)
	defer close(w.Errors)

	pending := make(map[string]Change)
	timer := time.NewTimer(settle)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			c, ok := classify(ev.Name)
			if !ok {
				continue
			}
			pending[ev.Name] = c
			timer.Reset(settle)
		case <-timer.C:
			if !w.flush(pending) {
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}

// flush sends pending changes in path order. It returns false if the watcher
// was closed mid-send.
func (w *Watcher) flush(pending map[string]Change) bool {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		select {
		case w.Changes <- pending[p]:
		case <-w.done:
			return false
		}
		delete(pending, p)
	}
	return true
}

func classify(p string) (Change, bool) {
	c := Change{Name: filepath.Base(p), Path: p}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".tengo":
		c.Kind = ChangeScript
	case ".yaml", ".yml":
		c.Kind = ChangeTuning
		if filepath.Base(filepath.Dir(p)) == "levels" {
			c.Kind = ChangeLevel
		}
	default:
		return Change{}, false
	}
	return c, true
}

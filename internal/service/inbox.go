package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"summaryedit/internal/domain"
)

const inboxDebounce = 500 * time.Millisecond

// ErrEmptySummary is returned for a payload whose sections hold no blocks.
var ErrEmptySummary = errors.New("summary has no content")

// ─────────────────────────────────────────────────────────────
// Inbox — opens summary payloads dropped into a directory
// ─────────────────────────────────────────────────────────────

// Inbox watches a directory for *.json summary payloads and opens each
// one as a new session once writes to it settle.
type Inbox struct {
	dir      string
	sessions *SessionService
	emitter  EventEmitter
	log      zerolog.Logger

	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	watchCancel context.CancelFunc
	timers      map[string]*time.Timer
	done        chan struct{}
}

// InboxOpened is the payload of the inbox:opened event.
type InboxOpened struct {
	Path      string `json:"path"`
	SessionID string `json:"sessionId"`
}

func NewInbox(dir string, sessions *SessionService, emitter EventEmitter, log zerolog.Logger) *Inbox {
	return &Inbox{dir: dir, sessions: sessions, emitter: emitter, log: log}
}

// Start begins watching. Files already present are left alone.
func (in *Inbox) Start(ctx context.Context) error {
	in.Stop()

	if err := os.MkdirAll(in.dir, 0755); err != nil {
		return fmt.Errorf("create inbox directory: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(in.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", in.dir, err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	in.mu.Lock()
	in.watcher = watcher
	in.watchCancel = cancel
	in.timers = make(map[string]*time.Timer)
	in.done = make(chan struct{})
	done := in.done
	in.mu.Unlock()

	go in.loop(watchCtx, watcher, done)
	in.log.Info().Str("dir", in.dir).Msg("inbox watching")
	return nil
}

func (in *Inbox) loop(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
				continue
			}
			in.schedule(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			in.log.Warn().Err(err).Msg("inbox watcher error")
		}
	}
}

// schedule (re)arms the debounce timer for path.
func (in *Inbox) schedule(ctx context.Context, path string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.timers == nil {
		return
	}
	if t, ok := in.timers[path]; ok {
		t.Stop()
	}
	in.timers[path] = time.AfterFunc(inboxDebounce, func() {
		in.mu.Lock()
		delete(in.timers, path)
		in.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		if _, err := in.OpenFile(ctx, path); err != nil {
			in.log.Warn().Err(err).Str("path", path).Msg("inbox payload rejected")
		}
	})
}

// OpenFile reads one payload file and opens it as a session. Summaries
// without any block are rejected with ErrEmptySummary.
func (in *Inbox) OpenFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read payload: %w", err)
	}
	doc, err := domain.ParsePayload(data)
	if err != nil {
		return "", err
	}
	if doc.IsEmpty() {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptySummary)
	}
	id, err := in.sessions.Open(ctx, doc)
	if err != nil {
		return "", err
	}
	in.log.Info().Str("path", path).Str("session", id).Msg("inbox payload opened")
	in.emitter.Emit(ctx, EventInboxOpened, InboxOpened{Path: path, SessionID: id})
	return id, nil
}

// Stop tears down the watcher and pending timers.
func (in *Inbox) Stop() {
	in.mu.Lock()
	cancel, watcher, done := in.watchCancel, in.watcher, in.done
	for _, t := range in.timers {
		t.Stop()
	}
	in.timers = nil
	in.watchCancel, in.watcher, in.done = nil, nil, nil
	in.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if watcher != nil {
		watcher.Close()
	}
	if done != nil {
		<-done
	}
}

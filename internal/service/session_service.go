package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"summaryedit/internal/domain"
	"summaryedit/internal/editor"
	"summaryedit/internal/storage"
)

// ErrSessionNotFound is returned for an id that is neither open nor stored.
var ErrSessionNotFound = errors.New("session not found")

// ─────────────────────────────────────────────────────────────
// Session Service — registry of open editor sessions
// ─────────────────────────────────────────────────────────────

// SessionService owns every open editor session, serializes access to each
// one, tracks unsaved changes and persists history snapshots.
type SessionService struct {
	store   *storage.SessionStore
	emitter EventEmitter
	log     zerolog.Logger
	opts    editor.Options

	mu       sync.RWMutex
	sessions map[string]*openSession

	saving    saveGuard
	cronSched *cron.Cron
}

type openSession struct {
	mu      sync.Mutex
	id      string
	created time.Time
	ed      *editor.Session
	dirty   bool
}

// SessionInfo describes one known session.
type SessionInfo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Open      bool      `json:"open"`
	Dirty     bool      `json:"dirty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// SessionView is a consistent read of an open session.
type SessionView struct {
	ID       string          `json:"id"`
	Document domain.Document `json:"document"`
	Selected []string        `json:"selected"`
	Focus    *editor.Focus   `json:"focus,omitempty"`
	CanUndo  bool            `json:"canUndo"`
	CanRedo  bool            `json:"canRedo"`
	Dirty    bool            `json:"dirty"`
}

// NewSessionService creates a SessionService. store may be nil, in which
// case sessions live only in memory.
func NewSessionService(
	store *storage.SessionStore,
	emitter EventEmitter,
	log zerolog.Logger,
	opts editor.Options,
) *SessionService {
	return &SessionService{
		store:    store,
		emitter:  emitter,
		log:      log,
		opts:     opts,
		sessions: make(map[string]*openSession),
	}
}

// ── Open / Close ───────────────────────────────────────────

// Open normalizes a freshly arrived summary and starts a session for it.
func (s *SessionService) Open(ctx context.Context, raw domain.Document) (string, error) {
	return s.register(ctx, editor.OpenPayload(raw, s.opts), time.Now()), nil
}

// OpenPayload decodes a summary payload and opens it.
func (s *SessionService) OpenPayload(ctx context.Context, data []byte) (string, error) {
	doc, err := domain.ParsePayload(data)
	if err != nil {
		return "", err
	}
	return s.Open(ctx, doc)
}

// OpenDefault starts a session on the default empty document.
func (s *SessionService) OpenDefault(ctx context.Context) (string, error) {
	return s.register(ctx, editor.NewSession(domain.DefaultDocument(), s.opts), time.Now()), nil
}

func (s *SessionService) register(ctx context.Context, ed *editor.Session, created time.Time) string {
	return s.registerAs(ctx, uuid.NewString(), ed, created, true)
}

func (s *SessionService) registerAs(ctx context.Context, id string, ed *editor.Session, created time.Time, dirty bool) string {
	sess := &openSession{id: id, created: created, ed: ed, dirty: dirty}
	ed.OnChange(func(doc domain.Document) {
		// Runs with sess.mu held by Do.
		sess.dirty = true
		s.emitter.Emit(ctx, EventSessionChanged, map[string]any{
			"sessionId": id,
			"title":     doc.Title,
			"blocks":    doc.BlockCount(),
		})
	})

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.log.Info().Str("session", id).Str("title", ed.Document().Title).Msg("session opened")
	s.emitter.Emit(ctx, EventSessionOpened, id)
	return id
}

// Close saves a dirty session and forgets it.
func (s *SessionService) Close(ctx context.Context, id string) error {
	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	if err := s.Save(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()

	s.emitter.Emit(ctx, EventSessionClosed, id)
	return nil
}

// Delete discards a session without saving it: the open copy is dropped and
// the stored history removed.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if !s.saving.TryLock(id) {
		return fmt.Errorf("session %s is saving", id)
	}
	defer s.saving.Unlock(id)

	s.mu.Lock()
	_, wasOpen := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	wasStored := false
	if s.store != nil {
		err := s.store.Delete(ctx, id)
		switch {
		case err == nil:
			wasStored = true
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}
	}
	if !wasOpen && !wasStored {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}

	s.log.Info().Str("session", id).Msg("session deleted")
	s.emitter.Emit(ctx, EventSessionDeleted, id)
	return nil
}

// Restore loads a stored session back into memory. Restoring an open
// session is a no-op.
func (s *SessionService) Restore(ctx context.Context, id string) error {
	if _, err := s.lookup(id); err == nil {
		return nil
	}
	if s.store == nil {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}

	snap, err := s.store.Load(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	entries := lo.Map(snap.Entries, func(e storage.HistoryEntry, _ int) editor.Entry {
		return editor.Entry{Doc: e.Doc, Kind: editor.EditKind(e.Kind), Target: e.Target}
	})
	h := editor.RestoreHistory(entries, snap.Cursor, s.opts.Coalesce)
	if h == nil {
		return fmt.Errorf("session %s has no history", id)
	}
	s.registerAs(ctx, id, editor.ResumeSession(h, s.opts), snap.Session.CreatedAt, false)
	return nil
}

// ── Access ─────────────────────────────────────────────────

// Do runs fn with exclusive access to the session.
func (s *SessionService) Do(ctx context.Context, id string, fn func(*editor.Session) error) error {
	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.ed)
}

// Get returns a snapshot of an open session.
func (s *SessionService) Get(id string) (*SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return &SessionView{
		ID:       id,
		Document: sess.ed.Document(),
		Selected: sess.ed.SelectedIDs(),
		Focus:    sess.ed.Focus(),
		CanUndo:  sess.ed.CanUndo(),
		CanRedo:  sess.ed.CanRedo(),
		Dirty:    sess.dirty,
	}, nil
}

// List returns stored sessions, most recently updated first, followed by
// open sessions that were never saved.
func (s *SessionService) List(ctx context.Context) ([]SessionInfo, error) {
	var stored []storage.SessionRecord
	if s.store != nil {
		var err error
		stored, err = s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
	}

	s.mu.RLock()
	open := make(map[string]*openSession, len(s.sessions))
	for id, sess := range s.sessions {
		open[id] = sess
	}
	s.mu.RUnlock()

	out := make([]SessionInfo, 0, len(stored)+len(open))
	for _, r := range stored {
		info := SessionInfo{ID: r.ID, Title: r.Title, UpdatedAt: r.UpdatedAt}
		if sess, ok := open[r.ID]; ok {
			info.Open = true
			info.Title, info.Dirty = sess.status()
			delete(open, r.ID)
		}
		out = append(out, info)
	}

	ids := lo.Keys(open)
	slices.Sort(ids)
	for _, id := range ids {
		title, dirty := open[id].status()
		out = append(out, SessionInfo{ID: id, Title: title, Open: true, Dirty: dirty})
	}
	return out, nil
}

func (sess *openSession) status() (string, bool) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.ed.Document().Title, sess.dirty
}

func (s *SessionService) lookup(id string) (*openSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return sess, nil
}

// ── Persistence ────────────────────────────────────────────

// Save writes the session's history if it has unsaved changes.
func (s *SessionService) Save(ctx context.Context, id string) error {
	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	if s.store == nil {
		return nil
	}
	if !s.saving.TryLock(id) {
		return fmt.Errorf("session %s is already saving", id)
	}
	defer s.saving.Unlock(id)

	sess.mu.Lock()
	if !sess.dirty {
		sess.mu.Unlock()
		return nil
	}
	h := sess.ed.History()
	snap := storage.SessionSnapshot{
		Session: storage.SessionRecord{ID: id, Title: sess.ed.Document().Title, CreatedAt: sess.created},
		Entries: lo.Map(h.Entries(), func(e editor.Entry, _ int) storage.HistoryEntry {
			return storage.HistoryEntry{Kind: string(e.Kind), Target: e.Target, Doc: e.Doc}
		}),
		Cursor: h.Cursor(),
	}
	sess.dirty = false
	sess.mu.Unlock()

	if err := s.store.Save(ctx, snap); err != nil {
		sess.mu.Lock()
		sess.dirty = true
		sess.mu.Unlock()
		return fmt.Errorf("save session: %w", err)
	}

	s.log.Debug().Str("session", id).Int("entries", len(snap.Entries)).Msg("session saved")
	s.emitter.Emit(ctx, EventSessionSaved, id)
	return nil
}

// SaveDirty saves every open session with unsaved changes and reports how
// many were written.
func (s *SessionService) SaveDirty(ctx context.Context) (int, error) {
	s.mu.RLock()
	var dirty []string
	for id, sess := range s.sessions {
		if _, d := sess.status(); d {
			dirty = append(dirty, id)
		}
	}
	s.mu.RUnlock()

	var errs []error
	saved := 0
	for _, id := range dirty {
		if err := s.Save(ctx, id); err != nil {
			errs = append(errs, err)
			continue
		}
		saved++
	}
	return saved, errors.Join(errs...)
}

// ── Autosave ───────────────────────────────────────────────

// StartAutosave schedules SaveDirty on a cron spec such as "@every 30s".
// An empty spec disables autosave.
func (s *SessionService) StartAutosave(ctx context.Context, spec string) error {
	s.stopAutosave()
	if spec == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		n, err := s.SaveDirty(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("autosave failed")
		}
		if n > 0 {
			s.log.Info().Int("sessions", n).Msg("autosaved")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid autosave schedule %q: %w", spec, err)
	}
	c.Start()
	s.cronSched = c
	s.log.Debug().Str("schedule", spec).Msg("autosave scheduled")
	return nil
}

// Stop halts autosave, waits for in-flight saves and flushes dirty sessions.
func (s *SessionService) Stop(ctx context.Context) error {
	s.stopAutosave()
	s.saving.WaitAll(ctx)
	_, err := s.SaveDirty(ctx)
	return err
}

func (s *SessionService) stopAutosave() {
	if s.cronSched != nil {
		<-s.cronSched.Stop().Done()
		s.cronSched = nil
	}
}

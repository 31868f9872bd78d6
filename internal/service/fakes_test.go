package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
)

func testVerbs() []entities.Verb {
	return []entities.Verb{
		{ID: 1, Infinitive: "singen", Praeteritum: "sang", PartizipII: "gesungen", IsIrregular: true},
		{ID: 2, Infinitive: "gehen", Praeteritum: "ging", PartizipII: "gegangen", IsIrregular: true},
		{ID: 3, Infinitive: "schreiben", Praeteritum: "schrieb", PartizipII: "geschrieben", IsIrregular: true},
		{ID: 4, Infinitive: "machen", Praeteritum: "machte", PartizipII: "gemacht"},
		{ID: 5, Infinitive: "spielen", Praeteritum: "spielte", PartizipII: "gespielt"},
		{ID: 6, Infinitive: "arbeiten", Praeteritum: "arbeitete", PartizipII: "gearbeitet"},
	}
}

// fakeVerbRepo hands out verbs in rotation so every draw is deterministic.
type fakeVerbRepo struct {
	mu    sync.Mutex
	verbs []entities.Verb
	next  int
	err   error
}

func (r *fakeVerbRepo) Random(_ context.Context, n int) ([]entities.Verb, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	if len(r.verbs) == 0 {
		return nil, nil
	}
	if n > len(r.verbs) {
		n = len(r.verbs)
	}

	out := make([]entities.Verb, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.verbs[(r.next+i)%len(r.verbs)])
	}
	r.next++
	return out, nil
}

type fakeUserRepo struct {
	mu        sync.Mutex
	rows      []*entities.User
	nextID    int64
	createErr error // returned once by Create
}

func (r *fakeUserRepo) find(match func(u *entities.User) bool) *entities.User {
	for i := len(r.rows) - 1; i >= 0; i-- {
		if match(r.rows[i]) {
			return r.rows[i]
		}
	}
	return nil
}

func copyUser(u *entities.User) *entities.User {
	c := *u
	return &c
}

func (r *fakeUserRepo) GetActive(_ context.Context, telegramID int64) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(func(u *entities.User) bool { return u.TelegramID == telegramID && u.IsActive })
	if u == nil {
		return nil, entities.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *fakeUserRepo) GetDeactivated(_ context.Context, telegramID int64) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(func(u *entities.User) bool {
		return u.TelegramID == telegramID && !u.IsActive && u.ArchiveKey == nil
	})
	if u == nil {
		return nil, entities.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *fakeUserRepo) ListByTelegramID(_ context.Context, telegramID int64) ([]*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entities.User
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].TelegramID == telegramID {
			out = append(out, copyUser(r.rows[i]))
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.createErr; err != nil {
		r.createErr = nil
		return err
	}
	if r.find(func(u *entities.User) bool { return u.TelegramID == user.TelegramID && u.IsActive }) != nil {
		return entities.ErrUserExists
	}

	r.nextID++
	user.ID = r.nextID
	r.rows = append(r.rows, copyUser(user))
	return nil
}

func (r *fakeUserRepo) Reactivate(_ context.Context, id int64, phone, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(func(u *entities.User) bool { return u.ID == id })
	if u == nil {
		return entities.ErrUserNotFound
	}
	u.IsActive = true
	u.Phone = phone
	u.Name = name
	return nil
}

func (r *fakeUserRepo) Archive(_ context.Context, id int64, archiveKey string, archivedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(func(u *entities.User) bool { return u.ID == id && u.IsActive })
	if u == nil {
		return entities.ErrUserNotFound
	}
	u.IsActive = false
	u.ArchiveKey = &archiveKey
	u.ArchivedAt = &archivedAt
	return nil
}

func (r *fakeUserRepo) Deactivate(_ context.Context, telegramID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(func(u *entities.User) bool { return u.TelegramID == telegramID && u.IsActive })
	if u == nil {
		return entities.ErrUserNotFound
	}
	u.IsActive = false
	return nil
}

type fakeAnswerRepo struct {
	mu      sync.Mutex
	entries []entities.AnswerLogEntry
}

func (r *fakeAnswerRepo) Append(_ context.Context, entry *entities.AnswerLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAnswerRepo) CountBetween(_ context.Context, userID int64, since, until time.Time) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total, correct int
	for _, e := range r.entries {
		if e.UserID != userID || e.AnsweredAt.Before(since) || e.AnsweredAt.After(until) {
			continue
		}
		total++
		if e.IsCorrect {
			correct++
		}
	}
	return total, correct, nil
}

func (r *fakeAnswerRepo) CountDistinctVerbs(_ context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[int64]bool)
	for _, e := range r.entries {
		if e.UserID == userID {
			seen[e.VerbID] = true
		}
	}
	return len(seen), nil
}

// add logs n answers of which correct are right, all at the given time.
func (r *fakeAnswerRepo) add(userID, verbID int64, at time.Time, n, correct int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < n; i++ {
		r.entries = append(r.entries, entities.AnswerLogEntry{
			ID:         int64(len(r.entries) + 1),
			UserID:     userID,
			VerbID:     verbID,
			IsCorrect:  i < correct,
			AnsweredAt: at,
		})
	}
}

type fakeMetrics struct {
	mu            sync.Mutex
	started       int
	answers       int
	finished      []int
	registrations []bool
	archives      int
}

func (m *fakeMetrics) RecordQuizStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
}

func (m *fakeMetrics) RecordAnswer(bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers++
}

func (m *fakeMetrics) RecordQuizFinished(score, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = append(m.finished, score)
}

func (m *fakeMetrics) RecordRegistration(reactivated bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations = append(m.registrations, reactivated)
}

func (m *fakeMetrics) RecordArchive() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archives++
}

func optionTexts(options []entities.AnswerOption) []string {
	texts := make([]string, 0, len(options))
	for _, o := range options {
		texts = append(texts, o.Text)
	}
	sort.Strings(texts)
	return texts
}

package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"daily-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches the question for a quiz period from a backing store.
type QuestionLoader interface {
	LoadQuestion(ctx context.Context, slot int64) (domain.Question, error)
}

// QuestionRepository caches questions per slot with TTL to avoid repeated loader hits.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[int64]cachedQuestion
}

type cachedQuestion struct {
	question  domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int64]cachedQuestion),
	}
}

func (r *QuestionRepository) GetQuestion(ctx context.Context, slot int64) (domain.Question, error) {
	if q, ok := r.cached(slot); ok {
		return q, nil
	}

	result, err, _ := r.sf.Do(strconv.FormatInt(slot, 10), func() (interface{}, error) {
		if q, ok := r.cached(slot); ok {
			return q, nil
		}

		q, err := r.loader.LoadQuestion(ctx, slot)
		if err != nil {
			return domain.Question{}, err
		}

		r.mu.Lock()
		r.cache[slot] = cachedQuestion{
			question:  q,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

func (r *QuestionRepository) cached(slot int64) (domain.Question, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[slot]; ok && entry.expiresAt.After(now) {
		return entry.question, true
	}
	return domain.Question{}, false
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader rotates through a fixed list of questions, one per slot.
type StaticQuestionLoader struct {
	questions []domain.Question
}

func NewStaticQuestionLoader(questions []domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions}
}

func (l *StaticQuestionLoader) LoadQuestion(_ context.Context, slot int64) (domain.Question, error) {
	if len(l.questions) == 0 {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	idx := slot % int64(len(l.questions))
	if idx < 0 {
		idx += int64(len(l.questions))
	}
	return l.questions[idx], nil
}

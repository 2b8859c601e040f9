package exchange

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/getmockd/mockrules/internal/id"
	"github.com/getmockd/mockrules/pkg/logging"
	"github.com/getmockd/mockrules/pkg/rules"
	"github.com/getmockd/mockrules/pkg/rules/part"
)

// DefaultCapacity is the number of exchanges a Store keeps when none is
// given.
const DefaultCapacity = 1000

// Filter defines criteria for listing exchanges. Zero fields match
// everything.
type Filter struct {
	// Protocol filters by request protocol (http, websocket).
	Protocol part.Protocol

	// Method filters by request method, case-insensitively.
	Method string

	// Category filters by exchange category.
	Category Category

	// Host filters by request host against a glob such as "*.example.com".
	Host string

	// Rule keeps exchanges whose request the rule matches, whether or not
	// the rule is activated.
	Rule rules.Rule

	// MatchedRuleID filters by the rule that handled the exchange.
	MatchedRuleID string

	// Limit is the maximum number of exchanges to return.
	Limit int

	// Offset is the number of exchanges to skip.
	Offset int
}

// Subscriber is a channel that receives exchanges as they are added.
type Subscriber chan *Exchange

// Store is an in-memory, bounded collection of exchanges in arrival order.
// When full, the oldest exchange is evicted. A Store is safe for
// concurrent use.
type Store struct {
	log *slog.Logger

	exchanges []*Exchange
	capacity  int
	mu        sync.RWMutex

	subscribers map[Subscriber]struct{}
	subMu       sync.RWMutex
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for store diagnostics.
func WithLogger(log *slog.Logger) StoreOption {
	return func(s *Store) { s.log = logging.Component(logging.OrNop(log), "exchange") }
}

// NewStore creates a Store holding up to capacity exchanges. A capacity of
// zero or less uses DefaultCapacity.
func NewStore(capacity int, opts ...StoreOption) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{
		log:         logging.Nop(),
		exchanges:   make([]*Exchange, 0, capacity),
		capacity:    capacity,
		subscribers: make(map[Subscriber]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add records an exchange, assigning an ID and timestamp when missing,
// and notifies subscribers. Slow subscribers miss exchanges rather than
// block the store.
func (s *Store) Add(ex *Exchange) {
	if ex == nil {
		return
	}

	s.mu.Lock()
	if ex.ID == "" {
		ex.ID = id.TimeOrdered()
	}
	if ex.Timestamp.IsZero() {
		ex.Timestamp = time.Now()
	}
	if len(s.exchanges) >= s.capacity {
		s.log.Debug("evicting oldest exchange", "id", s.exchanges[0].ID)
		s.exchanges[0] = nil
		s.exchanges = s.exchanges[1:]
	}
	s.exchanges = append(s.exchanges, ex)
	s.mu.Unlock()

	s.subMu.RLock()
	for sub := range s.subscribers {
		select {
		case sub <- ex:
		default:
			s.log.Debug("subscriber is slow, dropping exchange", "id", ex.ID)
		}
	}
	s.subMu.RUnlock()
}

// Get returns the exchange with the given ID, or nil.
func (s *Store) Get(id string) *Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ex := range s.exchanges {
		if ex.ID == id {
			return ex
		}
	}
	return nil
}

// List returns the exchanges matching filter in arrival order. A nil
// filter returns everything.
func (s *Store) List(filter *Filter) []*Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Exchange, 0, len(s.exchanges))
	for _, ex := range s.exchanges {
		if filter != nil && !matchesFilter(ex, filter) {
			continue
		}
		result = append(result, ex)
	}

	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(result) {
				return []*Exchange{}
			}
			result = result[filter.Offset:]
		}
		if filter.Limit > 0 && filter.Limit < len(result) {
			result = result[:filter.Limit]
		}
	}
	return result
}

func matchesFilter(ex *Exchange, filter *Filter) bool {
	if filter.Protocol != "" && ex.Protocol() != filter.Protocol {
		return false
	}
	if filter.Method != "" && (ex.Request == nil || !strings.EqualFold(ex.Request.Method, filter.Method)) {
		return false
	}
	if filter.Category != "" && ex.Category() != filter.Category {
		return false
	}
	if filter.Host != "" && (ex.Request == nil || !matchesHost(filter.Host, ex.Request.Host())) {
		return false
	}
	if filter.MatchedRuleID != "" && ex.MatchedRuleID != filter.MatchedRuleID {
		return false
	}
	if filter.Rule != nil && !rules.Matches(filter.Rule, ex.Request) {
		return false
	}
	return true
}

// matchesHost matches a host, with or without its port, against a glob.
// An invalid pattern matches nothing.
func matchesHost(pattern, host string) bool {
	pattern = strings.ToLower(pattern)
	host = strings.ToLower(host)
	if ok, err := doublestar.Match(pattern, host); err == nil && ok {
		return true
	}
	if i := strings.LastIndexByte(host, ':'); i > 0 && !strings.HasSuffix(host, "]") {
		ok, err := doublestar.Match(pattern, host[:i])
		return err == nil && ok
	}
	return false
}

// Clear removes every exchange.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges = make([]*Exchange, 0, s.capacity)
}

// Count returns the number of stored exchanges.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exchanges)
}

// Subscribe registers a subscriber that receives exchanges as they are
// added. The returned function unsubscribes and closes the channel.
func (s *Store) Subscribe() (Subscriber, func()) {
	ch := make(Subscriber, 100)

	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, ch)
			s.subMu.Unlock()
			close(ch)
		})
	}
	return ch, unsubscribe
}

// Package intake captures free-form custom order requests: a message, an
// optionally attached image, or both. Records append to a persisted log and
// are never edited or deleted.
package intake

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aarna-atelier/storefront-api/internal/storage/kv"
)

// StoreKey is the kv key the custom order log persists under.
const StoreKey = "customOrders"

// Sentinel errors for submissions.
var (
	// ErrEmptySubmission means neither a message nor an image was provided.
	ErrEmptySubmission = errors.New("provide details or attach an image")
	// ErrEncodeInFlight means a previous submission is still encoding its
	// image. The intake accepts one encode at a time rather than letting
	// rapid resubmissions race.
	ErrEncodeInFlight = errors.New("a submission is already being processed")
)

// Record is one custom order request. Image is a self-contained data URI,
// or empty when no image was attached.
type Record struct {
	ID        string
	Message   string
	Image     string
	Timestamp time.Time
}

// Service owns the append-only custom order log.
type Service struct {
	kv kv.Store
	lg *zap.Logger

	// encoding guards the single in-flight image encode.
	encoding atomic.Bool

	mu      sync.RWMutex
	records []Record
}

// NewService creates a Service persisting through the given kv store.
// Call Load before serving traffic.
func NewService(store kv.Store, lg *zap.Logger) *Service {
	return &Service{kv: store, lg: lg.Named("intake")}
}

// Load reads the persisted log. Absent or malformed data degrades to an
// empty log; it never fails the startup path.
func (s *Service) Load(ctx context.Context) error {
	data, err := s.kv.Get(ctx, StoreKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil
		}
		return errors.Wrap(err, "load custom orders")
	}

	records, err := decodeRecords(data)
	if err != nil {
		s.lg.Warn("Malformed persisted custom orders, starting empty", zap.Error(err))
		return nil
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}

// Submit validates and appends one custom order request. At least one of
// message and image must be present. An attached image is encoded into a
// data URI off the calling goroutine; Submit waits for the single-shot
// result before constructing the record, so a torn-down context never
// leaves a partial record behind. While an encode is in flight further
// submissions are rejected with ErrEncodeInFlight.
func (s *Service) Submit(ctx context.Context, message string, image []byte, mimeType string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if message == "" && len(image) == 0 {
		return nil, ErrEmptySubmission
	}

	encoded := ""
	if len(image) > 0 {
		if !s.encoding.CompareAndSwap(false, true) {
			return nil, ErrEncodeInFlight
		}
		defer s.encoding.Store(false)

		result := encodeAsync(image, mimeType)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case encoded = <-result:
		}
	}

	rec := Record{
		ID:        uuid.New().String(),
		Message:   message,
		Image:     encoded,
		Timestamp: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	if err := s.kv.Set(ctx, StoreKey, encodeRecords(s.records)); err != nil {
		// Keep the log consistent with what is persisted.
		s.records = s.records[:len(s.records)-1]
		return nil, errors.Wrap(err, "persist custom orders")
	}

	s.lg.Info("Custom order received",
		zap.String("id", rec.ID),
		zap.Bool("has_image", rec.Image != ""),
	)
	return &rec, nil
}

// List returns all records in submission order, oldest first.
func (s *Service) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Count returns the number of records.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Package pipeline drives the batch content-seeding runs: per topic it
// generates text, extracts a validated record, enriches it with an image,
// and persists it. Topics are processed strictly one at a time with
// configurable pauses so the upstream APIs are never hammered.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"pawpedia/amazon"
	"pawpedia/content"
	"pawpedia/extract"
	"pawpedia/genai"
	"pawpedia/retry"
	"pawpedia/store"
)

// ErrRunAborted is returned when consecutive failures tripped the breaker
// and the remaining topics were skipped. Partial results are still written.
var ErrRunAborted = errors.New("run aborted after consecutive failures")

// ImageSource is the slice of the dog image API the pipeline needs.
type ImageSource interface {
	RandomImage(ctx context.Context) (string, error)
	BreedRandomImage(ctx context.Context, breed string) (string, error)
	SubBreedRandomImage(ctx context.Context, breed, subBreed string) (string, error)
	AllBreeds(ctx context.Context) (map[string][]string, error)
}

// ProductSource supplies affiliate products for the shop task.
type ProductSource interface {
	RelatedProducts(ctx context.Context, asin string) []amazon.Product
}

// Config bounds one task run.
type Config struct {
	// SuccessDelay is the pause after a persisted record; FailureDelay the
	// (shorter) pause after a failed topic.
	SuccessDelay time.Duration
	FailureDelay time.Duration
	Retry        retry.Config
	// BreakerThreshold is the number of consecutive failed topics that
	// aborts the rest of the run.
	BreakerThreshold uint32
	FallbackImage    string
	Temperature      float64
}

func (c Config) withDefaults() Config {
	if c.BreakerThreshold == 0 {
		c.BreakerThreshold = 3
	}
	if c.FallbackImage == "" {
		c.FallbackImage = content.DefaultImageURL
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	return c
}

// Report summarizes one run.
type Report struct {
	RunID     string
	Succeeded int
	Failed    int
	Aborted   bool
	Records   []content.Record
}

// Runner executes pipeline tasks against injected collaborators. Construct
// one Runner per run; the circuit breaker state is run-scoped.
type Runner struct {
	gen      genai.Completer
	images   ImageSource
	products ProductSource
	st       store.Store
	cfg      Config
	log      *zap.Logger
	breaker  *gobreaker.CircuitBreaker

	// overridable for tests
	clock func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(gen genai.Completer, images ImageSource, products ProductSource, st store.Store, cfg Config, log *zap.Logger) *Runner {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	threshold := cfg.BreakerThreshold
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "generation",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Once open the run aborts, so the breaker never needs to half-open
		// within a run's lifetime.
		Timeout: time.Hour,
	})
	return &Runner{
		gen:      gen,
		images:   images,
		products: products,
		st:       st,
		cfg:      cfg,
		log:      log,
		breaker:  breaker,
		clock:    time.Now,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// produce runs one generate-and-extract attempt loop for a single topic,
// behind the run's circuit breaker. The retried operation covers the whole
// completion plus extraction: a fresh completion can parse where the last
// one did not, so extraction failures are worth the same retries as
// transport failures.
func (r *Runner) produce(ctx context.Context, prompt string, schema content.Schema) (map[string]any, error) {
	out, err := r.breaker.Execute(func() (any, error) {
		return retry.Do(ctx, r.cfg.Retry, func(ctx context.Context) (map[string]any, error) {
			raw, err := r.gen.Complete(ctx, prompt, genai.Options{Temperature: r.cfg.Temperature})
			if err != nil {
				return nil, err
			}
			return extract.Record(raw, schema)
		})
	})
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

// aborted reports whether the breaker has opened, meaning the run should
// stop burning quota on the remaining topics.
func (r *Runner) aborted(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || r.breaker.State() == gobreaker.StateOpen
}

// persist wraps a record in the store envelope and writes it.
func (r *Runner) persist(ctx context.Context, collection, id string, v any, timestamp int64) error {
	doc, err := store.NewDocument(v, timestamp)
	if err != nil {
		return &store.PersistenceError{Collection: collection, ID: id, Err: err}
	}
	return r.st.Set(ctx, collection, id, doc)
}

// newRunLogger tags all run output with a fresh run id and the task name.
func (r *Runner) newRunLogger(task string) (*zap.Logger, *Report) {
	report := &Report{RunID: uuid.NewString()}
	return r.log.With(zap.String("run_id", report.RunID), zap.String("task", task)), report
}

// stringList converts a decoded JSON array into strings, skipping anything
// that is not a string. Per policy, a bare string is not coerced to a
// one-element list.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

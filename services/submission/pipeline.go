package submission

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lendfast/appform/services/form"
	"github.com/lendfast/appform/types"
	"github.com/lendfast/appform/utils/logger"
)

// Step names, in execution order.
const (
	StepPersist    = "persist"
	StepContacts   = "contacts"
	StepSecurities = "securities"
	StepCompany    = "company"
	StepSolicitor  = "solicitor"
	StepDetails    = "details"
	StepDocument   = "document"
	StepTask       = "task"
)

// idempotencyTTL bounds how long a completed side-effecting step blocks a
// duplicate run with the same payload.
const idempotencyTTL = 24 * time.Hour

// Step is one stage of the submission sequence. Guarded steps create
// external side effects (the archived document, the CRM task) that must not
// be duplicated when a submission is retried.
type Step struct {
	Name    string
	Guarded bool
	Run     func(ctx context.Context, app *types.Application) error
}

// StepRecorder tracks which steps have completed for an application, so a
// rerun picks up where the failed attempt stopped.
type StepRecorder interface {
	Completed(ctx context.Context, applicationID string) (map[string]time.Time, error)
	MarkCompleted(ctx context.Context, applicationID, step string) error
	Clear(ctx context.Context, applicationID string) error
}

// Result reports what a pipeline run did per step.
type Result struct {
	Step    string `json:"step"`
	Skipped bool   `json:"skipped"`
}

// Pipeline runs the submission steps in a fixed order with per-step
// completion tracking. Replaces the scattered sequence of independent calls
// the form previously drove one by one.
type Pipeline struct {
	steps    []Step
	recorder StepRecorder
	redis    *redis.Client
}

// NewPipeline assembles a pipeline over the given steps.
func NewPipeline(steps []Step, recorder StepRecorder, redisClient *redis.Client) *Pipeline {
	return &Pipeline{steps: steps, recorder: recorder, redis: redisClient}
}

// Run validates the application and executes the outstanding steps in order.
// The first failing step aborts the run; completed steps stay recorded so a
// retry resumes from the failure.
func (p *Pipeline) Run(ctx context.Context, id string, app *types.Application) ([]Result, error) {
	if err := form.Validate(app); err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range app.Applicants {
		form.PurgeHiddenAddresses(&app.Applicants[i], now)
	}

	done, err := p.recorder.Completed(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading submission progress: %w", err)
	}

	fingerprint := payloadFingerprint(id, app)

	results := make([]Result, 0, len(p.steps))
	for _, step := range p.steps {
		if _, ok := done[step.Name]; ok {
			logger.Infof("submission %s: step %s already completed, skipping", id, step.Name)
			results = append(results, Result{Step: step.Name, Skipped: true})
			continue
		}

		if step.Guarded {
			acquired, err := p.acquireGuard(ctx, step.Name, fingerprint)
			if err != nil {
				return results, fmt.Errorf("step %s: %w", step.Name, err)
			}
			if !acquired {
				logger.Warnf("submission %s: step %s already ran for this payload, skipping", id, step.Name)
				results = append(results, Result{Step: step.Name, Skipped: true})
				continue
			}
		}

		logger.Infof("submission %s: running step %s", id, step.Name)
		if err := step.Run(ctx, app); err != nil {
			if step.Guarded {
				p.releaseGuard(ctx, step.Name, fingerprint)
			}
			logger.Errorf("submission %s: step %s failed: %v", id, step.Name, err)
			return results, fmt.Errorf("step %s: %w", step.Name, err)
		}

		if err := p.recorder.MarkCompleted(ctx, id, step.Name); err != nil {
			return results, fmt.Errorf("recording step %s: %w", step.Name, err)
		}
		results = append(results, Result{Step: step.Name})
	}

	// all steps done; reset the trail so a future resubmission starts clean
	if err := p.recorder.Clear(ctx, id); err != nil {
		logger.Warnf("submission %s: failed to clear step records: %v", id, err)
	}
	return results, nil
}

// acquireGuard claims the idempotency key for a guarded step. A second run
// with the same application payload finds the key taken and skips the step.
func (p *Pipeline) acquireGuard(ctx context.Context, step, fingerprint string) (bool, error) {
	if p.redis == nil {
		return true, nil
	}
	key := guardKey(step, fingerprint)
	acquired, err := p.redis.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), idempotencyTTL).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency check failed: %w", err)
	}
	return acquired, nil
}

func (p *Pipeline) releaseGuard(ctx context.Context, step, fingerprint string) {
	if p.redis == nil {
		return
	}
	if err := p.redis.Del(ctx, guardKey(step, fingerprint)).Err(); err != nil {
		logger.Warnf("failed to release idempotency key for step %s: %v", step, err)
	}
}

func guardKey(step, fingerprint string) string {
	return fmt.Sprintf("submission_%s_%s", step, fingerprint)
}

// payloadFingerprint hashes the application id and content so the guard keys
// distinguish genuine resubmissions (changed payload) from retries.
func payloadFingerprint(id string, app *types.Application) string {
	encoded, err := json.Marshal(app)
	if err != nil {
		encoded = []byte{}
	}
	sum := sha256.Sum256(append([]byte(id), encoded...))
	return fmt.Sprintf("%x", sum[:16])
}

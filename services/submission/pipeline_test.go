package submission

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendfast/appform/services/form"
	"github.com/lendfast/appform/types"
)

const testGUID = "11111111-2222-3333-4444-555555555555"

type memoryRecorder struct {
	steps map[string]map[string]time.Time
}

func newMemoryRecorder() *memoryRecorder {
	return &memoryRecorder{steps: make(map[string]map[string]time.Time)}
}

func (r *memoryRecorder) Completed(ctx context.Context, id string) (map[string]time.Time, error) {
	done := make(map[string]time.Time, len(r.steps[id]))
	for step, at := range r.steps[id] {
		done[step] = at
	}
	return done, nil
}

func (r *memoryRecorder) MarkCompleted(ctx context.Context, id, step string) error {
	if r.steps[id] == nil {
		r.steps[id] = make(map[string]time.Time)
	}
	r.steps[id][step] = time.Now()
	return nil
}

func (r *memoryRecorder) Clear(ctx context.Context, id string) error {
	delete(r.steps, id)
	return nil
}

func boolPtr(b bool) *bool { return &b }

func submittableApplication() *types.Application {
	answered := boolPtr(false)
	return &types.Application{
		Applicants: []types.Applicant{{
			Salutation:                "Ms",
			FirstName:                 "Jane",
			LastName:                  "Doe",
			DOB:                       "1985-04-12",
			Email:                     "jane@example.com",
			MobilePhone:               "07700900123",
			MaritalStatus:             "Married",
			CountryOfBirth:            "United Kingdom",
			Nationality:               "British",
			PermanentRightToReside:    boolPtr(true),
			Address1Line1:             "10 Downing Street",
			Address1Town:              "London",
			Address1Postcode:          "SW1A 2AA",
			Address1AtSince:           "2015-01-01",
			Address1ResidentialStatus: "Owner",
			CreditHistory: types.CreditHistory{
				RefusedMortgage:     answered,
				Bankrupt:            answered,
				CCJ:                 answered,
				DirectorLiquidation: answered,
				Convicted:           answered,
				MissedSecured:       answered,
				MissedUnsecured:     answered,
			},
		}},
		Securities: []types.Security{{
			Line1:          "1 High Street",
			Town:           "London",
			Postcode:       "SW1A 1AA",
			PropertyType:   "Flat",
			LoanPurpose:    []string{"Refinance"},
			EstimatedValue: "£250,000",
			ChargeType:     "1st",
			Tenure:         "Freehold",
		}},
		LoanAmount:      "£150,000",
		LoanTerm:        "12 months",
		FundsRequiredBy: "2026-10-01",
		ExitStrategy:    "Sale of security",
		SolicitorName:   "Harper & Cole LLP",
		SRANumber:       "445512",
		SolicitorAddress: types.SolicitorAddress{
			Line1:    "5 Chancery Lane",
			Postcode: "WC2A 1AA",
		},
	}
}

func step(name string, guarded bool, calls *[]string, fail bool) Step {
	return Step{
		Name:    name,
		Guarded: guarded,
		Run: func(ctx context.Context, app *types.Application) error {
			*calls = append(*calls, name)
			if fail {
				return fmt.Errorf("%s blew up", name)
			}
			return nil
		},
	}
}

func TestPipelineRunsStepsInOrder(t *testing.T) {
	var calls []string
	steps := []Step{
		step(StepPersist, false, &calls, false),
		step(StepContacts, false, &calls, false),
		step(StepDetails, false, &calls, false),
	}

	p := NewPipeline(steps, newMemoryRecorder(), nil)
	results, err := p.Run(context.Background(), testGUID, submittableApplication())

	require.NoError(t, err)
	assert.Equal(t, []string{StepPersist, StepContacts, StepDetails}, calls)
	assert.Len(t, results, 3)
	for _, r := range results {
		assert.False(t, r.Skipped)
	}
}

func TestPipelineRejectsInvalidApplication(t *testing.T) {
	var calls []string
	p := NewPipeline([]Step{step(StepPersist, false, &calls, false)}, newMemoryRecorder(), nil)

	app := submittableApplication()
	app.SRANumber = ""

	_, err := p.Run(context.Background(), testGUID, app)

	var sectionErr *form.SectionError
	require.ErrorAs(t, err, &sectionErr)
	assert.Empty(t, calls, "no step should run for an invalid application")
}

func TestPipelineResumesAfterFailure(t *testing.T) {
	recorder := newMemoryRecorder()

	var firstRun []string
	failing := []Step{
		step(StepPersist, false, &firstRun, false),
		step(StepContacts, false, &firstRun, false),
		step(StepSecurities, false, &firstRun, true),
		step(StepDetails, false, &firstRun, false),
	}
	p := NewPipeline(failing, recorder, nil)

	_, err := p.Run(context.Background(), testGUID, submittableApplication())
	require.Error(t, err)
	assert.Equal(t, []string{StepPersist, StepContacts, StepSecurities}, firstRun)

	var secondRun []string
	recovered := []Step{
		step(StepPersist, false, &secondRun, false),
		step(StepContacts, false, &secondRun, false),
		step(StepSecurities, false, &secondRun, false),
		step(StepDetails, false, &secondRun, false),
	}
	p = NewPipeline(recovered, recorder, nil)

	results, err := p.Run(context.Background(), testGUID, submittableApplication())
	require.NoError(t, err)
	assert.Equal(t, []string{StepSecurities, StepDetails}, secondRun,
		"completed steps should be skipped on retry")

	skipped := 0
	for _, r := range results {
		if r.Skipped {
			skipped++
		}
	}
	assert.Equal(t, 2, skipped)
}

func TestPipelineClearsTrailAfterSuccess(t *testing.T) {
	recorder := newMemoryRecorder()
	var calls []string
	steps := []Step{step(StepPersist, false, &calls, false)}

	p := NewPipeline(steps, recorder, nil)
	_, err := p.Run(context.Background(), testGUID, submittableApplication())
	require.NoError(t, err)

	done, err := recorder.Completed(context.Background(), testGUID)
	require.NoError(t, err)
	assert.Empty(t, done, "step trail should reset after a full run")
}

func TestGuardedStepRunsOncePerPayload(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	app := submittableApplication()

	var firstCalls []string
	p := NewPipeline([]Step{step(StepTask, true, &firstCalls, false)}, newMemoryRecorder(), client)
	_, err := p.Run(context.Background(), testGUID, app)
	require.NoError(t, err)
	assert.Equal(t, []string{StepTask}, firstCalls)

	// fresh recorder simulates a duplicated submit after the trail reset
	var secondCalls []string
	p = NewPipeline([]Step{step(StepTask, true, &secondCalls, false)}, newMemoryRecorder(), client)
	results, err := p.Run(context.Background(), testGUID, app)
	require.NoError(t, err)
	assert.Empty(t, secondCalls, "identical payload must not rerun a guarded step")
	require.Len(t, results, 1)
	assert.True(t, results[0].Skipped)

	// changed payload is a genuine resubmission and runs again
	app.LoanAmount = "£175,000"
	var thirdCalls []string
	p = NewPipeline([]Step{step(StepTask, true, &thirdCalls, false)}, newMemoryRecorder(), client)
	_, err = p.Run(context.Background(), testGUID, app)
	require.NoError(t, err)
	assert.Equal(t, []string{StepTask}, thirdCalls)
}

func TestGuardReleasedOnFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	app := submittableApplication()

	var firstCalls []string
	p := NewPipeline([]Step{step(StepDocument, true, &firstCalls, true)}, newMemoryRecorder(), client)
	_, err := p.Run(context.Background(), testGUID, app)
	require.Error(t, err)

	var secondCalls []string
	p = NewPipeline([]Step{step(StepDocument, true, &secondCalls, false)}, newMemoryRecorder(), client)
	_, err = p.Run(context.Background(), testGUID, app)
	require.NoError(t, err)
	assert.Equal(t, []string{StepDocument}, secondCalls,
		"a failed guarded step must be retryable")
}

package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lendfast/appform/config"
	"github.com/lendfast/appform/storage"
	"github.com/lendfast/appform/types"
	"github.com/lendfast/appform/utils/logger"
)

const keyPrefix = "draft_"

// Section names accepted by autosave. Each maps to one field group of the
// application.
const (
	SectionApplicants       = "applicants"
	SectionSignedApplicants = "signedApplicants"
	SectionSecurities       = "securities"
	SectionCompanyData      = "companyData"
	SectionLoan             = "loan"
	SectionSolicitor        = "solicitor"
)

var knownSections = map[string]bool{
	SectionApplicants:       true,
	SectionSignedApplicants: true,
	SectionSecurities:       true,
	SectionCompanyData:      true,
	SectionLoan:             true,
	SectionSolicitor:        true,
}

// LoanSection is the loan field group as autosaved from the loan details step.
type LoanSection struct {
	LoanAmount          string `json:"loanAmount"`
	LoanTerm            string `json:"loanTerm"`
	SourceOfDeposit     string `json:"sourceOfDeposit"`
	LoanPurposeDetail   string `json:"loanPurposeDetail"`
	FundsRequiredBy     string `json:"fundsRequiredBy"`
	ExitStrategy        string `json:"exitStrategy"`
	ExitOtherExplain    string `json:"exitOtherExplain"`
	ExitRefinanceLender string `json:"exitRefinanceLender"`
}

// SolicitorSection is the solicitor field group as autosaved from the
// solicitor step.
type SolicitorSection struct {
	SolicitorName          string                 `json:"solicitorName"`
	SRANumber              string                 `json:"sraNumber"`
	SolicitorAddress       types.SolicitorAddress `json:"solicitorAddress"`
	SolicitorActing        string                 `json:"solicitorActing"`
	SolicitorContactNumber string                 `json:"solicitorContactNumber"`
	SolicitorContactEmail  string                 `json:"solicitorContactEmail"`
}

// Flusher persists a fully merged application. Satisfied by the storage
// layer; swapped in tests.
type Flusher func(ctx context.Context, id string, app *types.Application) error

// Loader fetches the persisted application a draft folds into.
type Loader func(ctx context.Context, id string) (*types.ApplicationRecord, error)

// Store keeps in-progress form edits in a redis hash per application and
// periodically folds them into the persisted record. Writes hit redis
// immediately; the Postgres flush is debounced so rapid edits collapse into
// one write.
type Store struct {
	client   *redis.Client
	ttl      time.Duration
	debounce time.Duration
	load     Loader
	flush    Flusher

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewStore creates a draft store on the shared redis connection.
func NewStore() *Store {
	conf := config.DraftConfig()
	return &Store{
		client:   storage.RedisClient,
		ttl:      conf.TTL,
		debounce: conf.DebounceDelay,
		load:     storage.GetApplication,
		flush: func(ctx context.Context, id string, app *types.Application) error {
			_, err := storage.UpdateApplication(ctx, id, app)
			return err
		},
		timers: make(map[string]*time.Timer),
	}
}

// NewStoreWith creates a draft store with explicit dependencies, for tests.
func NewStoreWith(client *redis.Client, ttl, debounce time.Duration, load Loader, flush Flusher) *Store {
	return &Store{
		client:   client,
		ttl:      ttl,
		debounce: debounce,
		load:     load,
		flush:    flush,
		timers:   make(map[string]*time.Timer),
	}
}

func draftKey(id string) string {
	return keyPrefix + id
}

// SaveSection stores one autosaved section and schedules a flush after the
// quiet window.
func (s *Store) SaveSection(ctx context.Context, id, section string, payload json.RawMessage) error {
	if !knownSections[section] {
		return fmt.Errorf("unknown draft section %q", section)
	}

	key := draftKey(id)
	if err := s.client.HSet(ctx, key, section, string(payload)).Err(); err != nil {
		return fmt.Errorf("failed to save draft section: %w", err)
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to refresh draft ttl: %w", err)
	}

	s.scheduleFlush(id)
	return nil
}

// Sections returns all saved draft sections for an application.
func (s *Store) Sections(ctx context.Context, id string) (map[string]json.RawMessage, error) {
	values, err := s.client.HGetAll(ctx, draftKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	sections := make(map[string]json.RawMessage, len(values))
	for section, raw := range values {
		sections[section] = json.RawMessage(raw)
	}
	return sections, nil
}

// Clear drops the draft, cancelling any pending flush.
func (s *Store) Clear(ctx context.Context, id string) error {
	s.mu.Lock()
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	return s.client.Del(ctx, draftKey(id)).Err()
}

// scheduleFlush arms (or re-arms) the debounce timer for an application.
func (s *Store) scheduleFlush(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[id]; ok {
		timer.Stop()
	}
	s.timers[id] = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()

		if err := s.Flush(context.Background(), id); err != nil {
			logger.Errorf("draft flush for %s failed: %v", id, err)
		}
	})
}

// Flush folds the draft into the persisted application and drops the draft.
// A draft without a persisted application is left for the sweep to retry,
// since the create push may still be in flight.
func (s *Store) Flush(ctx context.Context, id string) error {
	sections, err := s.Sections(ctx, id)
	if err != nil {
		return err
	}
	if len(sections) == 0 {
		return nil
	}

	record, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	app := record.Application
	if err := Apply(&app, sections); err != nil {
		return err
	}
	if err := s.flush(ctx, id, &app); err != nil {
		return err
	}
	return s.client.Del(ctx, draftKey(id)).Err()
}

// SweepKeys returns the applications with a live draft, for the periodic
// flush of debounce windows lost to a restart.
func (s *Store) SweepKeys(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("draft scan failed: %w", err)
	}
	return ids, nil
}

// Apply folds draft sections into an application. A draft section wins only
// when it carries data, so a sparse draft never wipes persisted values.
func Apply(app *types.Application, sections map[string]json.RawMessage) error {
	if raw, ok := sections[SectionApplicants]; ok {
		var applicants []types.Applicant
		if err := json.Unmarshal(raw, &applicants); err != nil {
			return fmt.Errorf("bad applicants draft: %w", err)
		}
		if len(applicants) > 0 {
			app.Applicants = applicants
		}
	}

	// signed applicants carry consent fields on top of the base details, so
	// they take precedence over the plain applicants section
	if raw, ok := sections[SectionSignedApplicants]; ok {
		var applicants []types.Applicant
		if err := json.Unmarshal(raw, &applicants); err != nil {
			return fmt.Errorf("bad signedApplicants draft: %w", err)
		}
		if len(applicants) > 0 {
			app.Applicants = applicants
		}
	}

	if raw, ok := sections[SectionSecurities]; ok {
		var securities []types.Security
		if err := json.Unmarshal(raw, &securities); err != nil {
			return fmt.Errorf("bad securities draft: %w", err)
		}
		if len(securities) > 0 {
			app.Securities = securities
		}
	}

	if raw, ok := sections[SectionCompanyData]; ok {
		var company types.CompanyData
		if err := json.Unmarshal(raw, &company); err != nil {
			return fmt.Errorf("bad companyData draft: %w", err)
		}
		if company.CompanyName != "" || company.CompanyNumber != "" || len(company.Shareholders) > 0 {
			app.CompanyData = &company
			app.IsCompany = true
		}
	}

	if raw, ok := sections[SectionLoan]; ok {
		var loan LoanSection
		if err := json.Unmarshal(raw, &loan); err != nil {
			return fmt.Errorf("bad loan draft: %w", err)
		}
		overwrite(&app.LoanAmount, loan.LoanAmount)
		overwrite(&app.LoanTerm, loan.LoanTerm)
		overwrite(&app.SourceOfDeposit, loan.SourceOfDeposit)
		overwrite(&app.LoanPurposeDetail, loan.LoanPurposeDetail)
		overwrite(&app.FundsRequiredBy, loan.FundsRequiredBy)
		overwrite(&app.ExitStrategy, loan.ExitStrategy)
		overwrite(&app.ExitOtherExplain, loan.ExitOtherExplain)
		overwrite(&app.ExitRefinanceLender, loan.ExitRefinanceLender)
	}

	if raw, ok := sections[SectionSolicitor]; ok {
		var solicitor SolicitorSection
		if err := json.Unmarshal(raw, &solicitor); err != nil {
			return fmt.Errorf("bad solicitor draft: %w", err)
		}
		overwrite(&app.SolicitorName, solicitor.SolicitorName)
		overwrite(&app.SRANumber, solicitor.SRANumber)
		overwrite(&app.SolicitorActing, solicitor.SolicitorActing)
		overwrite(&app.SolicitorContactNumber, solicitor.SolicitorContactNumber)
		overwrite(&app.SolicitorContactEmail, solicitor.SolicitorContactEmail)
		if solicitor.SolicitorAddress != (types.SolicitorAddress{}) {
			app.SolicitorAddress = solicitor.SolicitorAddress
		}
	}

	return nil
}

func overwrite(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

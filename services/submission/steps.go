package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/lendfast/appform/services/crm"
	"github.com/lendfast/appform/services/document"
	"github.com/lendfast/appform/storage"
	"github.com/lendfast/appform/types"
	"github.com/lendfast/appform/utils/logger"
)

// storageRecorder tracks step completion in the submission_steps table.
type storageRecorder struct{}

func (storageRecorder) Completed(ctx context.Context, applicationID string) (map[string]time.Time, error) {
	return storage.CompletedSteps(ctx, applicationID)
}

func (storageRecorder) MarkCompleted(ctx context.Context, applicationID, step string) error {
	return storage.MarkStepCompleted(ctx, applicationID, step)
}

func (storageRecorder) Clear(ctx context.Context, applicationID string) error {
	return storage.ClearSteps(ctx, applicationID)
}

// NewStorageRecorder returns the Postgres-backed step recorder.
func NewStorageRecorder() StepRecorder {
	return storageRecorder{}
}

// DefaultSteps builds the standard submission sequence for one application.
// The signed DOCX is optional; without it the archive step logs and does
// nothing, matching a resubmission where the document was already stored.
func DefaultSteps(id string, client *crm.Client, converter *document.ConverterService, archive *document.ArchiveService, signedDocx []byte) []Step {
	return []Step{
		{
			Name: StepPersist,
			Run: func(ctx context.Context, app *types.Application) error {
				_, err := storage.UpsertApplication(ctx, id, app)
				return err
			},
		},
		{
			Name: StepContacts,
			Run: func(ctx context.Context, app *types.Application) error {
				_, err := client.SyncContacts(id, app.Applicants)
				return err
			},
		},
		{
			Name: StepSecurities,
			Run: func(ctx context.Context, app *types.Application) error {
				_, err := client.SyncSecurities(id, app.Securities)
				return err
			},
		},
		{
			Name: StepCompany,
			Run: func(ctx context.Context, app *types.Application) error {
				payload := types.UpdateCompanyPayload{IsCompany: app.IsCompany}
				if app.CompanyData != nil {
					payload.CompanyName = app.CompanyData.CompanyName
					payload.CompanyNumber = app.CompanyData.CompanyNumber
				}
				_, err := client.SyncCompany(id, payload)
				return err
			},
		},
		{
			Name: StepSolicitor,
			Run: func(ctx context.Context, app *types.Application) error {
				_, _, err := client.SyncSolicitor(id, types.UpdateSolicitorPayload{
					SRANumber:              app.SRANumber,
					SolicitorName:          app.SolicitorName,
					SolicitorAddress:       app.SolicitorAddress,
					SolicitorActing:        app.SolicitorActing,
					SolicitorContactNumber: app.SolicitorContactNumber,
					SolicitorContactEmail:  app.SolicitorContactEmail,
				})
				return err
			},
		},
		{
			Name: StepDetails,
			Run: func(ctx context.Context, app *types.Application) error {
				return client.SyncDetails(id, types.UpdateDetailsPayload{
					LoanAmount:        app.LoanAmount,
					LoanTerm:          app.LoanTerm,
					FundsRequiredBy:   app.FundsRequiredBy,
					SourceOfDeposit:   app.SourceOfDeposit,
					LoanPurposeDetail: app.LoanPurposeDetail,
					ExitStrategy:      app.ExitStrategy,
				})
			},
		},
		{
			Name:    StepDocument,
			Guarded: true,
			Run: func(ctx context.Context, app *types.Application) error {
				if len(signedDocx) == 0 {
					logger.Infof("submission %s: no signed document supplied, skipping archive", id)
					return nil
				}
				pdf, err := converter.DocxToPDF(signedDocx)
				if err != nil {
					return err
				}
				folderLink, err := client.OpportunityFolderLink(id)
				if err != nil {
					return err
				}
				folderPath, err := archive.ResolveFolderPath(folderLink)
				if err != nil {
					return err
				}
				if err := archive.Upload(folderPath, pdf); err != nil {
					return fmt.Errorf("archiving signed form: %w", err)
				}
				return nil
			},
		},
		{
			Name:    StepTask,
			Guarded: true,
			Run: func(ctx context.Context, app *types.Application) error {
				return client.CreateSubmissionTask(id)
			},
		},
	}
}

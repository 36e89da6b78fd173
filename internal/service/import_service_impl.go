package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CityFriends/truebid-calculator-sub000/internal/db"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/importer"
	"github.com/CityFriends/truebid-calculator-sub000/internal/repository"
)

type importService struct {
	proposals ProposalService
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewImportService(
	proposals ProposalService,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ImportService {
	return &importService{
		proposals: proposals,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFile(ctx context.Context, filePath, proposalRef string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSchema(ctx, schema, proposalRef)
}

func (s *importService) ImportSchema(ctx context.Context, schema *importer.ImportSchema, proposalRef string) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"proposal": proposalRef,
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-requirements",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	generated := importer.Convert(schema)

	var target *domain.Proposal
	created := false
	switch {
	case proposalRef != "":
		target, err = s.proposals.Resolve(ctx, proposalRef)
		if err != nil {
			return nil, err
		}
		if generated.Contract != nil {
			target.Contract = *generated.Contract
			if err := normalizeContract(&target.Contract); err != nil {
				return nil, err
			}
		}
	case generated.Proposal != nil:
		target = generated.Proposal
		if err := normalizeContract(&target.Contract); err != nil {
			return nil, err
		}
		created = true
	default:
		return nil, errors.New("import file names no proposal; pass --proposal to import into an existing one")
	}
	fields["proposal"] = target.Name

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		proposals := repository.NewSQLiteProposalRepo(tx)
		roles := repository.NewSQLiteRoleRepo(tx)
		requirements := repository.NewSQLiteRequirementRepo(tx)

		if created {
			if _, err := proposals.GetByName(ctx, target.Name); err == nil {
				return fmt.Errorf("proposal %q: %w", target.Name, repository.ErrConflict)
			} else if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			if err := proposals.Create(ctx, target); err != nil {
				return fmt.Errorf("creating proposal: %w", err)
			}
		} else if generated.Contract != nil {
			target.UpdatedAt = time.Now().UTC()
			if err := proposals.Update(ctx, target); err != nil {
				return fmt.Errorf("updating contract context: %w", err)
			}
		}

		for i := range generated.Roles {
			if err := roles.Create(ctx, target.ID, &generated.Roles[i]); err != nil {
				return fmt.Errorf("creating role %q: %w", generated.Roles[i].Name, err)
			}
		}
		for i := range generated.Requirements {
			if err := requirements.Create(ctx, target.ID, &generated.Requirements[i]); err != nil {
				return fmt.Errorf("creating requirement %q: %w", generated.Requirements[i].Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["roles"] = len(generated.Roles)
	fields["requirements"] = len(generated.Requirements)
	return &ImportResult{
		Proposal:         target,
		Created:          created,
		RoleCount:        len(generated.Roles),
		RequirementCount: len(generated.Requirements),
	}, nil
}

package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...Option) portssvc.AccountSvcFacade {
	svc := &accountService{
		BaseService: newBaseService(),
		accountRepo: repo,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, apperrors.NewValidation("invalid account type '"+string(req.AccountType)+"'", "")
	}
	subtype := req.Subtype
	if subtype == "" {
		subtype = domain.DefaultSubtype(req.AccountType)
	}
	if !subtype.BelongsTo(req.AccountType) {
		return nil, apperrors.NewValidation("subtype "+string(subtype)+" does not belong to "+string(req.AccountType), "")
	}

	account := domain.Account{
		AccountID:   s.NewID(),
		Code:        req.Code,
		Name:        req.Name,
		AccountType: req.AccountType,
		Subtype:     subtype,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.logFailure(ctx, err, "Failed to save account", slog.String("code", account.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.logFailure(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}
	var accountType *domain.AccountType
	if params.AccountType != "" {
		t := domain.AccountType(params.AccountType)
		accountType = &t
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, accountType, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.Int("limit", limit), slog.Int("offset", params.Offset))
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// UpdateAccount changes name, description and active flag freely. The
// subtype only changes while no posted line references the account.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Subtype != nil && *req.Subtype != account.Subtype {
		if !req.Subtype.BelongsTo(account.AccountType) {
			return nil, apperrors.NewValidation("subtype "+string(*req.Subtype)+" does not belong to "+string(account.AccountType), accountID)
		}
		referenced, err := s.accountRepo.IsAccountReferenced(ctx, accountID)
		if err != nil {
			s.LogError(ctx, err, "Failed to check account references", slog.String("account_id", accountID))
			return nil, err
		}
		if referenced {
			return nil, apperrors.NewStateConflict("account is referenced by posted entries; subtype is fixed", accountID)
		}
		account.Subtype = *req.Subtype
	}
	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.Touch(userID, s.now())

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.logFailure(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

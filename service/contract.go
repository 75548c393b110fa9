package service

import (
	"context"
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vaudoise/backoffice/insurance"
	"github.com/vaudoise/backoffice/paging"
	"github.com/vaudoise/backoffice/store"
)

// ActivityFilter limits active contracts to those modified within a range of days.
type ActivityFilter struct {
	UpdatedAfter  *insurance.Date
	UpdatedBefore *insurance.Date
}

type ContractService struct {
	db        *gorm.DB
	contracts *store.Repository[insurance.Contract]
	clients   *store.Repository[insurance.Client]
	now       func() time.Time
}

func NewContractService(db *gorm.DB, opts ...Option) *ContractService {
	o := newOptions(opts)
	return &ContractService{
		db:        db,
		contracts: store.NewRepository[insurance.Contract](db, append(slices.Clip(o.repository), store.WithPreload("Client"))...),
		clients:   store.NewRepository[insurance.Client](db, o.repository...),
		now:       o.now,
	}
}

func (s *ContractService) today() insurance.Date {
	return insurance.DateOf(s.now())
}

func column(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

func ofClient(clientID int64) store.Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: column("client_id"), Value: clientID})
	}
}

// active keeps contracts without end date or ending after today.
func active(today insurance.Date) store.Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Or(
			clause.Eq{Column: column("end_date"), Value: nil},
			clause.Gt{Column: column("end_date"), Value: today.String()},
		))
	}
}

// modifiedWithin bounds modified_at by the start of the first day and the last second of the last day.
func modifiedWithin(f ActivityFilter, loc *time.Location) store.Scope {
	return func(db *gorm.DB) *gorm.DB {
		if f.UpdatedAfter != nil {
			y, m, d := f.UpdatedAfter.Time().Date()
			db = db.Where(clause.Gte{Column: column("modified_at"), Value: time.Date(y, m, d, 0, 0, 0, 0, loc)})
		}
		if f.UpdatedBefore != nil {
			y, m, d := f.UpdatedBefore.Time().Date()
			db = db.Where(clause.Lte{Column: column("modified_at"), Value: time.Date(y, m, d, 23, 59, 59, 0, loc)})
		}
		return db
	}
}

func toContractResponses(page *paging.Page[*insurance.Contract]) *paging.Page[*insurance.ContractResponse] {
	return paging.Map(page, insurance.NewContractResponse)
}

// Browse lists contracts matching query, restricted to one client when clientID is set.
func (s *ContractService) Browse(ctx context.Context, clientID *int64, query string, req *paging.PageRequest) (*paging.Page[*insurance.ContractResponse], error) {
	var opts []store.BrowseOption
	if clientID != nil {
		opts = append(opts, store.WithScopes(ofClient(*clientID)))
	}
	page, err := s.contracts.Browse(ctx, query, req, opts...)
	if err != nil {
		return nil, wrap(err, CodeContractList)
	}
	return toContractResponses(page), nil
}

func (s *ContractService) ActiveByClient(ctx context.Context, clientID int64, filter ActivityFilter, req *paging.PageRequest) (*paging.Page[*insurance.ContractResponse], error) {
	now := s.now()
	page, err := s.contracts.Page(ctx, req,
		ofClient(clientID),
		active(insurance.DateOf(now)),
		modifiedWithin(filter, now.Location()),
	)
	if err != nil {
		return nil, wrap(err, CodeClientContractList)
	}
	return toContractResponses(page), nil
}

func (s *ContractService) SumActiveByClient(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	sum, err := s.contracts.Sum(ctx, "cost", ofClient(clientID), active(s.today()))
	if err != nil {
		return decimal.Zero, wrap(err, CodeClientContractList)
	}
	return sum, nil
}

func (s *ContractService) find(ctx context.Context, contracts *store.Repository[insurance.Contract], id int64) (*insurance.Contract, error) {
	contract, err := contracts.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(CodeContractNotFound, err)
	}
	return contract, err
}

func findClient(ctx context.Context, clients *store.Repository[insurance.Client], id int64) (*insurance.Client, error) {
	client, err := clients.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(CodeClientNotFound, err)
	}
	return client, err
}

func (s *ContractService) Read(ctx context.Context, id int64) (*insurance.ContractResponse, error) {
	contract, err := s.find(ctx, s.contracts, id)
	if err != nil {
		return nil, wrap(err, CodeContractRead)
	}
	return insurance.NewContractResponse(contract), nil
}

// Add creates a contract. It starts today unless the request says otherwise.
func (s *ContractService) Add(ctx context.Context, req *insurance.ContractRequest) (*insurance.ContractResponse, error) {
	start := s.today()
	if req != nil && req.StartDate != nil {
		start = *req.StartDate
	}
	if err := ValidateContract(req, false, &start); err != nil {
		return nil, invalid(CodeContractValidation, err)
	}

	var contract *insurance.Contract
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		client, err := findClient(ctx, s.clients.WithTx(tx), *req.ClientID)
		if err != nil {
			return err
		}
		contract = &insurance.Contract{
			StartDate: start.Datatype(),
			EndDate:   insurance.DatatypePtr(req.EndDate),
			Cost:      *req.Cost,
			ClientID:  client.ID,
		}
		if req.UUID != nil {
			contract.UUID = *req.UUID
		}
		if err := s.contracts.WithTx(tx).Create(ctx, contract); err != nil {
			return err
		}
		contract.Client = client
		return nil
	})
	if err != nil {
		return nil, wrap(err, CodeContractCreate)
	}
	return insurance.NewContractResponse(contract), nil
}

// Update replaces the dates, the cost and the client of a contract. The start date
// is kept when absent.
func (s *ContractService) Update(ctx context.Context, id int64, req *insurance.ContractRequest) (*insurance.ContractResponse, error) {
	var contract *insurance.Contract
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		contract, err = s.find(ctx, s.contracts.WithTx(tx), id)
		if err != nil {
			return err
		}

		start := insurance.FromDatatype(contract.StartDate)
		if req != nil && req.StartDate != nil {
			start = *req.StartDate
		}
		if err := ValidateContract(req, true, &start); err != nil {
			return invalid(CodeContractValidation, err)
		}

		if *req.ClientID != contract.ClientID {
			client, err := findClient(ctx, s.clients.WithTx(tx), *req.ClientID)
			if err != nil {
				return err
			}
			contract.ClientID = client.ID
			contract.Client = client
		}
		contract.StartDate = start.Datatype()
		contract.EndDate = insurance.DatatypePtr(req.EndDate)
		contract.Cost = *req.Cost
		return s.contracts.WithTx(tx).Save(ctx, contract)
	})
	if err != nil {
		return nil, wrap(err, CodeContractUpdate)
	}
	return insurance.NewContractResponse(contract), nil
}

func (s *ContractService) Delete(ctx context.Context, id int64) (*insurance.ContractResponse, error) {
	var contract *insurance.Contract
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		contract, err = s.find(ctx, s.contracts.WithTx(tx), id)
		if err != nil {
			return err
		}
		return s.contracts.WithTx(tx).DeleteByID(ctx, contract.ID)
	})
	if err != nil {
		return nil, wrap(err, CodeContractDelete)
	}
	return insurance.NewContractResponse(contract), nil
}

// deleteByClient removes every contract of a client inside tx.
func (s *ContractService) deleteByClient(ctx context.Context, tx *gorm.DB, clientID int64) error {
	_, err := s.contracts.WithTx(tx).Delete(ctx, ofClient(clientID))
	return err
}

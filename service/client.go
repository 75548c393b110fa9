package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vaudoise/backoffice/insurance"
	"github.com/vaudoise/backoffice/paging"
	"github.com/vaudoise/backoffice/store"
)

// ClientBrowseFields are the fields a plain-text client search looks into.
var ClientBrowseFields = []string{"name", "email", "phone"}

type ClientService struct {
	db        *gorm.DB
	clients   *store.Repository[insurance.Client]
	contracts *ContractService
	now       func() time.Time
}

func NewClientService(db *gorm.DB, contracts *ContractService, opts ...Option) *ClientService {
	o := newOptions(opts)
	return &ClientService{
		db:        db,
		clients:   store.NewRepository[insurance.Client](db, o.repository...),
		contracts: contracts,
		now:       o.now,
	}
}

func (s *ClientService) today() insurance.Date {
	return insurance.DateOf(s.now())
}

func toClientResponses(page *paging.Page[*insurance.Client]) *paging.Page[*insurance.ClientResponse] {
	return paging.Map(page, insurance.NewClientResponse)
}

// Browse lists the clients matching query, ignoring case. A blank query lists every client.
func (s *ClientService) Browse(ctx context.Context, query string, req *paging.PageRequest) (*paging.Page[*insurance.ClientResponse], error) {
	page, err := s.clients.Browse(ctx, query, req,
		store.WithFields(ClientBrowseFields...),
		store.WithFold(),
	)
	if err != nil {
		return nil, wrap(err, CodeClientList)
	}
	return toClientResponses(page), nil
}

func (s *ClientService) ActiveContracts(ctx context.Context, clientID int64, filter ActivityFilter, req *paging.PageRequest) (*paging.Page[*insurance.ContractResponse], error) {
	client, err := findClient(ctx, s.clients, clientID)
	if err != nil {
		return nil, wrap(err, CodeClientContractList)
	}
	return s.contracts.ActiveByClient(ctx, client.ID, filter, req)
}

func (s *ClientService) SumOfActiveContracts(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	client, err := findClient(ctx, s.clients, clientID)
	if err != nil {
		return decimal.Zero, wrap(err, CodeClientContractList)
	}
	return s.contracts.SumActiveByClient(ctx, client.ID)
}

func (s *ClientService) Read(ctx context.Context, id int64) (*insurance.ClientResponse, error) {
	client, err := findClient(ctx, s.clients, id)
	if err != nil {
		return nil, wrap(err, CodeClientRead)
	}
	return insurance.NewClientResponse(client), nil
}

func emailTaken(email string, exceptID int64) store.Scope {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where(clause.Eq{Column: column("email"), Value: email})
		if exceptID != 0 {
			db = db.Where(clause.Neq{Column: column("id"), Value: exceptID})
		}
		return db
	}
}

func (s *ClientService) Add(ctx context.Context, req *insurance.ClientRequest) (*insurance.ClientResponse, error) {
	if err := ValidateClient(req, false, s.today()); err != nil {
		return nil, invalid(CodeClientValidation, err)
	}

	client := &insurance.Client{
		Type:  req.Type,
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if req.UUID != nil {
		client.UUID = *req.UUID
	}
	applyVariant(client, req)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clients := s.clients.WithTx(tx)
		taken, err := clients.Exists(ctx, emailTaken(req.Email, 0))
		if err != nil {
			return err
		}
		if taken {
			return invalid(CodeClientValidation, errors.Errorf("email %q is already used", req.Email))
		}
		return clients.Create(ctx, client)
	})
	if err != nil {
		return nil, wrap(err, CodeClientCreate)
	}
	return insurance.NewClientResponse(client), nil
}

// Update replaces the contact details of a client. The client type cannot change.
func (s *ClientService) Update(ctx context.Context, id int64, req *insurance.ClientRequest) (*insurance.ClientResponse, error) {
	if err := ValidateClient(req, true, s.today()); err != nil {
		return nil, invalid(CodeClientValidation, err)
	}

	var client *insurance.Client
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clients := s.clients.WithTx(tx)
		var err error
		client, err = findClient(ctx, clients, id)
		if err != nil {
			return err
		}
		if client.Type != req.Type {
			return invalid(CodeClientValidation, errors.Errorf("client %d is a %s, not a %s", id, client.Type, req.Type))
		}
		taken, err := clients.Exists(ctx, emailTaken(req.Email, client.ID))
		if err != nil {
			return err
		}
		if taken {
			return invalid(CodeClientValidation, errors.Errorf("email %q is already used", req.Email))
		}

		client.Name = req.Name
		client.Email = req.Email
		client.Phone = req.Phone
		applyVariant(client, req)
		return clients.Save(ctx, client)
	})
	if err != nil {
		return nil, wrap(err, CodeClientUpdate)
	}
	return insurance.NewClientResponse(client), nil
}

func applyVariant(client *insurance.Client, req *insurance.ClientRequest) {
	switch req.Type {
	case insurance.ClientTypePerson:
		client.BirthDate = insurance.DatatypePtr(req.BirthDate)
	case insurance.ClientTypeCompany:
		client.CompanyID = req.CompanyID
	}
}

// Delete removes a client together with its contracts.
func (s *ClientService) Delete(ctx context.Context, id int64) (*insurance.ClientResponse, error) {
	var client *insurance.Client
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clients := s.clients.WithTx(tx)
		var err error
		client, err = findClient(ctx, clients, id)
		if err != nil {
			return err
		}
		if err := s.contracts.deleteByClient(ctx, tx, client.ID); err != nil {
			return err
		}
		return clients.DeleteByID(ctx, client.ID)
	})
	if err != nil {
		return nil, wrap(err, CodeClientDelete)
	}
	return insurance.NewClientResponse(client), nil
}

package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/theplant/testenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vaudoise/backoffice/insurance"
	"github.com/vaudoise/backoffice/paging"
	"github.com/vaudoise/backoffice/service"
	"github.com/vaudoise/backoffice/store"
)

var db *gorm.DB

func TestMain(m *testing.M) {
	env, err := testenv.New().DBEnable(true).SetUp()
	if err != nil {
		panic(err)
	}
	defer env.TearDown()

	db = env.DB
	db.Logger = db.Logger.LogMode(logger.Info)

	m.Run()
}

func newServices(t *testing.T) (*service.ClientService, *service.ContractService) {
	t.Helper()
	require.NoError(t, db.Migrator().DropTable(&insurance.Contract{}, &insurance.Client{}))
	require.NoError(t, store.Migrate(db))

	clock := service.WithClock(func() time.Time {
		return time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	})
	contracts := service.NewContractService(db, clock)
	return service.NewClientService(db, contracts, clock), contracts
}

func requireCode(t *testing.T, err error, code service.Code, status int) {
	t.Helper()
	se, ok := service.AsError(err)
	require.True(t, ok, "%+v", err)
	require.Equal(t, code, se.Code)
	require.Equal(t, status, se.Status)
}

func TestClientService(t *testing.T) {
	ctx := context.Background()
	clients, _ := newServices(t)

	john, err := clients.Add(ctx, personRequest())
	require.NoError(t, err)
	require.NotZero(t, john.ID)
	require.NotEqual(t, uuid.Nil, john.UUID)
	require.Equal(t, "1980-01-01", john.BirthDate.String())

	acme, err := clients.Add(ctx, companyRequest())
	require.NoError(t, err)
	require.Equal(t, "CHE-100", *acme.CompanyID)

	t.Run("email must be unique", func(t *testing.T) {
		req := companyRequest()
		req.CompanyID = lo.ToPtr("CHE-200")
		_, err := clients.Add(ctx, req)
		requireCode(t, err, service.CodeClientValidation, http.StatusBadRequest)
	})

	t.Run("invalid request", func(t *testing.T) {
		req := personRequest()
		req.Email = "not-an-email"
		_, err := clients.Add(ctx, req)
		requireCode(t, err, service.CodeClientValidation, http.StatusBadRequest)
	})

	t.Run("read", func(t *testing.T) {
		got, err := clients.Read(ctx, acme.ID)
		require.NoError(t, err)
		require.Equal(t, acme.UUID, got.UUID)
		require.Equal(t, insurance.ClientTypeCompany, got.Type)

		_, err = clients.Read(ctx, 9999)
		requireCode(t, err, service.CodeClientNotFound, http.StatusBadRequest)
	})

	t.Run("browse", func(t *testing.T) {
		tests := []struct {
			query string
			want  []string
		}{
			{query: "", want: []string{"John Smith", "Acme"}},
			{query: "SMITH", want: []string{"John Smith"}},
			{query: "acme.ch", want: []string{"Acme"}},
			{query: "0210", want: []string{"Acme"}},
			{query: "CHE", want: []string{}},
			{query: "name:john*", want: []string{"John Smith"}},
		}
		for _, tt := range tests {
			t.Run(tt.query, func(t *testing.T) {
				page, err := clients.Browse(ctx, tt.query, &paging.PageRequest{})
				require.NoError(t, err)
				require.Equal(t, tt.want, lo.Map(page.Content, func(c *insurance.ClientResponse, _ int) string {
					return c.Name
				}))
			})
		}

		_, err := clients.Browse(ctx, "", &paging.PageRequest{OrderBy: []paging.Order{{Field: "nope"}}})
		requireCode(t, err, service.CodeClientList, http.StatusInternalServerError)
	})

	t.Run("update", func(t *testing.T) {
		req := personRequest()
		req.UUID = &john.UUID
		req.Phone = "+41799999999"
		updated, err := clients.Update(ctx, john.ID, req)
		require.NoError(t, err)
		require.Equal(t, "+41799999999", updated.Phone)

		req.Type = insurance.ClientTypeCompany
		req.CompanyID = lo.ToPtr("CHE-300")
		_, err = clients.Update(ctx, john.ID, req)
		requireCode(t, err, service.CodeClientValidation, http.StatusBadRequest)

		req = personRequest()
		req.UUID = &john.UUID
		req.Email = "info@acme.ch"
		_, err = clients.Update(ctx, john.ID, req)
		requireCode(t, err, service.CodeClientValidation, http.StatusBadRequest)

		req.Email = "john.smith@example.com"
		_, err = clients.Update(ctx, 9999, req)
		requireCode(t, err, service.CodeClientNotFound, http.StatusBadRequest)
	})
}

func TestContractService(t *testing.T) {
	ctx := context.Background()
	clients, contracts := newServices(t)

	john, err := clients.Add(ctx, personRequest())
	require.NoError(t, err)
	acme, err := clients.Add(ctx, companyRequest())
	require.NoError(t, err)

	add := func(clientID int64, cost string, end *insurance.Date) *insurance.ContractResponse {
		t.Helper()
		c, err := contracts.Add(ctx, &insurance.ContractRequest{
			ClientID:  &clientID,
			StartDate: lo.ToPtr(insurance.NewDate(2024, time.January, 1)),
			EndDate:   end,
			Cost:      lo.ToPtr(decimal.RequireFromString(cost)),
		})
		require.NoError(t, err)
		return c
	}

	open := add(john.ID, "100.00", nil)
	endsLater := add(john.ID, "50.25", lo.ToPtr(insurance.NewDate(2024, time.December, 31)))
	endsToday := add(john.ID, "999.99", lo.ToPtr(insurance.NewDate(2024, time.June, 1)))
	add(acme.ID, "10.00", nil)

	require.Equal(t, "John Smith", *open.ClientName)
	require.Equal(t, john.ID, *open.ClientID)

	t.Run("start date defaults to today", func(t *testing.T) {
		c, err := contracts.Add(ctx, &insurance.ContractRequest{
			ClientID: &acme.ID,
			Cost:     lo.ToPtr(decimal.NewFromInt(1)),
		})
		require.NoError(t, err)
		require.Equal(t, "2024-06-01", c.StartDate.String())
	})

	t.Run("add for unknown client", func(t *testing.T) {
		_, err := contracts.Add(ctx, &insurance.ContractRequest{
			ClientID: lo.ToPtr(int64(9999)),
			Cost:     lo.ToPtr(decimal.NewFromInt(1)),
		})
		requireCode(t, err, service.CodeClientNotFound, http.StatusBadRequest)
	})

	t.Run("add invalid", func(t *testing.T) {
		_, err := contracts.Add(ctx, &insurance.ContractRequest{ClientID: &john.ID})
		requireCode(t, err, service.CodeContractValidation, http.StatusBadRequest)
	})

	t.Run("active contracts", func(t *testing.T) {
		page, err := clients.ActiveContracts(ctx, john.ID, service.ActivityFilter{}, &paging.PageRequest{})
		require.NoError(t, err)
		require.Equal(t, []int64{open.ID, endsLater.ID}, lo.Map(page.Content, func(c *insurance.ContractResponse, _ int) int64 {
			return c.ID
		}))

		page, err = clients.ActiveContracts(ctx, john.ID, service.ActivityFilter{
			UpdatedAfter: lo.ToPtr(insurance.DateOf(time.Now().UTC().AddDate(0, 0, 1))),
		}, &paging.PageRequest{})
		require.NoError(t, err)
		require.Empty(t, page.Content)

		page, err = clients.ActiveContracts(ctx, john.ID, service.ActivityFilter{
			UpdatedAfter:  lo.ToPtr(insurance.DateOf(time.Now().UTC().AddDate(0, 0, -1))),
			UpdatedBefore: lo.ToPtr(insurance.DateOf(time.Now().UTC().AddDate(0, 0, 1))),
		}, &paging.PageRequest{})
		require.NoError(t, err)
		require.Len(t, page.Content, 2)

		_, err = clients.ActiveContracts(ctx, 9999, service.ActivityFilter{}, &paging.PageRequest{})
		requireCode(t, err, service.CodeClientNotFound, http.StatusBadRequest)
	})

	t.Run("sum of active contracts", func(t *testing.T) {
		sum, err := clients.SumOfActiveContracts(ctx, john.ID)
		require.NoError(t, err)
		require.Equal(t, "150.25", sum.String())

		_, err = clients.SumOfActiveContracts(ctx, 9999)
		requireCode(t, err, service.CodeClientNotFound, http.StatusBadRequest)
	})

	t.Run("browse", func(t *testing.T) {
		page, err := contracts.Browse(ctx, &john.ID, "", &paging.PageRequest{})
		require.NoError(t, err)
		require.Equal(t, 3, *page.TotalElements)

		page, err = contracts.Browse(ctx, nil, "", &paging.PageRequest{Size: 2})
		require.NoError(t, err)
		require.Equal(t, 5, *page.TotalElements)
		require.Len(t, page.Content, 2)

		page, err = contracts.Browse(ctx, nil, "endDate:2024*", &paging.PageRequest{})
		require.NoError(t, err)
		require.Len(t, page.Content, 2)
	})

	t.Run("update", func(t *testing.T) {
		updated, err := contracts.Update(ctx, endsToday.ID, &insurance.ContractRequest{
			UUID:     &endsToday.UUID,
			ClientID: &acme.ID,
			Cost:     lo.ToPtr(decimal.RequireFromString("20")),
		})
		require.NoError(t, err)
		require.Equal(t, "2024-01-01", updated.StartDate.String())
		require.Nil(t, updated.EndDate)
		require.Equal(t, "Acme", *updated.ClientName)

		_, err = contracts.Update(ctx, endsToday.ID, &insurance.ContractRequest{
			UUID:     &endsToday.UUID,
			ClientID: &acme.ID,
			EndDate:  lo.ToPtr(insurance.NewDate(2023, time.January, 1)),
			Cost:     lo.ToPtr(decimal.RequireFromString("20")),
		})
		requireCode(t, err, service.CodeContractValidation, http.StatusBadRequest)

		_, err = contracts.Update(ctx, endsToday.ID, &insurance.ContractRequest{
			UUID: &endsToday.UUID,
			Cost: lo.ToPtr(decimal.RequireFromString("20")),
		})
		requireCode(t, err, service.CodeContractValidation, http.StatusBadRequest)

		_, err = contracts.Update(ctx, 9999, &insurance.ContractRequest{
			UUID:     &endsToday.UUID,
			ClientID: &acme.ID,
			Cost:     lo.ToPtr(decimal.RequireFromString("20")),
		})
		requireCode(t, err, service.CodeContractNotFound, http.StatusBadRequest)
	})

	t.Run("read and delete", func(t *testing.T) {
		got, err := contracts.Read(ctx, endsLater.ID)
		require.NoError(t, err)
		require.Equal(t, "50.25", got.Cost.String())

		deleted, err := contracts.Delete(ctx, endsLater.ID)
		require.NoError(t, err)
		require.Equal(t, endsLater.ID, deleted.ID)

		_, err = contracts.Read(ctx, endsLater.ID)
		requireCode(t, err, service.CodeContractNotFound, http.StatusBadRequest)
		_, err = contracts.Delete(ctx, endsLater.ID)
		requireCode(t, err, service.CodeContractNotFound, http.StatusBadRequest)
	})

	t.Run("deleting a client removes its contracts", func(t *testing.T) {
		deleted, err := clients.Delete(ctx, john.ID)
		require.NoError(t, err)
		require.Equal(t, "John Smith", deleted.Name)

		_, err = contracts.Read(ctx, open.ID)
		requireCode(t, err, service.CodeContractNotFound, http.StatusBadRequest)

		_, err = clients.Delete(ctx, john.ID)
		requireCode(t, err, service.CodeClientNotFound, http.StatusBadRequest)
	})
}

package insurance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// costs are numbers on the wire
	decimal.MarshalJSONWithoutQuotes = true
}

type ClientRequest struct {
	Type      ClientType `json:"type"`
	UUID      *uuid.UUID `json:"uuid,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	BirthDate *Date      `json:"birthDate,omitempty"`
	CompanyID *string    `json:"companyId,omitempty"`
}

type ClientResponse struct {
	ID        int64      `json:"id"`
	UUID      uuid.UUID  `json:"uuid"`
	Type      ClientType `json:"type"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	BirthDate *Date      `json:"birthDate"`
	CompanyID *string    `json:"companyId"`
}

func NewClientResponse(c *Client) *ClientResponse {
	rsp := &ClientResponse{
		ID:    c.ID,
		UUID:  c.UUID,
		Type:  c.Type,
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
	}
	switch c.Type {
	case ClientTypePerson:
		rsp.BirthDate = FromDatatypePtr(c.BirthDate)
	case ClientTypeCompany:
		rsp.CompanyID = c.CompanyID
	}
	return rsp
}

type ContractRequest struct {
	UUID      *uuid.UUID       `json:"uuid,omitempty"`
	ClientID  *int64           `json:"clientId,omitempty"`
	StartDate *Date            `json:"startDate,omitempty"`
	EndDate   *Date            `json:"endDate,omitempty"`
	Cost      *decimal.Decimal `json:"cost,omitempty"`
}

type ContractResponse struct {
	ID         int64           `json:"id"`
	UUID       uuid.UUID       `json:"uuid"`
	StartDate  Date            `json:"startDate"`
	EndDate    *Date           `json:"endDate"`
	Cost       decimal.Decimal `json:"cost"`
	ClientID   *int64          `json:"clientId"`
	ClientName *string         `json:"clientName"`
}

func NewContractResponse(c *Contract) *ContractResponse {
	rsp := &ContractResponse{
		ID:        c.ID,
		UUID:      c.UUID,
		StartDate: FromDatatype(c.StartDate),
		EndDate:   FromDatatypePtr(c.EndDate),
		Cost:      c.Cost,
	}
	if c.ClientID != 0 {
		id := c.ClientID
		rsp.ClientID = &id
	}
	if c.Client != nil {
		name := c.Client.Name
		rsp.ClientName = &name
	}
	return rsp
}

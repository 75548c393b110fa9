package insurance

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SystemUser is recorded as author when no user is known.
const SystemUser = "SYS_ADMIN"

type ClientType string

const (
	ClientTypePerson  ClientType = "PERSON"
	ClientTypeCompany ClientType = "COMPANY"
)

func (t ClientType) Valid() bool {
	return t == ClientTypePerson || t == ClientTypeCompany
}

type Auditable struct {
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	ModifiedAt time.Time `gorm:"column:modified_at;autoUpdateTime;index"`
	CreatedBy  string    `gorm:"column:created_by;not null;default:SYS_ADMIN"`
	ModifiedBy string    `gorm:"column:modified_by;not null;default:SYS_ADMIN"`
}

type Person struct {
	BirthDate *datatypes.Date `gorm:"column:birth_date"`
}

type Company struct {
	CompanyID *string `gorm:"column:company_id;type:text;uniqueIndex"`
}

// Client is either a person or a company, told apart by Type. Both variants share
// one table; only the fields of the matching variant are set.
type Client struct {
	ID        int64      `gorm:"primaryKey"`
	UUID      uuid.UUID  `gorm:"column:uuid;uniqueIndex;not null"`
	Type      ClientType `gorm:"column:client_type;type:text;not null;index"`
	Name      string     `gorm:"type:text;not null"`
	Email     string     `gorm:"type:text;not null;uniqueIndex"`
	Phone     string     `gorm:"type:text;not null"`
	Person    `gorm:"embedded"`
	Company   `gorm:"embedded"`
	Auditable `gorm:"embedded"`
}

func (Client) TableName() string {
	return "vaudoise_clients"
}

func NewPerson(name, email, phone string, birthDate datatypes.Date) *Client {
	return &Client{
		UUID:   uuid.New(),
		Type:   ClientTypePerson,
		Name:   name,
		Email:  email,
		Phone:  phone,
		Person: Person{BirthDate: &birthDate},
	}
}

func NewCompany(name, email, phone, companyID string) *Client {
	return &Client{
		UUID:    uuid.New(),
		Type:    ClientTypeCompany,
		Name:    name,
		Email:   email,
		Phone:   phone,
		Company: Company{CompanyID: &companyID},
	}
}

func (c *Client) BeforeCreate(*gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	return nil
}

// BeforeSave clears the fields of the other variant.
func (c *Client) BeforeSave(*gorm.DB) error {
	if !c.Type.Valid() {
		return errors.Errorf("unknown client type %q", c.Type)
	}
	if c.Type == ClientTypePerson {
		c.Company = Company{}
	} else {
		c.Person = Person{}
	}
	return nil
}

var ErrEndBeforeStart = errors.New("end date must be after start date")

type Contract struct {
	ID        int64           `gorm:"primaryKey"`
	UUID      uuid.UUID       `gorm:"column:uuid;uniqueIndex;not null"`
	StartDate datatypes.Date  `gorm:"column:start_date;not null"`
	EndDate   *datatypes.Date `gorm:"column:end_date;index"`
	Cost      decimal.Decimal `gorm:"column:cost;type:numeric(15,2);not null"`
	ClientID  int64           `gorm:"column:client_id;not null;index"`
	Client    *Client         `gorm:"constraint:OnDelete:CASCADE"`
	Auditable `gorm:"embedded"`
}

func (Contract) TableName() string {
	return "vaudoise_contracts"
}

func (c *Contract) BeforeCreate(*gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	return nil
}

func (c *Contract) BeforeSave(*gorm.DB) error {
	return c.ValidateDates()
}

func (c *Contract) ValidateDates() error {
	if c.EndDate != nil && time.Time(*c.EndDate).Before(time.Time(c.StartDate)) {
		return ErrEndBeforeStart
	}
	return nil
}

package insurance

import "github.com/vaudoise/backoffice/search"

var (
	AuditableEntity = search.NewEntity("Auditable",
		search.Time("createdAt"),
		search.Time("modifiedAt"),
		search.String("createdBy"),
		search.String("modifiedBy"),
	)

	ClientEntity = AuditableEntity.Extend("Client",
		search.Int("id"),
		search.UUID("uuid"),
		search.Enum("clientType"),
		search.String("name"),
		search.String("email"),
		search.String("phone"),
		search.Date("birthDate"),
		search.String("companyId"),
	)

	ContractEntity = AuditableEntity.Extend("Contract",
		search.Int("id"),
		search.UUID("uuid"),
		search.Date("startDate"),
		search.Date("endDate"),
		search.Decimal("cost"),
		search.Int("clientId"),
	)
)

func init() {
	search.Register[Client](ClientEntity)
	search.Register[Contract](ContractEntity)
}

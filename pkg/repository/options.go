package repository

type OrderType string

const (
	OrderTypeAsc  OrderType = "ASC"
	OrderTypeDesc OrderType = "DESC"
)

// WhereType maps column to value. A slice value means "IN".
type WhereType map[string]interface{}
type SelectType []string
type Order map[string]OrderType

type FindOptions struct {
	Select SelectType
	Where  WhereType
	// WhereNot negates each entry: a slice value means "NOT IN".
	WhereNot WhereType
	Order    Order
	Limit    uint
	Offset   uint
}

func Select(fields ...string) SelectType {
	return fields
}

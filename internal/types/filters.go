package types

// Sort orders for list endpoints. Newest first unless the caller asks otherwise.
const (
	OrderCreatedDesc = "created_desc"
	OrderCreatedAsc  = "created_asc"
)

func ValidOrder(order string) bool {
	return order == "" || order == OrderCreatedDesc || order == OrderCreatedAsc
}

// ProjectFilter narrows project listings. Zero values impose no constraint.
type ProjectFilter struct {
	Search string
	Status string
	Order  string
}

// TaskFilter narrows task listings; all supplied predicates are ANDed.
type TaskFilter struct {
	Search     string
	Status     string
	Priority   string
	ProjectID  uint
	AssignedTo uint
	Order      string
}

package database

// TableNames holds the physical table names used by the repositories. They are resolved
// once from configuration and injected at construction.
type TableNames struct {
	Orders      string
	Skus        string
	Restocks    string
	Allocations string
	Outbox      string
}

// DefaultTableNames returns the table names created by the bundled migrations.
func DefaultTableNames() TableNames {
	return TableNames{
		Orders:      "orders",
		Skus:        "skus",
		Restocks:    "restocks",
		Allocations: "allocations",
		Outbox:      "outbox_events",
	}
}

package models

// Kind describes one record collection and which optional feed filters and
// fields apply to it. The feed engine is parameterized over this descriptor
// instead of duplicating the pipeline per collection.
type Kind struct {
	Name        string
	Collection  string
	HasParty    bool
	HasStatus   bool
	HasPayments bool
}

var (
	KindInventory = Kind{Name: "inventory", Collection: "inventory", HasParty: true}
	KindSales     = Kind{Name: "sales", Collection: "sales"}
	KindOrders    = Kind{Name: "orders", Collection: "orders", HasParty: true, HasStatus: true, HasPayments: true}
)

// Kinds lists every record collection served by the feed engine.
var Kinds = []Kind{KindInventory, KindSales, KindOrders}

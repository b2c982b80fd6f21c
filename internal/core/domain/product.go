package domain

import "time"

// Product is a catalog entry with an on-hand inventory count.
type Product struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	InventoryCount int       `json:"inventoryCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProductPatch carries a partial product update. Zero values mean "not
// provided": an empty string or a zero count leaves the stored value as is.
type ProductPatch struct {
	Title          string
	Description    string
	InventoryCount int
}

// Apply copies every non-zero field of p onto product and reports whether
// anything changed.
func (p ProductPatch) Apply(product *Product) bool {
	changed := false
	if p.Title != "" && p.Title != product.Title {
		product.Title = p.Title
		changed = true
	}
	if p.Description != "" && p.Description != product.Description {
		product.Description = p.Description
		changed = true
	}
	if p.InventoryCount != 0 && p.InventoryCount != product.InventoryCount {
		product.InventoryCount = p.InventoryCount
		changed = true
	}
	return changed
}

// ProductAction names a catalog mutation recorded in the audit trail.
type ProductAction string

const (
	ProductCreated ProductAction = "created"
	ProductUpdated ProductAction = "updated"
	ProductDeleted ProductAction = "deleted"
)

// ProductEvent is one entry of the product audit trail.
type ProductEvent struct {
	ID         string        `json:"id" bson:"_id"`
	ProductID  string        `json:"product_id" bson:"product_id"`
	Action     ProductAction `json:"action" bson:"action"`
	ActorID    string        `json:"actor_id" bson:"actor_id"`
	ActorRole  Role          `json:"actor_role" bson:"actor_role"`
	OccurredAt time.Time     `json:"occurred_at" bson:"occurred_at"`
}

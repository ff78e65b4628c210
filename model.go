package inkwell

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Model is the base struct embedded by every stored document.
// Keys are camelCase so that documents written by earlier versions of the
// application decode unchanged.
type Model struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time     `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"     json:"updatedAt"`
}

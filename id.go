package inkwell

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ParseID converts a hex string into an ObjectID. A malformed value is a caller
// error and is reported as KindInvalidID, never as not-found.
func ParseID(s string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return bson.NilObjectID, &Error{
			Kind:    KindInvalidID,
			Message: fmt.Sprintf("Invalid id %q", s),
			Err:     err,
		}
	}
	return id, nil
}

// ParseOptionalID is ParseID for optional references: the empty string yields nil.
func ParseOptionalID(s string) (*bson.ObjectID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := ParseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

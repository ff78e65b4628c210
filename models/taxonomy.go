package models

import "github.com/dwoolworth/inkwell"

// Term is the body shared by categories and tags. PostCount is advisory and is
// only brought up to date by the recount maintenance command.
type Term struct {
	inkwell.Model `bson:",inline"`
	Name          string `bson:"name"                  json:"name"                  store:"required,index,max=50"`
	Slug          string `bson:"slug"                  json:"slug"                  store:"required,unique"`
	Description   string `bson:"description,omitempty" json:"description,omitempty"`
	PostCount     int    `bson:"postCount"             json:"postCount"             store:"min=0"`
}

// Body returns the shared term fields of a Category or Tag.
func (t *Term) Body() *Term { return t }

// Category groups articles; articles reference it by id.
type Category struct {
	Term `bson:",inline"`
}

// Tag labels articles; articles reference it by name.
type Tag struct {
	Term `bson:",inline"`
}

func init() {
	inkwell.MustRegister(&Category{}, "categories")
	inkwell.MustRegister(&Tag{}, "tags")
}

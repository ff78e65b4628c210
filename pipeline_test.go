package inkwell

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestPipeline_Chaining(t *testing.T) {
	p := NewPipeline(&testNote{}).
		Match(bson.D{{Key: "status", Value: "published"}}).
		Group(bson.D{
			{Key: "_id", Value: "$authorId"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}).
		Sort(bson.D{{Key: "count", Value: -1}}).
		Skip(5).
		Limit(10)

	stages := p.Stages()
	if len(stages) != 5 {
		t.Fatalf("expected 5 stages, got %d", len(stages))
	}

	expectedKeys := []string{"$match", "$group", "$sort", "$skip", "$limit"}
	for i, key := range expectedKeys {
		if stages[i][0].Key != key {
			t.Errorf("stage %d: expected %s, got %s", i, key, stages[i][0].Key)
		}
	}
	if stages[4][0].Value != int64(10) {
		t.Fatalf("expected limit 10, got %v", stages[4][0].Value)
	}
}

func TestPipeline_Unwind(t *testing.T) {
	stages := NewPipeline(&testNote{}).Unwind("tags").Stages()
	if len(stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(stages))
	}
	if stages[0][0].Key != "$unwind" {
		t.Fatalf("expected $unwind, got %s", stages[0][0].Key)
	}
	if stages[0][0].Value != "$tags" {
		t.Fatalf("expected $tags, got %v", stages[0][0].Value)
	}
}

func TestPipeline_Lookup(t *testing.T) {
	stages := NewPipeline(&testNote{}).
		Lookup("test_authors", "authorId", "_id", "author").
		Stages()

	if stages[0][0].Key != "$lookup" {
		t.Fatalf("expected $lookup, got %s", stages[0][0].Key)
	}
	doc := stages[0][0].Value.(bson.D)
	if len(doc) != 4 {
		t.Fatalf("expected 4 lookup fields, got %d", len(doc))
	}
	if doc[0].Value != "test_authors" || doc[3].Value != "author" {
		t.Fatalf("unexpected lookup: %v", doc)
	}
}

func TestPipeline_Join(t *testing.T) {
	stages := NewPipeline(&testNote{}).Join("test_authors", "authorId", "author").Stages()
	if len(stages) != 2 {
		t.Fatalf("expected lookup and unwind, got %d stages", len(stages))
	}
	if stages[0][0].Key != "$lookup" || stages[1][0].Key != "$unwind" {
		t.Fatalf("unexpected stages: %v", stages)
	}
	doc := stages[0][0].Value.(bson.D)
	if doc[2].Value != "_id" {
		t.Fatalf("expected join on _id, got %v", doc[2].Value)
	}
	if stages[1][0].Value != "$author" {
		t.Fatalf("expected $author, got %v", stages[1][0].Value)
	}
}

func TestPipeline_LookupPipeline(t *testing.T) {
	sub := NewPipeline(nil).
		Match(bson.D{{Key: "$expr", Value: bson.D{{Key: "$eq", Value: bson.A{"$noteId", "$$id"}}}}}).
		Sort(bson.D{{Key: "createdAt", Value: -1}})

	stages := NewPipeline(&testNote{}).
		LookupPipeline("test_comments", bson.D{{Key: "id", Value: "$_id"}}, sub, "comments").
		Stages()

	doc := stages[0][0].Value.(bson.D)
	keys := []string{"from", "let", "pipeline", "as"}
	for i, k := range keys {
		if doc[i].Key != k {
			t.Fatalf("lookup field %d: expected %s, got %s", i, k, doc[i].Key)
		}
	}
	inner, ok := doc[2].Value.([]bson.D)
	if !ok || len(inner) != 2 {
		t.Fatalf("expected 2 sub-pipeline stages, got %v", doc[2].Value)
	}
}

func TestPipeline_AddFieldsProjectCount(t *testing.T) {
	stages := NewPipeline(&testNote{}).
		AddFields(bson.D{{Key: "commentCount", Value: bson.D{{Key: "$size", Value: "$comments"}}}}).
		Project(bson.D{{Key: "comments", Value: 0}}).
		Count("total").
		Stages()

	expectedKeys := []string{"$addFields", "$project", "$count"}
	for i, key := range expectedKeys {
		if stages[i][0].Key != key {
			t.Errorf("stage %d: expected %s, got %s", i, key, stages[i][0].Key)
		}
	}
	if stages[2][0].Value != "total" {
		t.Fatalf("expected 'total', got %v", stages[2][0].Value)
	}
}

func TestPipeline_RawStage(t *testing.T) {
	stages := NewPipeline(&testNote{}).
		Stage(bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: 5}}}}).
		Stages()
	if stages[0][0].Key != "$sample" {
		t.Fatalf("expected $sample, got %s", stages[0][0].Key)
	}
}

func TestPipeline_Empty(t *testing.T) {
	if stages := NewPipeline(&testNote{}).Stages(); stages != nil {
		t.Fatalf("expected nil stages for empty pipeline, got %v", stages)
	}
}

func TestPipeline_ExecuteRejectsNonSlice(t *testing.T) {
	var one testNote
	err := NewPipeline(&testNote{}).Execute(context.Background(), &one)
	if err == nil {
		t.Fatal("expected error for non-slice results")
	}
}

func TestPipeline_ExecuteUnavailable(t *testing.T) {
	registerTestModels()
	defer unregisterTestModels()

	var s *Store
	var notes []testNote
	err := s.Pipeline(&testNote{}).Execute(context.Background(), &notes)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err.Error() != "Failed to connect to test_notes collection" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestPipeline_Integration(t *testing.T) {
	ctx, s, cleanup := setupTestStore(t)
	defer cleanup()

	authorID, err := s.Insert(ctx, &testAuthor{Email: "ada@test.com", Name: "Ada"})
	if err != nil {
		t.Fatalf("insert author: %v", err)
	}
	for _, title := range []string{"First", "Second", "Third"} {
		if _, err := s.Insert(ctx, &testNote{Title: title, AuthorID: authorID}); err != nil {
			t.Fatalf("insert note: %v", err)
		}
	}
	// Dangling author: dropped by the inner join.
	if _, err := s.Insert(ctx, &testNote{Title: "Orphan", AuthorID: bson.NewObjectID()}); err != nil {
		t.Fatalf("insert orphan: %v", err)
	}

	type noteView struct {
		Title  string     `bson:"title"`
		Author testAuthor `bson:"author"`
	}
	var views []noteView
	err = s.Pipeline(&testNote{}).
		Join("test_authors", "authorId", "author").
		Sort(bson.D{{Key: "title", Value: 1}}).
		Execute(ctx, &views)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 joined notes, got %d", len(views))
	}
	if views[0].Title != "First" || views[0].Author.Name != "Ada" {
		t.Fatalf("unexpected first view: %+v", views[0])
	}

	var none []noteView
	if err := s.Pipeline(&testNote{}).Match(bson.D{{Key: "title", Value: "missing"}}).Execute(ctx, &none); err != nil {
		t.Fatalf("execute empty: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", none)
	}

	var first noteView
	found, err := s.Pipeline(&testNote{}).Join("test_authors", "authorId", "author").First(ctx, &first)
	if err != nil || !found {
		t.Fatalf("first: found=%v err=%v", found, err)
	}
	found, err = s.Pipeline(&testNote{}).Match(bson.D{{Key: "title", Value: "missing"}}).First(ctx, &first)
	if err != nil || found {
		t.Fatalf("first on empty: found=%v err=%v", found, err)
	}
}

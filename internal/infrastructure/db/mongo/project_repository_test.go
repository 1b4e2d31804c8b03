package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSearchFilter_ScopesToOwnerAndEscapesTerm(t *testing.T) {
	f := searchFilter("owner-a", "a.b(c)")

	if f["owner_id"] != "owner-a" {
		t.Fatalf("expected owner filter, got %v", f["owner_id"])
	}
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != len(searchFields) {
		t.Fatalf("expected %d alternatives, got %v", len(searchFields), f["$or"])
	}
	for i, alt := range or {
		m := alt.(bson.M)
		re, ok := m[searchFields[i]].(primitive.Regex)
		if !ok {
			t.Fatalf("expected regex on %s, got %v", searchFields[i], m)
		}
		if re.Pattern != `a\.b\(c\)` || re.Options != "i" {
			t.Fatalf("unexpected regex %+v", re)
		}
	}
}

func TestOwnedFilter(t *testing.T) {
	f := ownedFilter("id-1", "owner-a")
	if f["_id"] != "id-1" || f["owner_id"] != "owner-a" || len(f) != 2 {
		t.Fatalf("unexpected filter %v", f)
	}
}

package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/99minutos/auth-service/internal/core/domain"
)

func TestUserDocument_BSONShape(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	user := &domain.User{
		ID:           "6f1c",
		Username:     "alice",
		PasswordHash: "$2a$10$hash",
		Role:         domain.RoleAdmin,
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	raw, err := bson.Marshal(toDocument(user))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["_id"] != "6f1c" || m["username"] != "alice" || m["role"] != "admin" || m["password_hash"] != "$2a$10$hash" {
		t.Fatalf("unexpected document: %+v", m)
	}
	if _, ok := m["PasswordHash"]; ok {
		t.Fatalf("fields must use snake_case bson names")
	}
}

func TestUserDocument_ToDomain(t *testing.T) {
	doc := userDocument{ID: "1", Username: "bob", Role: "super_admin", CreatedAt: time.Unix(10, 0)}

	u := doc.toDomain()
	if u.Role != domain.RoleSuperAdmin {
		t.Fatalf("unexpected role: %s", u.Role)
	}
	if u.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamps")
	}
}

package mongo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/99minutos/inventory-system/internal/core/domain"
)

func TestToMongoUser_DefaultsRoleAndNullToken(t *testing.T) {
	doc := toMongoUser(&domain.User{Username: "al", Email: "a@b.com"})

	if doc.Role != string(domain.RoleStaff) {
		t.Fatalf("expected default role staff, got %s", doc.Role)
	}
	if doc.Token != nil {
		t.Fatalf("expected nil token for empty string")
	}
}

func TestMongoUser_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	in := &domain.User{
		Username:     "al",
		Email:        "a@b.com",
		PasswordHash: "hash",
		Role:         domain.RoleAdmin,
		Token:        "T1",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	doc := toMongoUser(in)
	doc.ID = primitive.NewObjectID()
	out := doc.toDomain()

	if out.ID != doc.ID.Hex() || out.Token != "T1" || out.Role != domain.RoleAdmin || out.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", out)
	}
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	ctx := context.Background()
	users := &UserRepository{}
	products := &ProductRepository{}

	if _, err := users.FindByID(ctx, "not-an-object-id"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := users.FindByToken(ctx, ""); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound for empty token, got %v", err)
	}
	if _, err := users.Save(ctx, &domain.User{ID: "nope"}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound on save, got %v", err)
	}
	if err := users.Delete(ctx, "nope"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound on delete, got %v", err)
	}
	if _, err := products.FindByID(ctx, "42"); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := products.Update(ctx, &domain.Product{ID: "42"}); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound on update, got %v", err)
	}
	if err := products.Delete(ctx, "42"); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound on delete, got %v", err)
	}
}

func TestClientOptions(t *testing.T) {
	opts := clientOptions(Config{URI: "mongodb://localhost:27017", Database: "inventory", AppName: "inventory-api"})

	if opts.AppName == nil || *opts.AppName != "inventory-api" {
		t.Fatalf("expected app name inventory-api, got %v", opts.AppName)
	}
	if opts.MaxPoolSize == nil || *opts.MaxPoolSize != defaultMaxPoolSize {
		t.Fatalf("expected default pool size %d, got %v", defaultMaxPoolSize, opts.MaxPoolSize)
	}
	if opts.ServerSelectionTimeout == nil || *opts.ServerSelectionTimeout != defaultTimeout {
		t.Fatalf("expected server selection timeout %s, got %v", defaultTimeout, opts.ServerSelectionTimeout)
	}

	opts = clientOptions(Config{URI: "mongodb://localhost:27017", MaxPoolSize: 5, Timeout: time.Second})
	if *opts.MaxPoolSize != 5 || *opts.ServerSelectionTimeout != time.Second {
		t.Fatalf("overrides not applied: pool=%d timeout=%s", *opts.MaxPoolSize, *opts.ServerSelectionTimeout)
	}
	if opts.AppName != nil {
		t.Fatalf("expected no app name, got %q", *opts.AppName)
	}
}

func TestConnect_RequiresDatabaseName(t *testing.T) {
	if _, _, err := Connect(context.Background(), Config{URI: "mongodb://localhost:27017"}); err == nil {
		t.Fatal("expected an error for an empty database name")
	}
}

package schema

import (
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"ID":         "id",
		"UserID":     "user_id",
		"blogPostId": "blog_post_id",
		"HTTPServer": "http_server",
		"already_ok": "already_ok",
		"Version2Go": "version2_go",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ToSnakeCase(in))
		})
	}
}

func TestReferenceTable(t *testing.T) {
	tests := map[string]string{
		"user_id":    "users",
		"blogPostId": "blog_posts",
		"category":   "categories",
		"owner_uuid": "owners",
		"person_id":  "people",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ReferenceTable(in))
		})
	}
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "blog_posts", Pluralize("blog_post"))
	assert.Equal(t, "Users", Pluralize("User"))
	assert.Equal(t, "order_items", Pluralize(ToSnakeCase("OrderItem")))
}

func TestConstraintNames(t *testing.T) {
	assert.Equal(t, "fk_posts_user_id", ForeignKeyName("posts", "user_id"))
	assert.Equal(t, "uq_users_email_tenant", UniqueName("users", "email", "tenant"))
}

func TestGenerators(t *testing.T) {
	v, err := GenerateID("uuid")
	require.NoError(t, err)
	assert.IsType(t, uuid.UUID{}, v)

	first, err := GenerateID("ulid")
	require.NoError(t, err)
	second, err := GenerateID("ulid")
	require.NoError(t, err)
	assert.Equal(t, -1, first.(ulid.ULID).Compare(second.(ulid.ULID)), "ulids are monotonic")

	_, err = GenerateID("snowflake")
	assert.Error(t, err)

	RegisterGenerator("fixed", fixedGenerator{})
	v, err = GenerateID("fixed")
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}

type fixedGenerator struct{}

func (fixedGenerator) Generate() (any, error) { return "x", nil }
func (fixedGenerator) Type() string           { return "fixed" }

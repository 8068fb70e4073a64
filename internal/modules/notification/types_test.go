package notification

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short title", excerpt("short title"))

	long := strings.Repeat("a", 40)
	assert.Equal(t, strings.Repeat("a", 30)+"...", excerpt(long))

	// Exactly at the limit stays untouched.
	exact := strings.Repeat("b", 30)
	assert.Equal(t, exact, excerpt(exact))
}

func TestOwnedFilterExcludesSoftDeleted(t *testing.T) {
	id := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	filter := ownedFilter(id, userID)
	assert.Equal(t, id, filter["_id"])
	assert.Equal(t, userID, filter["recipient"])

	// Soft-deleted notifications must stay unreachable for reads and writes,
	// matching the List path.
	deletedAt, ok := filter["deletedAt"]
	assert.True(t, ok)
	assert.Nil(t, deletedAt)
}

func TestExcerptKeepsValidUTF8(t *testing.T) {
	multibyte := strings.Repeat("é", 40)
	got := excerpt(multibyte)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 30)+"...", got)

	cjk := strings.Repeat("社", 31)
	got = excerpt(cjk)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("社", 30)+"...", got)
}

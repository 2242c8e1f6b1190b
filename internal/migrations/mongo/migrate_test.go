package mongo

import (
	"testing"

	bookingsrepo "toolrent/internal/bookings/repository"
	"toolrent/internal/migrations/mongo/validators"
	toolsrepo "toolrent/internal/tools/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCollectionsMatchRepositories(t *testing.T) {
	names := map[string]bool{}
	for _, def := range Collections() {
		names[def.Name] = true
		assert.Contains(t, def.Validator, "$jsonSchema", def.Name)
	}

	assert.True(t, names[toolsrepo.CollectionName])
	assert.True(t, names[bookingsrepo.CollectionName])
	assert.True(t, names[bookingsrepo.LockCollectionName])
	assert.True(t, names[bookingsrepo.SequenceCollectionName])
}

func TestLockValidatorRequiresOwner(t *testing.T) {
	schema := validators.BookingLockValidator["$jsonSchema"].(bson.M)

	assert.Contains(t, schema["required"], "owner")
}

func TestBookingLocksHaveTTLIndex(t *testing.T) {
	idx := BookingLocksIndexes[0]

	assert.Equal(t, bson.D{{Key: "expires_at", Value: 1}}, idx.Keys)
	require.NotNil(t, idx.Options)
	require.NotNil(t, idx.Options.ExpireAfterSeconds)
	assert.Equal(t, int32(0), *idx.Options.ExpireAfterSeconds)
}

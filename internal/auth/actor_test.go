package auth

import (
	"testing"

	"pazaryeri-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestActorCanAccessFranchise(t *testing.T) {
	fid := uint(3)

	super := Actor{UserID: 1, Role: models.RoleSuperAdmin}
	assert.True(t, super.CanAccessFranchise(3))
	assert.True(t, super.CanAccessFranchise(99))

	franchiseAdmin := Actor{UserID: 2, Role: models.RoleFranchiseAdmin, FranchiseID: &fid}
	assert.True(t, franchiseAdmin.CanAccessFranchise(3))
	assert.False(t, franchiseAdmin.CanAccessFranchise(4))

	// Bayisi atanmamış admin hiçbir bayiye erişemez
	unassigned := Actor{UserID: 3, Role: models.RoleFranchiseAdmin}
	assert.False(t, unassigned.CanAccessFranchise(3))
}

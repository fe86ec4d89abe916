package authorization

import (
	"context"
	"market-api/lookups"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Functions to check market permissions
// without dependencies to a full user model

// Credentials carries the viewer information every handler and sanitizer
// needs to decide what a user may see or do
type Credentials struct {
	UserID     primitive.ObjectID `bson:"-"`
	LoginName  string             `bson:"loginName"`
	RoleCode   int32              `bson:"roleCD"`
	Hellbanned bool               `bson:"hellbanned"` // the viewer themself is shadow-banned
	userCol    *mongo.Collection
}

// SetConnections is called in Env Model Initialization
func (c *Credentials) SetConnections(userCollection *mongo.Collection) {
	c.userCol = userCollection
}

// GetCredentials returns account infos to control permissions
// any error is treated as an anonymous visitor
func (c *Credentials) GetCredentials(userOID primitive.ObjectID) *Credentials {
	var credentials Credentials

	fields := bson.D{
		{Key: "_id", Value: 0},
		{Key: "loginName", Value: 1},
		{Key: "roleCD", Value: 1},
		{Key: "hellbanned", Value: 1},
	}

	opts := options.FindOne().SetProjection(fields)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := c.userCol.FindOne(ctx, bson.M{"_id": userOID}, opts).Decode(&credentials)
	if err != nil {
		setDefaultProfile(&credentials)
	}
	credentials.UserID = userOID // not read again from DB

	return &credentials
}

// Anonymous returns the default (guest) credentials
func Anonymous() *Credentials {
	var credentials Credentials
	setDefaultProfile(&credentials)
	return &credentials
}

// used as the error handler of GetCredentials - any error there leads to
// the default profile of an anonymous visitor
func setDefaultProfile(credentials *Credentials) {
	credentials.UserID = primitive.NilObjectID
	credentials.RoleCode = lookups.UserRoleGuest
}

// CanSeeHellbanned reports whether the viewer sees shadow-banned
// content in its real state
func (c *Credentials) CanSeeHellbanned() bool {
	if c == nil {
		return false
	}
	return c.RoleCode >= lookups.UserRoleModerator
}

// CanSeeHistory reports whether edit counters and edit timestamps
// are exposed to the viewer
func (c *Credentials) CanSeeHistory() bool {
	if c == nil {
		return false
	}
	return c.RoleCode >= lookups.UserRoleModerator
}

// CanModerate reports whether the viewer may act on other users' items
func (c *Credentials) CanModerate() bool {
	if c == nil {
		return false
	}
	return c.RoleCode >= lookups.UserRoleModerator
}

// IsAdmin guards the section-management routes
func (c *Credentials) IsAdmin() bool {
	if c == nil {
		return false
	}
	return c.RoleCode >= lookups.UserRoleAdmin
}

// IsOwner reports whether the viewer created the given document
func (c *Credentials) IsOwner(userOID primitive.ObjectID) bool {
	if c == nil {
		return false
	}
	return c.UserID != primitive.NilObjectID && c.UserID == userOID
}

package auth

import "github.com/gin-gonic/gin"

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   int64
	Role Role
}

func (a Actor) IsAdmin() bool    { return a.Role == RoleAdmin }
func (a Actor) IsLandlord() bool { return a.Role == RoleLandlord }
func (a Actor) IsTenant() bool   { return a.Role == RoleTenant }

// Anonymous is the caller of public endpoints.
var Anonymous = Actor{}

// ActorFrom reads the caller placed in the context by the auth middleware.
func ActorFrom(c *gin.Context) Actor {
	return Actor{
		ID:   c.GetInt64("user_id"),
		Role: Role(c.GetString("role")),
	}
}

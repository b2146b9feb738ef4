package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const authContextKey = "authContext"

// AuthContext identifies the signed-in user for the current request.
type AuthContext struct {
	UserID   uuid.UUID
	Username string
	Email    string
}

// SessionGuard loads the session identity into the request context and
// redirects anonymous visitors to the login page. Meant for browsing routes
// where a redirect is the friendly answer.
func SessionGuard(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth, ok, err := loadIdentity(store, c)
		if err != nil {
			return err
		}
		if !ok {
			return c.Redirect("/login")
		}
		c.Locals(authContextKey, auth)
		return c.Next()
	}
}

// SessionRequired behaves like SessionGuard but answers 401 instead of
// redirecting, for form posts where a silent redirect would hide the problem.
func SessionRequired(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth, ok, err := loadIdentity(store, c)
		if err != nil {
			return err
		}
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		c.Locals(authContextKey, auth)
		return c.Next()
	}
}

// CurrentUser extracts the authenticated identity placed by the guards.
func CurrentUser(c *fiber.Ctx) (AuthContext, bool) {
	value := c.Locals(authContextKey)
	if value == nil {
		return AuthContext{}, false
	}

	if auth, ok := value.(AuthContext); ok {
		return auth, true
	}

	return AuthContext{}, false
}

func loadIdentity(store *session.Store, c *fiber.Ctx) (AuthContext, bool, error) {
	sess, err := store.Get(c)
	if err != nil {
		return AuthContext{}, false, err
	}

	id, _ := sess.Get("user_id").(string)
	if id == "" {
		return AuthContext{}, false, nil
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return AuthContext{}, false, nil
	}

	username, _ := sess.Get("username").(string)
	email, _ := sess.Get("email").(string)

	return AuthContext{UserID: userID, Username: username, Email: email}, true, nil
}

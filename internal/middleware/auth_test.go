package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newGuardedApp(store *session.Store, userID uuid.UUID) *fiber.App {
	app := fiber.New()

	app.Get("/login-as", func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		sess.Set("user_id", userID.String())
		sess.Set("username", "testuser")
		sess.Set("email", "test@example.com")
		return sess.Save()
	})

	app.Get("/private", SessionGuard(store), func(c *fiber.Ctx) error {
		auth, ok := CurrentUser(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(auth.Username)
	})

	app.Post("/mutate", SessionRequired(store), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return app
}

func signIn(t *testing.T, app *fiber.App) *http.Cookie {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/login-as", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func TestSessionGuardRedirectsAnonymous(t *testing.T) {
	app := newGuardedApp(session.New(), uuid.New())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/private", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSessionGuardPassesAuthenticated(t *testing.T) {
	app := newGuardedApp(session.New(), uuid.New())
	cookie := signIn(t, app)

	req := httptest.NewRequest(fiber.MethodGet, "/private", nil)
	req.AddCookie(cookie)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSessionRequiredDeniesAnonymous(t *testing.T) {
	app := newGuardedApp(session.New(), uuid.New())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/mutate", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSessionRequiredPassesAuthenticated(t *testing.T) {
	app := newGuardedApp(session.New(), uuid.New())
	cookie := signIn(t, app)

	req := httptest.NewRequest(fiber.MethodPost, "/mutate", nil)
	req.AddCookie(cookie)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCurrentUserCarriesIdentity(t *testing.T) {
	userID := uuid.New()
	store := session.New()
	app := fiber.New()

	app.Get("/login-as", func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		sess.Set("user_id", userID.String())
		sess.Set("username", "gopher")
		sess.Set("email", "gopher@example.com")
		return sess.Save()
	})

	var got AuthContext
	app.Get("/whoami", SessionGuard(store), func(c *fiber.Ctx) error {
		got, _ = CurrentUser(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/login-as", nil))
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.AddCookie(resp.Cookies()[0])

	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, AuthContext{UserID: userID, Username: "gopher", Email: "gopher@example.com"}, got)
}

func TestCurrentUserAbsentWithoutGuard(t *testing.T) {
	app := fiber.New()

	var ok bool
	app.Get("/open", func(c *fiber.Ctx) error {
		_, ok = CurrentUser(c)
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/open", nil))
	require.NoError(t, err)
	require.False(t, ok)
}

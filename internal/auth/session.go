package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	// LoginPath is where unauthenticated requests are sent.
	LoginPath = "/login"

	sessionKeyLoggedIn = "logged_in"
)

// IsAuthenticated reports whether the session carries the logged-in flag.
// Read-only: never mutates the session.
func IsAuthenticated(sess *session.Session) bool {
	v, ok := sess.Get(sessionKeyLoggedIn).(bool)
	return ok && v
}

// SetAuthenticated marks the session as logged in and persists it.
func SetAuthenticated(sess *session.Session) error {
	sess.Set(sessionKeyLoggedIn, true)
	return sess.Save()
}

// ClearAuthenticated removes the logged-in flag and persists the session.
func ClearAuthenticated(sess *session.Session) error {
	sess.Delete(sessionKeyLoggedIn)
	return sess.Save()
}

// RequireAuth gates protected routes. An unauthenticated request is not an
// error: it is redirected to the login view.
func RequireAuth(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Redirect(LoginPath, fiber.StatusFound)
		}
		if !IsAuthenticated(sess) {
			return c.Redirect(LoginPath, fiber.StatusFound)
		}
		return c.Next()
	}
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/utils"
)

// AuthHandler bundles dependencies for registration, login and profile pages.
type AuthHandler struct {
	db      *gorm.DB
	catalog *catalog.Catalog
	store   *session.Store
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cat *catalog.Catalog, store *session.Store) *AuthHandler {
	return &AuthHandler{db: db, catalog: cat, store: store}
}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(c *fiber.Ctx) error {
	return c.Render("register", withSiteData(h.catalog, fiber.Map{}))
}

// Register creates a new user account and sends the visitor to the login page.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	username := c.FormValue("username")
	email := c.FormValue("email")
	phone := c.FormValue("phone")
	password := c.FormValue("password")

	if username == "" || email == "" || password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing required fields")
	}

	var existing models.User
	if err := h.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "User already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	return c.Redirect("/login")
}

// ShowLogin renders the login form, or bounces an already signed-in visitor
// to the profile page.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return err
	}
	if id, _ := sess.Get("user_id").(string); id != "" {
		return c.Redirect("/profile")
	}
	return c.Render("login", withSiteData(h.catalog, fiber.Map{}))
}

// Login authenticates by email and establishes the session identity. A miss
// on either the lookup or the hash comparison yields the same answer.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	password := c.FormValue("password")

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set("user_id", user.ID.String())
	sess.Set("username", user.Username)
	sess.Set("email", user.Email)
	if err := sess.Save(); err != nil {
		return err
	}

	return c.Redirect("/")
}

// Logout destroys the session and returns to the home page.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Destroy(); err != nil {
		return err
	}
	return c.Redirect("/")
}

// Profile renders the signed-in user's account page.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", auth.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	return c.Render("profile", withSiteData(h.catalog, fiber.Map{
		"user": user,
	}))
}

package controller

import (
	"time"

	"notehub-be/internal/config"
	"notehub-be/internal/dto"
	"notehub-be/internal/pkg/serverutils"
	"notehub-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
}

type authController struct {
	service   service.IAuthService
	cfg       *config.Config
	authGuard fiber.Handler
}

func NewAuthController(service service.IAuthService, cfg *config.Config, authGuard fiber.Handler) IAuthController {
	return &authController{service: service, cfg: cfg, authGuard: authGuard}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Get("/logout", c.authGuard, c.Logout)
	h.Get("/me", c.authGuard, c.Me)
}

// setTokenCookie writes the session cookie: HTTP-only, SameSite=Lax, secure
// outside development.
func (c *authController) setTokenCookie(ctx *fiber.Ctx, token string, expires time.Time) {
	ctx.Cookie(&fiber.Cookie{
		Name:     serverutils.CookieName,
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   c.cfg.App.Environment == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.Context(), &req)
	if err != nil {
		return err
	}

	expires := time.Now().Add(time.Duration(c.cfg.JWT.CookieExpireDays) * 24 * time.Hour)
	c.setTokenCookie(ctx, res.Token, expires)

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("User registered successfully", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.Context(), &req)
	if err != nil {
		return err
	}

	expires := time.Now().Add(time.Duration(c.cfg.JWT.CookieExpireDays) * 24 * time.Hour)
	c.setTokenCookie(ctx, res.Token, expires)

	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

// Logout overwrites the client-held cookie with a throwaway value. Tokens are
// stateless, so there is nothing to revoke server-side.
func (c *authController) Logout(ctx *fiber.Ctx) error {
	c.setTokenCookie(ctx, "none", time.Now().Add(10*time.Second))

	return ctx.JSON(serverutils.SuccessResponse[any]("User logged out successfully", nil))
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.Me(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/utils/middleware"
	"github.com/sahilchouksey/secure-notes-api/utils/response"
)

// Logout revokes the current access token by blacklisting its JTI. The token
// stays blacklisted until its natural expiry, after which the row is pruned.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	jti, ok := middleware.GetTokenJTI(c)
	if !ok || jti == "" {
		return response.Unauthorized(c, "Invalid token")
	}

	expiresAt := claims.ExpiresAt.Time
	if err := h.blacklistService.RevokeToken(c.Context(), jti, claims.UserID, expiresAt, "logout"); err != nil {
		return response.InternalServerError(c, "Failed to log out")
	}

	return response.SuccessWithMessage(c, "Logged out successfully", nil)
}

// LogoutAll invalidates every outstanding token for the current user by
// bumping their token version
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	if err := h.blacklistService.RevokeAllUserTokens(c.Context(), userID); err != nil {
		return response.InternalServerError(c, "Failed to revoke tokens")
	}

	return response.SuccessWithMessage(c, "All sessions logged out", nil)
}

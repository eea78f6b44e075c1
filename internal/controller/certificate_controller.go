package controller

import (
	"formapro_backend/internal/service"
	"formapro_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	Certificates *service.CertificateService
	Badges       *service.BadgeService
}

func NewCertificateController(certificates *service.CertificateService, badges *service.BadgeService) *CertificateController {
	return &CertificateController{Certificates: certificates, Badges: badges}
}

// ListMine godoc
// @Summary List the caller's certificates
// @Tags achievements
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Certificate}
// @Router /api/v1/certificates [get]
func (c *CertificateController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	out, err := c.Certificates.ListMine(claims.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, out)
}

// GetByEnrollment godoc
// @Summary Certificate for one enrollment
// @Description Returns 404 while the certificate is still being issued.
// @Tags achievements
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "enrollment id"
// @Success 200 {object} util.Response{data=model.Certificate}
// @Failure 404 {object} util.Response
// @Router /api/v1/enrollments/{id}/certificate [get]
func (c *CertificateController) GetByEnrollment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	out, err := c.Certificates.GetByEnrollment(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, out)
}

// ListBadges godoc
// @Summary List the caller's badges
// @Tags achievements
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserBadge}
// @Router /api/v1/badges [get]
func (c *CertificateController) ListBadges(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	out, err := c.Badges.ListMine(claims.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, out)
}

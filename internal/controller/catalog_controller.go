package controller

import (
	"strconv"

	"formapro_backend/internal/service"
	"formapro_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	Catalog *service.CatalogService
}

func NewCatalogController(catalog *service.CatalogService) *CatalogController {
	return &CatalogController{Catalog: catalog}
}

// ListFormations godoc
// @Summary Browse the published formation catalog
// @Tags catalog
// @Produce json
// @Param page query int false "page number" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response{data=service.CatalogPage}
// @Router /api/v1/formations [get]
func (c *CatalogController) ListFormations(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	out, err := c.Catalog.ListPublished(ctx.Request.Context(), page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, out)
}

// GetFormation godoc
// @Summary Published formation detail with modules and quizzes
// @Description Quiz answer keys are never included in this view.
// @Tags catalog
// @Produce json
// @Param id path string true "formation id"
// @Success 200 {object} util.Response{data=service.FormationView}
// @Failure 404 {object} util.Response
// @Router /api/v1/formations/{id} [get]
func (c *CatalogController) GetFormation(ctx *gin.Context) {
	out, err := c.Catalog.GetFormation(ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, out)
}

package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/cafehub/app/forms"
	"github.com/shashiranjanraj/cafehub/app/models"
	"github.com/shashiranjanraj/cafehub/app/services"
	"github.com/shashiranjanraj/cafehub/pkg/ctx"
	"github.com/shashiranjanraj/cafehub/pkg/response"
)

type CafeController struct {
	cafes   *services.CafeService
	notices Notices
}

func NewCafeController(cafes *services.CafeService, notices Notices) *CafeController {
	return &CafeController{cafes: cafes, notices: notices}
}

// Index lists every cafe along with any pending notices.
func (cc *CafeController) Index(c *ctx.Context) {
	list, err := cc.cafes.ListCafes(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if list == nil {
		list = []models.Cafe{}
	}
	c.Respond(http.StatusOK, response.Envelope{
		Data:    list,
		Flashes: cc.notices.Flashes(c.W, c.R),
	})
}

func (cc *CafeController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}
	cafe, err := cc.cafes.GetCafeDetail(c.Context(), id, c.Principal())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cafe)
}

// Store accepts a JSON body or a submitted HTML form.
func (cc *CafeController) Store(c *ctx.Context) {
	var form forms.CafeForm
	if !c.Bind(&form) {
		return
	}
	cafe, err := cc.cafes.AddCafe(c.Context(), form.Input(), c.Principal())
	if err != nil {
		fail(c, err)
		return
	}
	if wantsHTML(c.R) {
		c.Redirect(http.StatusSeeOther, "/api/cafes")
		return
	}
	c.Created(cafe)
}

func (cc *CafeController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}
	if err := cc.cafes.RemoveCafe(c.Context(), id, c.Principal()); err != nil {
		fail(c, err)
		return
	}
	if wantsHTML(c.R) {
		c.Redirect(http.StatusSeeOther, "/api/cafes")
		return
	}
	c.W.WriteHeader(http.StatusNoContent)
}
